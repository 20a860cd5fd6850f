package service

import (
	"context"
	"log"

	"github.com/parisxmas/oxidocs/internal/models"
)

// MarriageContract is the sample template installed by seeding.
func MarriageContract() TemplateInput {
	return TemplateInput{
		Name:        "عقد زواج",
		Description: "Marriage contract",
		Fields: []models.FieldDefinition{
			{ID: "husband", Name: "Husband", Type: models.FieldClient, Required: true, ClientField: "name"},
			{ID: "husband_id", Name: "Husband ID number", Type: models.FieldClient, Required: true, ClientField: "idNumber"},
			{ID: "wife", Name: "Wife", Type: models.FieldClient, Required: true, ClientField: "name"},
			{ID: "contract_date", Name: "Contract date", Type: models.FieldDate, Required: true, Format: "DMY"},
			{ID: "dowry", Name: "Dowry", Type: models.FieldNumber, Required: true},
			{ID: "city", Name: "City", Type: models.FieldSelect, Options: []string{"Riyadh", "Jeddah", "Dammam"}},
			{ID: "witnesses", Name: "Witnesses", Type: models.FieldText},
		},
		Questions: []models.QuestionDefinition{
			{ID: "first_marriage", Text: "Is this the husband's first marriage?", Type: models.QuestionYesNo, Required: true, FieldID: "husband"},
			{ID: "payment", Text: "How is the dowry paid?", Type: models.QuestionMultiple, Options: []string{"cash", "transfer", "deferred"}, FieldID: "dowry"},
			{ID: "conditions", Text: "Additional conditions", Type: models.QuestionText},
		},
	}
}

// SeedOptions selects what Seed installs.
type SeedOptions struct {
	AdminUser string
	AdminPass string
	Sample    bool
}

// Seed installs the admin account and, optionally, the sample template.
// Running it again changes nothing.
func Seed(ctx context.Context, users *UserService, templates *TemplateService, opts SeedOptions) error {
	if opts.AdminUser != "" {
		created, err := users.EnsureAdmin(ctx, opts.AdminUser, opts.AdminPass)
		if err != nil {
			return err
		}
		if created {
			log.Printf("Seeded admin user %q", opts.AdminUser)
		}
	}
	if !opts.Sample {
		return nil
	}

	sample := MarriageContract()
	existing, err := templates.List(ctx)
	if err != nil {
		return err
	}
	for _, t := range existing {
		if t.Name == sample.Name {
			return nil
		}
	}
	t, err := templates.Create(ctx, sample)
	if err != nil {
		return err
	}
	log.Printf("Seeded sample template %d (%s)", t.ID, t.Description)
	return nil
}
