package service

import (
	"context"
	"fmt"

	"github.com/parisxmas/oxidocs/internal/apperr"
	"github.com/parisxmas/oxidocs/internal/events"
	"github.com/parisxmas/oxidocs/internal/models"
	"github.com/parisxmas/oxidocs/internal/repository"
	"github.com/parisxmas/oxidocs/internal/schema"
)

// DeletePolicy decides what happens to documents when their template is deleted.
type DeletePolicy string

const (
	// DeleteOrphan removes the template and leaves its documents pointing at the stale id.
	DeleteOrphan DeletePolicy = "orphan"
	// DeleteRestrict refuses to delete a template that documents still reference.
	DeleteRestrict DeletePolicy = "restrict"
)

// ParseDeletePolicy accepts "orphan" and "restrict"; anything else is an error.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch DeletePolicy(s) {
	case DeleteOrphan, DeleteRestrict:
		return DeletePolicy(s), nil
	case "":
		return DeleteOrphan, nil
	}
	return "", fmt.Errorf("unknown template delete policy %q", s)
}

// TemplateInput is the body of a template creation request.
type TemplateInput struct {
	Name        string                      `json:"name"`
	Description string                      `json:"description"`
	Fields      []models.FieldDefinition    `json:"fields"`
	Questions   []models.QuestionDefinition `json:"questions"`
}

type TemplateService struct {
	templates repository.TemplateRepository
	documents repository.DocumentRepository
	events    events.Publisher
	policy    DeletePolicy
}

func NewTemplateService(templates repository.TemplateRepository, documents repository.DocumentRepository, pub events.Publisher, policy DeletePolicy) *TemplateService {
	if policy == "" {
		policy = DeleteOrphan
	}
	return &TemplateService{templates: templates, documents: documents, events: pub, policy: policy}
}

func (s *TemplateService) List(ctx context.Context) ([]models.Template, error) {
	return s.templates.List(ctx)
}

func (s *TemplateService) Get(ctx context.Context, id int64) (*models.Template, error) {
	t, err := s.templates.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("Template")
	}
	return t, nil
}

func (s *TemplateService) Create(ctx context.Context, in TemplateInput) (*models.Template, error) {
	t := &models.Template{
		Name:        in.Name,
		Description: in.Description,
		Fields:      in.Fields,
		Questions:   in.Questions,
	}
	if t.Fields == nil {
		t.Fields = []models.FieldDefinition{}
	}
	if t.Questions == nil {
		t.Questions = []models.QuestionDefinition{}
	}
	schema.AssignIDs(t.Fields, t.Questions)
	if err := schema.CheckTemplate(t); err != nil {
		return nil, err
	}

	t.CreatedAt = now()
	t.UpdatedAt = t.CreatedAt
	if err := s.templates.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update merges the keys present in patch. Replacing the field list without
// sending questions drops the questions tied to removed fields.
func (s *TemplateService) Update(ctx context.Context, id int64, patch models.TemplatePatch) (*models.Template, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Questions != nil {
		t.Questions = *patch.Questions
		if t.Questions == nil {
			t.Questions = []models.QuestionDefinition{}
		}
	}
	if patch.Fields != nil {
		t.Fields = *patch.Fields
		if t.Fields == nil {
			t.Fields = []models.FieldDefinition{}
		}
		if patch.Questions == nil {
			t.Questions = schema.PruneQuestions(t.Fields, t.Questions)
		}
	}
	schema.AssignIDs(t.Fields, t.Questions)
	if err := schema.CheckTemplate(t); err != nil {
		return nil, err
	}

	t.UpdatedAt = now()
	if err := s.templates.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a template. Under DeleteOrphan its documents are kept.
func (s *TemplateService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	inUse, err := s.documents.CountByTemplate(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 && s.policy == DeleteRestrict {
		return apperr.Conflict("Template is used by %d documents", inUse)
	}

	ok, err := s.templates.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Template")
	}
	events.Emit(ctx, s.events, events.Event{
		Type:    events.TemplateDeleted,
		ID:      id,
		Payload: map[string]int{"orphanedDocuments": inUse},
	})
	return nil
}
