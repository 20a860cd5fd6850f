package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/oxidocs/internal/apperr"
	"github.com/parisxmas/oxidocs/internal/events"
	"github.com/parisxmas/oxidocs/internal/models"
)

func marriage(t *testing.T, f *fixture) *models.Template {
	t.Helper()
	tpl, err := f.templates.Create(context.Background(), TemplateInput{
		Name:   "عقد زواج",
		Fields: []models.FieldDefinition{{ID: "field_1", Type: models.FieldClient, Required: true}},
	})
	require.NoError(t, err)
	return tpl
}

func TestCreateDocumentMarriageExample(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DeleteOrphan)
	tpl := marriage(t, f)
	require.Equal(t, int64(1), tpl.ID)

	_, err := f.documents.Create(ctx, DocumentInput{TemplateID: 1, Data: models.Data{}})
	require.Error(t, err)
	assert.Equal(t, []string{"field_1"}, issueKeys(t, err))
	assert.Contains(t, err.Error(), "field_1")

	doc, err := f.documents.Create(ctx, DocumentInput{TemplateID: 1, Data: models.Data{"field_1": models.Text("5")}})
	require.NoError(t, err)
	assert.False(t, doc.Archived)
	assert.Nil(t, doc.ArchiveMetadata)
	assert.Equal(t, models.KindReference, doc.Data["field_1"].Kind())
	assert.Equal(t, []string{events.DocumentCreated}, f.events.types())
}

func TestCreateDocumentUnknownTemplate(t *testing.T) {
	f := newFixture(t, DeleteOrphan)

	_, err := f.documents.Create(context.Background(), DocumentInput{TemplateID: 9})
	require.Error(t, err)
	assert.Equal(t, []string{"templateId"}, issueKeys(t, err))
	assert.Contains(t, err.Error(), "Template not found")
}

func TestCreateDocumentRequiredKeys(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DeleteOrphan)
	tpl, err := f.templates.Create(ctx, TemplateInput{
		Name: "Lease",
		Fields: []models.FieldDefinition{
			{ID: "tenant", Name: "Tenant", Type: models.FieldText, Required: true},
			{ID: "rent", Name: "Rent", Type: models.FieldNumber, Required: true},
			{ID: "notes", Name: "Notes", Type: models.FieldText},
		},
		Questions: []models.QuestionDefinition{
			{ID: "pets", Text: "Pets?", Type: models.QuestionYesNo, Required: true},
		},
	})
	require.NoError(t, err)

	full := models.Data{"tenant": models.Text("Omar"), "rent": models.Number(900), "q_pets": models.Bool(false)}
	_, err = f.documents.Create(ctx, DocumentInput{TemplateID: tpl.ID, Data: full})
	require.NoError(t, err)

	for _, key := range []string{"tenant", "rent", "q_pets"} {
		data := full.Clone()
		delete(data, key)
		_, err := f.documents.Create(ctx, DocumentInput{TemplateID: tpl.ID, Data: data})
		assert.Equal(t, []string{key}, issueKeys(t, err), "omitting %s", key)
	}
}

func TestUpdateDocumentPartial(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DeleteOrphan)
	tpl, err := f.templates.Create(ctx, TemplateInput{
		Name: "Loan",
		Fields: []models.FieldDefinition{
			{ID: "borrower", Name: "Borrower", Type: models.FieldText, Required: true},
			{ID: "amount", Name: "Amount", Type: models.FieldNumber, Required: true},
		},
	})
	require.NoError(t, err)
	doc, err := f.documents.Create(ctx, DocumentInput{TemplateID: tpl.ID, Data: models.Data{
		"borrower": models.Text("Ali"), "amount": models.Number(100),
	}})
	require.NoError(t, err)

	updated, err := f.documents.Update(ctx, doc.ID, models.DocumentPatch{Data: models.Data{"amount": models.Text("250")}})
	require.NoError(t, err)
	assert.Equal(t, 250.0, updated.Data["amount"].Number())
	assert.Equal(t, "Ali", updated.Data["borrower"].Str())

	_, err = f.documents.Update(ctx, doc.ID, models.DocumentPatch{Data: models.Data{"amount": models.Text("lots")}})
	assert.Equal(t, []string{"amount"}, issueKeys(t, err))

	_, err = f.documents.Update(ctx, doc.ID, models.DocumentPatch{Data: models.Data{"borrower": models.Null()}})
	assert.Equal(t, []string{"borrower"}, issueKeys(t, err))
	stored, err := f.documents.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ali", stored.Data["borrower"].Str())

	other := tpl.ID + 1
	_, err = f.documents.Update(ctx, doc.ID, models.DocumentPatch{TemplateID: &other})
	assert.Equal(t, []string{"templateId"}, issueKeys(t, err))

	same := tpl.ID
	_, err = f.documents.Update(ctx, doc.ID, models.DocumentPatch{TemplateID: &same})
	assert.NoError(t, err)

	_, err = f.documents.Update(ctx, 999, models.DocumentPatch{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateOrphanedDocumentSkipsValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DeleteOrphan)
	tpl, err := f.templates.Create(ctx, TemplateInput{Name: "T", Fields: []models.FieldDefinition{{ID: "n", Type: models.FieldNumber}}})
	require.NoError(t, err)
	doc, err := f.documents.Create(ctx, DocumentInput{TemplateID: tpl.ID, Data: models.Data{"n": models.Number(1)}})
	require.NoError(t, err)
	require.NoError(t, f.templates.Delete(ctx, tpl.ID))

	updated, err := f.documents.Update(ctx, doc.ID, models.DocumentPatch{Data: models.Data{"n": models.Text("not a number")}})
	require.NoError(t, err)
	assert.Equal(t, "not a number", updated.Data["n"].Str())
}

func TestDocumentFollowsTemplateEdits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DeleteOrphan)
	tpl, err := f.templates.Create(ctx, TemplateInput{Name: "T", Fields: []models.FieldDefinition{{ID: "a", Type: models.FieldText}}})
	require.NoError(t, err)

	_, err = f.documents.Create(ctx, DocumentInput{TemplateID: tpl.ID, Data: models.Data{}})
	require.NoError(t, err)

	fields := []models.FieldDefinition{{ID: "a", Type: models.FieldText, Required: true}}
	_, err = f.templates.Update(ctx, tpl.ID, models.TemplatePatch{Fields: &fields})
	require.NoError(t, err)

	_, err = f.documents.Create(ctx, DocumentInput{TemplateID: tpl.ID, Data: models.Data{}})
	assert.Equal(t, []string{"a"}, issueKeys(t, err))
}

func TestListByTemplateAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DeleteOrphan)
	a, err := f.templates.Create(ctx, TemplateInput{Name: "A"})
	require.NoError(t, err)
	b, err := f.templates.Create(ctx, TemplateInput{Name: "B"})
	require.NoError(t, err)
	for _, id := range []int64{a.ID, b.ID, a.ID} {
		_, err := f.documents.Create(ctx, DocumentInput{TemplateID: id})
		require.NoError(t, err)
	}

	docs, err := f.documents.ListByTemplate(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	require.NoError(t, f.documents.Delete(ctx, docs[0].ID))
	assert.ErrorIs(t, f.documents.Delete(ctx, docs[0].ID), apperr.ErrNotFound)

	all, err := f.documents.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRenderDocument(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DeleteOrphan)

	husband, err := f.clients.Create(ctx, ClientInput{Name: "Khalid", IDNumber: "1090", IDExpiry: "2031-01-01", Mobile: "0501"})
	require.NoError(t, err)
	tpl, err := f.templates.Create(ctx, MarriageContract())
	require.NoError(t, err)

	ref := models.Text(strconv.FormatInt(husband.ID, 10))
	doc, err := f.documents.Create(ctx, DocumentInput{TemplateID: tpl.ID, Data: models.Data{
		"husband":          ref,
		"husband_id":       ref,
		"wife":             models.Text("77"),
		"contract_date":    models.Text("2024-03-09"),
		"dowry":            models.Number(5000),
		"q_first_marriage": models.Bool(true),
		"legacy":           models.Text("kept"),
	}})
	require.NoError(t, err)

	r, err := f.documents.Render(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, tpl.Name, r.TemplateName)

	display := map[string]string{}
	for _, fld := range r.Fields {
		display[fld.ID] = fld.Display
	}
	assert.Equal(t, "Khalid", display["husband"])
	assert.Equal(t, "1090", display["husband_id"])
	assert.Equal(t, "77", display["wife"], "unknown client ids render as stored")
	assert.Equal(t, "09/03/2024", display["contract_date"])
	assert.Equal(t, "5000", display["dowry"])
	assert.Equal(t, "", display["city"])

	require.Len(t, r.Answers, 3)
	assert.Equal(t, "Yes", r.Answers[0].Display)
	assert.Equal(t, []string{"legacy"}, r.Extra)
}

func TestRenderOrphanedDocument(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DeleteOrphan)
	tpl, err := f.templates.Create(ctx, TemplateInput{Name: "T"})
	require.NoError(t, err)
	doc, err := f.documents.Create(ctx, DocumentInput{TemplateID: tpl.ID})
	require.NoError(t, err)
	require.NoError(t, f.templates.Delete(ctx, tpl.ID))

	_, err = f.documents.Render(ctx, doc.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
