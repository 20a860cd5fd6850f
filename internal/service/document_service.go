package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/parisxmas/oxidocs/internal/apperr"
	"github.com/parisxmas/oxidocs/internal/events"
	"github.com/parisxmas/oxidocs/internal/models"
	"github.com/parisxmas/oxidocs/internal/repository"
	"github.com/parisxmas/oxidocs/internal/schema"
)

// DocumentInput is the body of a document creation request.
type DocumentInput struct {
	TemplateID int64       `json:"templateId"`
	Data       models.Data `json:"data"`
}

type DocumentService struct {
	documents repository.DocumentRepository
	templates repository.TemplateRepository
	clients   repository.ClientRepository
	events    events.Publisher
}

func NewDocumentService(documents repository.DocumentRepository, templates repository.TemplateRepository, clients repository.ClientRepository, pub events.Publisher) *DocumentService {
	return &DocumentService{documents: documents, templates: templates, clients: clients, events: pub}
}

func (s *DocumentService) List(ctx context.Context) ([]models.Document, error) {
	return s.documents.List(ctx)
}

func (s *DocumentService) ListByTemplate(ctx context.Context, templateID int64) ([]models.Document, error) {
	return s.documents.ListByTemplate(ctx, templateID)
}

func (s *DocumentService) Get(ctx context.Context, id int64) (*models.Document, error) {
	d, err := s.documents.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.NotFound("Document")
	}
	return d, nil
}

// Create validates data against the current revision of the template and stores it.
func (s *DocumentService) Create(ctx context.Context, in DocumentInput) (*models.Document, error) {
	t, err := s.templates.Get(ctx, in.TemplateID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.Invalid("templateId", "Template not found")
	}
	data, err := schema.ContractFor(t).Validate(in.Data)
	if err != nil {
		return nil, err
	}

	d := &models.Document{
		TemplateID: t.ID,
		Data:       data,
		CreatedAt:  now(),
	}
	d.UpdatedAt = d.CreatedAt
	if err := s.documents.Create(ctx, d); err != nil {
		return nil, err
	}
	events.Emit(ctx, s.events, events.Event{
		Type:    events.DocumentCreated,
		ID:      d.ID,
		Payload: map[string]any{"templateId": d.TemplateID},
	})
	return d, nil
}

// Update validates only the data keys present and merges them into the
// stored data. The template binding cannot change.
func (s *DocumentService) Update(ctx context.Context, id int64, patch models.DocumentPatch) (*models.Document, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.TemplateID != nil && *patch.TemplateID != d.TemplateID {
		return nil, apperr.Invalid("templateId", "A document cannot be moved to another template")
	}

	if len(patch.Data) > 0 {
		data := patch.Data
		t, err := s.templates.Get(ctx, d.TemplateID)
		if err != nil {
			return nil, err
		}
		if t != nil {
			if data, err = schema.ContractFor(t).ValidatePartial(patch.Data); err != nil {
				return nil, err
			}
		}
		merged := d.Data.Clone()
		for k, v := range data {
			merged[k] = v
		}
		d.Data = merged
	}

	d.UpdatedAt = now()
	if err := s.documents.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DocumentService) Delete(ctx context.Context, id int64) error {
	ok, err := s.documents.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Document")
	}
	return nil
}

// RenderedField is one template field with its stored value and display text.
type RenderedField struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Type    models.FieldType `json:"type"`
	Value   models.Value     `json:"value"`
	Display string           `json:"display"`
}

// RenderedAnswer is the answer to one follow-up question.
type RenderedAnswer struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Value   models.Value `json:"value"`
	Display string       `json:"display"`
}

// RenderedDocument is a document laid out by its template, ready for printing.
type RenderedDocument struct {
	Document     *models.Document `json:"document"`
	TemplateName string           `json:"templateName"`
	Fields       []RenderedField  `json:"fields"`
	Answers      []RenderedAnswer `json:"answers"`
	// Extra lists stored keys the template does not declare, sorted.
	Extra []string `json:"extra"`
}

// Render lays a document out in template order. Client fields display the
// referenced client's attribute; date fields honour the field's format.
func (s *DocumentService) Render(ctx context.Context, id int64) (*RenderedDocument, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t, err := s.templates.Get(ctx, d.TemplateID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("Template")
	}

	out := &RenderedDocument{
		Document:     d,
		TemplateName: t.Name,
		Fields:       make([]RenderedField, 0, len(t.Fields)),
		Answers:      make([]RenderedAnswer, 0, len(t.Questions)),
		Extra:        []string{},
	}
	known := make(map[string]bool, len(t.Fields)+len(t.Questions))
	for _, f := range t.Fields {
		known[f.ID] = true
		v := d.Data[f.ID]
		display, err := s.display(ctx, f, v)
		if err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, RenderedField{ID: f.ID, Name: f.Name, Type: f.Type, Value: v, Display: display})
	}
	for _, q := range t.Questions {
		key := models.QuestionKey(q.ID)
		known[key] = true
		v := d.Data[key]
		out.Answers = append(out.Answers, RenderedAnswer{ID: q.ID, Text: q.Text, Value: v, Display: answerText(q, v)})
	}
	for k := range d.Data {
		if !known[k] {
			out.Extra = append(out.Extra, k)
		}
	}
	sort.Strings(out.Extra)
	return out, nil
}

func (s *DocumentService) display(ctx context.Context, f models.FieldDefinition, v models.Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	switch f.Type {
	case models.FieldClient:
		id, err := strconv.ParseInt(v.String(), 10, 64)
		if err != nil {
			return v.String(), nil
		}
		cl, err := s.clients.Get(ctx, id)
		if err != nil {
			return "", err
		}
		if cl == nil {
			return v.String(), nil
		}
		return cl.Attribute(f.ClientField), nil
	case models.FieldDate:
		return formatDate(v.Str(), f.Format), nil
	}
	return v.String(), nil
}

var dateLayouts = map[string]string{
	"DMY": "02/01/2006",
	"MDY": "01/02/2006",
	"YMD": "2006-01-02",
}

func formatDate(s, format string) string {
	layout, ok := dateLayouts[format]
	if !ok {
		return s
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return s
		}
	}
	return t.Format(layout)
}

func answerText(q models.QuestionDefinition, v models.Value) string {
	if q.Type == models.QuestionYesNo && v.Kind() == models.KindBoolean {
		if v.Bool() {
			return "Yes"
		}
		return "No"
	}
	return v.String()
}
