package oxirepo

import (
	"context"

	"github.com/parisxmas/oxidocs/internal/models"
)

type templateDoc struct {
	ID int64 `json:"_id"`
	models.Template
}

func (d *templateDoc) model() *models.Template {
	d.Template.ID = d.ID
	if d.Fields == nil {
		d.Fields = []models.FieldDefinition{}
	}
	if d.Questions == nil {
		d.Questions = []models.QuestionDefinition{}
	}
	return &d.Template
}

type templateRepo struct {
	c coll[templateDoc]
}

func (r *templateRepo) List(ctx context.Context) ([]models.Template, error) {
	docs, err := r.c.find(ctx, map[string]any{})
	if err != nil {
		return nil, err
	}
	templates := make([]models.Template, 0, len(docs))
	for i := range docs {
		templates = append(templates, *docs[i].model())
	}
	return templates, nil
}

func (r *templateRepo) Get(ctx context.Context, id int64) (*models.Template, error) {
	d, err := r.c.get(ctx, id)
	if err != nil || d == nil {
		return nil, err
	}
	return d.model(), nil
}

func (r *templateRepo) Create(ctx context.Context, t *models.Template) error {
	id, err := r.c.insert(ctx, &templateDoc{Template: *t})
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

func (r *templateRepo) Update(ctx context.Context, t *models.Template) error {
	return r.c.update(ctx, t.ID, &templateDoc{Template: *t})
}

func (r *templateRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return r.c.delete(ctx, id)
}
