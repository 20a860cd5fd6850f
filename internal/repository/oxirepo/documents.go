package oxirepo

import (
	"context"

	"github.com/parisxmas/oxidocs/internal/models"
)

type documentDoc struct {
	ID int64 `json:"_id"`
	models.Document
}

func (d *documentDoc) model() *models.Document {
	d.Document.ID = d.ID
	if d.Data == nil {
		d.Data = models.Data{}
	}
	return &d.Document
}

type documentRepo struct {
	c coll[documentDoc]
}

func (r *documentRepo) list(ctx context.Context, query map[string]any) ([]models.Document, error) {
	docs, err := r.c.find(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]models.Document, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].model())
	}
	return out, nil
}

func (r *documentRepo) List(ctx context.Context) ([]models.Document, error) {
	return r.list(ctx, map[string]any{})
}

func (r *documentRepo) ListByTemplate(ctx context.Context, templateID int64) ([]models.Document, error) {
	return r.list(ctx, map[string]any{"templateId": templateID})
}

func (r *documentRepo) ListArchived(ctx context.Context) ([]models.Document, error) {
	return r.list(ctx, map[string]any{"archived": true})
}

func (r *documentRepo) CountByTemplate(ctx context.Context, templateID int64) (int, error) {
	return r.c.count(ctx, map[string]any{"templateId": templateID})
}

func (r *documentRepo) Get(ctx context.Context, id int64) (*models.Document, error) {
	d, err := r.c.get(ctx, id)
	if err != nil || d == nil {
		return nil, err
	}
	return d.model(), nil
}

func (r *documentRepo) Create(ctx context.Context, d *models.Document) error {
	id, err := r.c.insert(ctx, &documentDoc{Document: *d})
	if err != nil {
		return err
	}
	d.ID = id
	return nil
}

// Update overwrites every stored key, so clearing archive metadata stores null.
func (r *documentRepo) Update(ctx context.Context, d *models.Document) error {
	return r.c.update(ctx, d.ID, &documentDoc{Document: *d})
}

func (r *documentRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return r.c.delete(ctx, id)
}
