package oxirepo

import (
	"context"

	"github.com/parisxmas/oxidocs/internal/models"
)

type reportDoc struct {
	ID int64 `json:"_id"`
	models.Report
}

func (d *reportDoc) model() *models.Report {
	d.Report.ID = d.ID
	if string(d.Filters) == "null" {
		d.Filters = nil
	}
	return &d.Report
}

type reportRepo struct {
	c coll[reportDoc]
}

func (r *reportRepo) List(ctx context.Context) ([]models.Report, error) {
	docs, err := r.c.find(ctx, map[string]any{})
	if err != nil {
		return nil, err
	}
	reports := make([]models.Report, 0, len(docs))
	for i := range docs {
		reports = append(reports, *docs[i].model())
	}
	return reports, nil
}

func (r *reportRepo) Get(ctx context.Context, id int64) (*models.Report, error) {
	d, err := r.c.get(ctx, id)
	if err != nil || d == nil {
		return nil, err
	}
	return d.model(), nil
}

func (r *reportRepo) Create(ctx context.Context, rep *models.Report) error {
	id, err := r.c.insert(ctx, &reportDoc{Report: *rep})
	if err != nil {
		return err
	}
	rep.ID = id
	return nil
}

func (r *reportRepo) Update(ctx context.Context, rep *models.Report) error {
	return r.c.update(ctx, rep.ID, &reportDoc{Report: *rep})
}

func (r *reportRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return r.c.delete(ctx, id)
}
