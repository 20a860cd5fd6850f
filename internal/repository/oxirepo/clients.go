package oxirepo

import (
	"context"

	"github.com/parisxmas/oxidocs/internal/models"
)

type clientDoc struct {
	ID int64 `json:"_id"`
	models.Client
}

func (d *clientDoc) model() *models.Client {
	d.Client.ID = d.ID
	return &d.Client
}

type clientRepo struct {
	c coll[clientDoc]
}

func (r *clientRepo) List(ctx context.Context) ([]models.Client, error) {
	docs, err := r.c.find(ctx, map[string]any{})
	if err != nil {
		return nil, err
	}
	clients := make([]models.Client, 0, len(docs))
	for i := range docs {
		clients = append(clients, *docs[i].model())
	}
	return clients, nil
}

func (r *clientRepo) Get(ctx context.Context, id int64) (*models.Client, error) {
	d, err := r.c.get(ctx, id)
	if err != nil || d == nil {
		return nil, err
	}
	return d.model(), nil
}

func (r *clientRepo) FindByIDNumber(ctx context.Context, idNumber string) (*models.Client, error) {
	d, err := r.c.one(ctx, map[string]any{"idNumber": idNumber})
	if err != nil || d == nil {
		return nil, err
	}
	return d.model(), nil
}

func (r *clientRepo) Create(ctx context.Context, cl *models.Client) error {
	id, err := r.c.insert(ctx, &clientDoc{Client: *cl})
	if err != nil {
		return err
	}
	cl.ID = id
	return nil
}

func (r *clientRepo) Update(ctx context.Context, cl *models.Client) error {
	return r.c.update(ctx, cl.ID, &clientDoc{Client: *cl})
}

func (r *clientRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return r.c.delete(ctx, id)
}
