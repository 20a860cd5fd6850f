package oxirepo

import (
	"context"
	"time"

	"github.com/parisxmas/oxidocs/internal/models"
)

// userDoc spells out the stored shape because models.User hides the hash from JSON.
type userDoc struct {
	ID           int64     `json:"_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (d *userDoc) model() *models.User {
	return &models.User{ID: d.ID, Username: d.Username, PasswordHash: d.PasswordHash, CreatedAt: d.CreatedAt}
}

type userRepo struct {
	c coll[userDoc]
}

func (r *userRepo) Get(ctx context.Context, id int64) (*models.User, error) {
	d, err := r.c.get(ctx, id)
	if err != nil || d == nil {
		return nil, err
	}
	return d.model(), nil
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	d, err := r.c.one(ctx, map[string]any{"username": username})
	if err != nil || d == nil {
		return nil, err
	}
	return d.model(), nil
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	id, err := r.c.insert(ctx, &userDoc{Username: u.Username, PasswordHash: u.PasswordHash, CreatedAt: u.CreatedAt})
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}
