package sqlrepo

import (
	"context"
	"database/sql"

	"github.com/parisxmas/oxidocs/internal/models"
)

type userRepo struct {
	c *conn
}

func (r *userRepo) one(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	err := r.c.queryRow(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Get(ctx context.Context, id int64) (*models.User, error) {
	return r.one(ctx, `SELECT id, username, password_hash, created_at FROM users WHERE id = ?`, id)
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.one(ctx, `SELECT id, username, password_hash, created_at FROM users WHERE username = ?`, username)
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	id, err := r.c.insert(ctx, `INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		u.Username, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}
