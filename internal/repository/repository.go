// Package repository defines the entity store. Every lookup by id returns
// (nil, nil) when the record is absent; callers decide whether that is an error.
package repository

import (
	"context"
	"errors"

	"github.com/parisxmas/oxidocs/internal/models"
)

// ErrDuplicate is returned when a write violates a uniqueness constraint.
var ErrDuplicate = errors.New("repository: duplicate key")

type ClientRepository interface {
	List(ctx context.Context) ([]models.Client, error)
	Get(ctx context.Context, id int64) (*models.Client, error)
	FindByIDNumber(ctx context.Context, idNumber string) (*models.Client, error)
	Create(ctx context.Context, c *models.Client) error
	Update(ctx context.Context, c *models.Client) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type TemplateRepository interface {
	List(ctx context.Context) ([]models.Template, error)
	Get(ctx context.Context, id int64) (*models.Template, error)
	Create(ctx context.Context, t *models.Template) error
	Update(ctx context.Context, t *models.Template) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type DocumentRepository interface {
	List(ctx context.Context) ([]models.Document, error)
	ListByTemplate(ctx context.Context, templateID int64) ([]models.Document, error)
	ListArchived(ctx context.Context) ([]models.Document, error)
	CountByTemplate(ctx context.Context, templateID int64) (int, error)
	Get(ctx context.Context, id int64) (*models.Document, error)
	Create(ctx context.Context, d *models.Document) error
	Update(ctx context.Context, d *models.Document) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type ReportRepository interface {
	List(ctx context.Context) ([]models.Report, error)
	Get(ctx context.Context, id int64) (*models.Report, error)
	Create(ctx context.Context, r *models.Report) error
	Update(ctx context.Context, r *models.Report) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type UserRepository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}

// Store bundles the repositories of one backend.
type Store struct {
	Clients   ClientRepository
	Templates TemplateRepository
	Documents DocumentRepository
	Reports   ReportRepository
	Users     UserRepository

	// Migrate creates tables or indexes; it is safe to run repeatedly.
	Migrate func(ctx context.Context) error
	// Ping checks the backend is reachable.
	Ping  func(ctx context.Context) error
	Close func() error
}
