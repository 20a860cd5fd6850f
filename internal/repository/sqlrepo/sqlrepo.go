// Package sqlrepo implements the entity store on database/sql. It speaks to
// SQLite (modernc.org/sqlite, pure Go) or PostgreSQL (lib/pq).
package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/parisxmas/oxidocs/internal/repository"
)

// Driver names accepted by Open.
const (
	SQLite   = "sqlite"
	Postgres = "postgres"
)

type dialect struct {
	driver   string
	autoID   string
	jsonType string
	boolType string
	timeType string
}

var dialects = map[string]dialect{
	SQLite: {
		driver:   "sqlite",
		autoID:   "INTEGER PRIMARY KEY AUTOINCREMENT",
		jsonType: "TEXT",
		boolType: "BOOLEAN",
		timeType: "TIMESTAMP",
	},
	Postgres: {
		driver:   "postgres",
		autoID:   "BIGSERIAL PRIMARY KEY",
		jsonType: "JSONB",
		boolType: "BOOLEAN",
		timeType: "TIMESTAMPTZ",
	},
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (d dialect) rebind(query string) string {
	if d.driver != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type conn struct {
	db *sql.DB
	d  dialect
}

func (c *conn) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.db.ExecContext(ctx, c.d.rebind(query), args...)
}

func (c *conn) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, c.d.rebind(query), args...)
}

func (c *conn) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return c.db.QueryRowContext(ctx, c.d.rebind(query), args...)
}

// insert runs an INSERT ... RETURNING id and returns the generated id.
func (c *conn) insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := c.queryRow(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
		return 0, translate(err)
	}
	return id, nil
}

// deleteByID removes one row and reports whether it existed.
func (c *conn) deleteByID(ctx context.Context, table string, id int64) (bool, error) {
	res, err := c.exec(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// translate maps driver uniqueness violations to repository.ErrDuplicate.
func translate(err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	var pe *pq.Error
	if errors.As(err, &pe) && pe.Code == "23505" {
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	return err
}

// Open connects to the database and returns a Store over it.
func Open(driver, dsn string) (*repository.Store, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("sqlrepo: unsupported driver %q", driver)
	}
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlrepo: open %s: %w", driver, err)
	}
	if driver == SQLite {
		// one connection keeps :memory: databases shared and serialises writers
		db.SetMaxOpenConns(1)
	}
	c := &conn{db: db, d: d}
	return &repository.Store{
		Clients:   &clientRepo{c},
		Templates: &templateRepo{c},
		Documents: &documentRepo{c},
		Reports:   &reportRepo{c},
		Users:     &userRepo{c},
		Migrate:   c.migrate,
		Ping:      db.PingContext,
		Close:     db.Close,
	}, nil
}

func (c *conn) migrate(ctx context.Context) error {
	d := c.d
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS clients (
			id ` + d.autoID + `,
			name TEXT NOT NULL,
			id_number TEXT NOT NULL UNIQUE,
			id_expiry TEXT NOT NULL,
			mobile TEXT NOT NULL,
			id_image_url TEXT,
			description TEXT,
			created_at ` + d.timeType + ` NOT NULL,
			updated_at ` + d.timeType + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS templates (
			id ` + d.autoID + `,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			fields ` + d.jsonType + ` NOT NULL,
			questions ` + d.jsonType + ` NOT NULL,
			created_at ` + d.timeType + ` NOT NULL,
			updated_at ` + d.timeType + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			id ` + d.autoID + `,
			template_id BIGINT NOT NULL,
			data ` + d.jsonType + ` NOT NULL,
			archived ` + d.boolType + ` NOT NULL DEFAULT FALSE,
			archived_at ` + d.timeType + `,
			archive_metadata ` + d.jsonType + `,
			created_at ` + d.timeType + ` NOT NULL,
			updated_at ` + d.timeType + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_template ON documents(template_id)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_archived ON documents(archived)`,
		`CREATE TABLE IF NOT EXISTS reports (
			id ` + d.autoID + `,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			filters ` + d.jsonType + `,
			created_at ` + d.timeType + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id ` + d.autoID + `,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at ` + d.timeType + ` NOT NULL
		)`,
	}
	for _, s := range stmts {
		if _, err := c.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("sqlrepo: migrate: %w", err)
		}
	}
	return nil
}

// nullString maps an optional string to a nullable column value.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
