package sqlrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/parisxmas/oxidocs/internal/models"
)

const documentColumns = `id, template_id, data, archived, archived_at, archive_metadata, created_at, updated_at`

type documentRepo struct {
	c *conn
}

func scanDocument(row interface{ Scan(...any) error }) (*models.Document, error) {
	var (
		d          models.Document
		data       []byte
		archivedAt sql.NullTime
		meta       []byte
	)
	if err := row.Scan(&d.ID, &d.TemplateID, &data, &d.Archived, &archivedAt, &meta, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &d.Data); err != nil {
		return nil, fmt.Errorf("unmarshal document %d data: %w", d.ID, err)
	}
	if d.Data == nil {
		d.Data = models.Data{}
	}
	if archivedAt.Valid {
		t := archivedAt.Time
		d.ArchivedAt = &t
	}
	if len(meta) > 0 && string(meta) != "null" {
		d.ArchiveMetadata = &models.ArchiveMetadata{}
		if err := json.Unmarshal(meta, d.ArchiveMetadata); err != nil {
			return nil, fmt.Errorf("unmarshal document %d archive metadata: %w", d.ID, err)
		}
	}
	return &d, nil
}

type documentArgs struct {
	data       string
	archivedAt sql.NullTime
	meta       sql.NullString
}

func encodeDocument(d *models.Document) (documentArgs, error) {
	var a documentArgs
	data, err := json.Marshal(d.Data)
	if err != nil {
		return a, fmt.Errorf("marshal document data: %w", err)
	}
	a.data = string(data)
	if d.ArchivedAt != nil {
		a.archivedAt = sql.NullTime{Time: *d.ArchivedAt, Valid: true}
	}
	if d.ArchiveMetadata != nil {
		meta, err := json.Marshal(d.ArchiveMetadata)
		if err != nil {
			return a, fmt.Errorf("marshal archive metadata: %w", err)
		}
		a.meta = sql.NullString{String: string(meta), Valid: true}
	}
	return a, nil
}

func (r *documentRepo) list(ctx context.Context, where string, args ...any) ([]models.Document, error) {
	rows, err := r.c.query(ctx, `SELECT `+documentColumns+` FROM documents `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

func (r *documentRepo) List(ctx context.Context) ([]models.Document, error) {
	return r.list(ctx, "")
}

func (r *documentRepo) ListByTemplate(ctx context.Context, templateID int64) ([]models.Document, error) {
	return r.list(ctx, "WHERE template_id = ?", templateID)
}

func (r *documentRepo) ListArchived(ctx context.Context) ([]models.Document, error) {
	return r.list(ctx, "WHERE archived = ?", true)
}

func (r *documentRepo) CountByTemplate(ctx context.Context, templateID int64) (int, error) {
	var n int
	err := r.c.queryRow(ctx, `SELECT COUNT(*) FROM documents WHERE template_id = ?`, templateID).Scan(&n)
	return n, err
}

func (r *documentRepo) Get(ctx context.Context, id int64) (*models.Document, error) {
	d, err := scanDocument(r.c.queryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return d, err
}

func (r *documentRepo) Create(ctx context.Context, d *models.Document) error {
	a, err := encodeDocument(d)
	if err != nil {
		return err
	}
	id, err := r.c.insert(ctx, `INSERT INTO documents (template_id, data, archived, archived_at, archive_metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.TemplateID, a.data, d.Archived, a.archivedAt, a.meta, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return err
	}
	d.ID = id
	return nil
}

func (r *documentRepo) Update(ctx context.Context, d *models.Document) error {
	a, err := encodeDocument(d)
	if err != nil {
		return err
	}
	_, err = r.c.exec(ctx, `UPDATE documents SET template_id = ?, data = ?, archived = ?, archived_at = ?, archive_metadata = ?, updated_at = ?
		WHERE id = ?`,
		d.TemplateID, a.data, d.Archived, a.archivedAt, a.meta, d.UpdatedAt, d.ID)
	return err
}

func (r *documentRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return r.c.deleteByID(ctx, "documents", id)
}
