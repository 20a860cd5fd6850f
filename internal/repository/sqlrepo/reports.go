package sqlrepo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/parisxmas/oxidocs/internal/models"
)

type reportRepo struct {
	c *conn
}

func scanReport(row interface{ Scan(...any) error }) (*models.Report, error) {
	var (
		rep     models.Report
		typ     string
		filters []byte
	)
	if err := row.Scan(&rep.ID, &rep.Name, &typ, &filters, &rep.CreatedAt); err != nil {
		return nil, err
	}
	rep.Type = models.ReportType(typ)
	if len(filters) > 0 {
		rep.Filters = json.RawMessage(filters)
	}
	return &rep, nil
}

func rawOrNull(m json.RawMessage) sql.NullString {
	if len(m) == 0 || string(m) == "null" {
		return sql.NullString{}
	}
	return sql.NullString{String: string(m), Valid: true}
}

func (r *reportRepo) List(ctx context.Context) ([]models.Report, error) {
	rows, err := r.c.query(ctx, `SELECT id, name, type, filters, created_at FROM reports ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *rep)
	}
	return reports, rows.Err()
}

func (r *reportRepo) Get(ctx context.Context, id int64) (*models.Report, error) {
	rep, err := scanReport(r.c.queryRow(ctx, `SELECT id, name, type, filters, created_at FROM reports WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rep, err
}

func (r *reportRepo) Create(ctx context.Context, rep *models.Report) error {
	id, err := r.c.insert(ctx, `INSERT INTO reports (name, type, filters, created_at) VALUES (?, ?, ?, ?)`,
		rep.Name, string(rep.Type), rawOrNull(rep.Filters), rep.CreatedAt)
	if err != nil {
		return err
	}
	rep.ID = id
	return nil
}

func (r *reportRepo) Update(ctx context.Context, rep *models.Report) error {
	_, err := r.c.exec(ctx, `UPDATE reports SET name = ?, type = ?, filters = ? WHERE id = ?`,
		rep.Name, string(rep.Type), rawOrNull(rep.Filters), rep.ID)
	return err
}

func (r *reportRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return r.c.deleteByID(ctx, "reports", id)
}
