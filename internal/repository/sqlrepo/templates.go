package sqlrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/parisxmas/oxidocs/internal/models"
)

const templateColumns = `id, name, description, fields, questions, created_at, updated_at`

type templateRepo struct {
	c *conn
}

func scanTemplate(row interface{ Scan(...any) error }) (*models.Template, error) {
	var (
		t                 models.Template
		fields, questions []byte
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &fields, &questions, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(fields, &t.Fields); err != nil {
		return nil, fmt.Errorf("unmarshal template %d fields: %w", t.ID, err)
	}
	if err := json.Unmarshal(questions, &t.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal template %d questions: %w", t.ID, err)
	}
	if t.Fields == nil {
		t.Fields = []models.FieldDefinition{}
	}
	if t.Questions == nil {
		t.Questions = []models.QuestionDefinition{}
	}
	return &t, nil
}

func encodeTemplate(t *models.Template) (string, string, error) {
	fields, err := json.Marshal(t.Fields)
	if err != nil {
		return "", "", fmt.Errorf("marshal template fields: %w", err)
	}
	questions, err := json.Marshal(t.Questions)
	if err != nil {
		return "", "", fmt.Errorf("marshal template questions: %w", err)
	}
	return string(fields), string(questions), nil
}

func (r *templateRepo) List(ctx context.Context) ([]models.Template, error) {
	rows, err := r.c.query(ctx, `SELECT `+templateColumns+` FROM templates ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []models.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (r *templateRepo) Get(ctx context.Context, id int64) (*models.Template, error) {
	t, err := scanTemplate(r.c.queryRow(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

func (r *templateRepo) Create(ctx context.Context, t *models.Template) error {
	fields, questions, err := encodeTemplate(t)
	if err != nil {
		return err
	}
	id, err := r.c.insert(ctx, `INSERT INTO templates (name, description, fields, questions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.Name, t.Description, fields, questions, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

func (r *templateRepo) Update(ctx context.Context, t *models.Template) error {
	fields, questions, err := encodeTemplate(t)
	if err != nil {
		return err
	}
	_, err = r.c.exec(ctx, `UPDATE templates SET name = ?, description = ?, fields = ?, questions = ?, updated_at = ? WHERE id = ?`,
		t.Name, t.Description, fields, questions, t.UpdatedAt, t.ID)
	return err
}

func (r *templateRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return r.c.deleteByID(ctx, "templates", id)
}
