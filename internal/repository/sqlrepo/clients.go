package sqlrepo

import (
	"context"
	"database/sql"

	"github.com/parisxmas/oxidocs/internal/models"
)

const clientColumns = `id, name, id_number, id_expiry, mobile, id_image_url, description, created_at, updated_at`

type clientRepo struct {
	c *conn
}

func scanClient(row interface{ Scan(...any) error }) (*models.Client, error) {
	var (
		cl    models.Client
		image sql.NullString
		descr sql.NullString
	)
	if err := row.Scan(&cl.ID, &cl.Name, &cl.IDNumber, &cl.IDExpiry, &cl.Mobile, &image, &descr, &cl.CreatedAt, &cl.UpdatedAt); err != nil {
		return nil, err
	}
	cl.IDImageURL = stringPtr(image)
	cl.Description = stringPtr(descr)
	return &cl, nil
}

func (r *clientRepo) List(ctx context.Context) ([]models.Client, error) {
	rows, err := r.c.query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		cl, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *cl)
	}
	return clients, rows.Err()
}

func (r *clientRepo) Get(ctx context.Context, id int64) (*models.Client, error) {
	return r.one(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
}

func (r *clientRepo) FindByIDNumber(ctx context.Context, idNumber string) (*models.Client, error) {
	return r.one(ctx, `SELECT `+clientColumns+` FROM clients WHERE id_number = ?`, idNumber)
}

func (r *clientRepo) one(ctx context.Context, query string, arg any) (*models.Client, error) {
	cl, err := scanClient(r.c.queryRow(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return cl, err
}

func (r *clientRepo) Create(ctx context.Context, cl *models.Client) error {
	id, err := r.c.insert(ctx, `INSERT INTO clients (name, id_number, id_expiry, mobile, id_image_url, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		cl.Name, cl.IDNumber, cl.IDExpiry, cl.Mobile, nullString(cl.IDImageURL), nullString(cl.Description), cl.CreatedAt, cl.UpdatedAt)
	if err != nil {
		return err
	}
	cl.ID = id
	return nil
}

func (r *clientRepo) Update(ctx context.Context, cl *models.Client) error {
	_, err := r.c.exec(ctx, `UPDATE clients SET name = ?, id_number = ?, id_expiry = ?, mobile = ?, id_image_url = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		cl.Name, cl.IDNumber, cl.IDExpiry, cl.Mobile, nullString(cl.IDImageURL), nullString(cl.Description), cl.UpdatedAt, cl.ID)
	return translate(err)
}

func (r *clientRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return r.c.deleteByID(ctx, "clients", id)
}
