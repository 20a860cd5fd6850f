// Package oxirepo implements the entity store on OxiDB collections.
// Records are stored as JSON documents; the server's auto-increment _id is
// the record id.
package oxirepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parisxmas/oxidocs/internal/db"
	"github.com/parisxmas/oxidocs/internal/oxidb"
	"github.com/parisxmas/oxidocs/internal/repository"
)

const (
	ClientsCollection   = "_dms_clients"
	TemplatesCollection = "_dms_templates"
	DocumentsCollection = "_dms_documents"
	ReportsCollection   = "_dms_reports"
	UsersCollection     = "_dms_users"
)

// Open dials size connections to host:port and returns a Store over them.
func Open(host string, port, size int) (*repository.Store, error) {
	pool, err := db.NewPool(db.TCPDialer(host, port), size, 10*time.Second)
	if err != nil {
		return nil, err
	}
	return New(pool), nil
}

// New returns a Store over an existing pool. Closing the store closes the pool.
func New(pool *db.Pool) *repository.Store {
	return &repository.Store{
		Clients:   &clientRepo{coll[clientDoc]{pool, ClientsCollection}},
		Templates: &templateRepo{coll[templateDoc]{pool, TemplatesCollection}},
		Documents: &documentRepo{coll[documentDoc]{pool, DocumentsCollection}},
		Reports:   &reportRepo{coll[reportDoc]{pool, ReportsCollection}},
		Users:     &userRepo{coll[userDoc]{pool, UsersCollection}},
		Migrate:   func(ctx context.Context) error { return ensureIndexes(ctx, pool) },
		Ping:      pool.Ping,
		Close:     pool.Close,
	}
}

func ensureIndexes(ctx context.Context, pool *db.Pool) error {
	c := pool.Get()
	for _, name := range []string{ClientsCollection, TemplatesCollection, DocumentsCollection, ReportsCollection, UsersCollection} {
		if err := c.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("oxirepo: create %s: %w", name, err)
		}
	}
	if err := c.CreateUniqueIndex(ctx, ClientsCollection, "idNumber"); err != nil {
		return fmt.Errorf("oxirepo: index clients: %w", err)
	}
	if err := c.CreateUniqueIndex(ctx, UsersCollection, "username"); err != nil {
		return fmt.Errorf("oxirepo: index users: %w", err)
	}
	if err := c.CreateIndex(ctx, DocumentsCollection, "templateId"); err != nil {
		return fmt.Errorf("oxirepo: index documents: %w", err)
	}
	return c.CreateIndex(ctx, DocumentsCollection, "archived")
}

// coll is a typed view of one collection. T is the stored document shape;
// its id travels in _id rather than in the body.
type coll[T any] struct {
	pool *db.Pool
	name string
}

func (c coll[T]) find(ctx context.Context, query map[string]any) ([]T, error) {
	docs, err := c.pool.Get().Find(ctx, c.name, query, &oxidb.FindOptions{
		Sort: map[string]any{"_id": 1},
	})
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := fromDoc[T](d)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (c coll[T]) one(ctx context.Context, query map[string]any) (*T, error) {
	doc, err := c.pool.Get().FindOne(ctx, c.name, query)
	if err != nil || doc == nil {
		return nil, err
	}
	return fromDoc[T](doc)
}

func (c coll[T]) get(ctx context.Context, id int64) (*T, error) {
	return c.one(ctx, byID(id))
}

func (c coll[T]) count(ctx context.Context, query map[string]any) (int, error) {
	return c.pool.Get().Count(ctx, c.name, query)
}

func (c coll[T]) insert(ctx context.Context, v *T) (int64, error) {
	doc, err := toDoc(v)
	if err != nil {
		return 0, err
	}
	id, err := c.pool.Get().Insert(ctx, c.name, doc)
	return id, translate(err)
}

func (c coll[T]) update(ctx context.Context, id int64, v *T) error {
	doc, err := toDoc(v)
	if err != nil {
		return err
	}
	err = c.pool.Get().UpdateOne(ctx, c.name, byID(id), map[string]any{"$set": doc})
	return translate(err)
}

func (c coll[T]) delete(ctx context.Context, id int64) (bool, error) {
	cl := c.pool.Get()
	n, err := cl.Count(ctx, c.name, byID(id))
	if err != nil || n == 0 {
		return false, err
	}
	if err := cl.DeleteOne(ctx, c.name, byID(id)); err != nil {
		return false, err
	}
	return true, nil
}

func byID(id int64) map[string]any {
	return map[string]any{"_id": id}
}

// translate maps unique index violations to repository.ErrDuplicate.
func translate(err error) error {
	if oxidb.IsDuplicate(err) {
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	return err
}

func toDoc(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("oxirepo: marshal: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("oxirepo: unmarshal: %w", err)
	}
	delete(doc, "_id")
	delete(doc, "id")
	return doc, nil
}

// fromDoc decodes a stored document. The server returns _id as a JSON number.
func fromDoc[T any](doc map[string]any) (*T, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("oxirepo: marshal doc: %w", err)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("oxirepo: unmarshal doc: %w", err)
	}
	return &v, nil
}
