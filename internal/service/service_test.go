package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/parisxmas/oxidocs/internal/apperr"
	"github.com/parisxmas/oxidocs/internal/events"
	"github.com/parisxmas/oxidocs/internal/repository"
	"github.com/parisxmas/oxidocs/internal/repository/sqlrepo"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store     *repository.Store
	events    *recorder
	clients   *ClientService
	templates *TemplateService
	documents *DocumentService
	archive   *ArchiveService
	reports   *ReportService
	users     *UserService
}

func newFixture(t *testing.T, policy DeletePolicy) *fixture {
	t.Helper()
	store, err := sqlrepo.Open(sqlrepo.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	rec := &recorder{}
	users := NewUserService(store.Users)
	users.cost = bcrypt.MinCost
	return &fixture{
		store:     store,
		events:    rec,
		clients:   NewClientService(store.Clients),
		templates: NewTemplateService(store.Templates, store.Documents, rec, policy),
		documents: NewDocumentService(store.Documents, store.Templates, store.Clients, rec),
		archive:   NewArchiveService(store.Documents, rec),
		reports:   NewReportService(store),
		users:     users,
	}
}

// freeze pins the service clock to ts until the test ends.
func freeze(t *testing.T, ts time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = prev })
}

func issueKeys(t *testing.T, err error) []string {
	t.Helper()
	v, ok := apperr.IsValidation(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	keys := make([]string, 0, len(v.Issues))
	for _, is := range v.Issues {
		keys = append(keys, is.Key)
	}
	return keys
}

func strPtr(s string) *string { return &s }
