package sqlrepo_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/oxidocs/internal/models"
	"github.com/parisxmas/oxidocs/internal/repository"
	"github.com/parisxmas/oxidocs/internal/repository/sqlrepo"
)

func openStore(t *testing.T) *repository.Store {
	t.Helper()
	store, err := sqlrepo.Open(sqlrepo.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := sqlrepo.Open("mysql", "")
	assert.Error(t, err)
}

func TestMigrateTwice(t *testing.T) {
	store := openStore(t)
	assert.NoError(t, store.Migrate(context.Background()))
	assert.NoError(t, store.Ping(context.Background()))
}

func TestClients(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	descr := "regular"
	cl := &models.Client{
		Name: "Ayse Yilmaz", IDNumber: "12345678901", IDExpiry: "2030-01-01", Mobile: "+90 555 000 0000",
		Description: &descr, CreatedAt: now(), UpdatedAt: now(),
	}
	require.NoError(t, store.Clients.Create(ctx, cl))
	assert.NotZero(t, cl.ID)

	got, err := store.Clients.Get(ctx, cl.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ayse Yilmaz", got.Name)
	assert.Nil(t, got.IDImageURL)
	require.NotNil(t, got.Description)
	assert.Equal(t, "regular", *got.Description)

	byNumber, err := store.Clients.FindByIDNumber(ctx, "12345678901")
	require.NoError(t, err)
	require.NotNil(t, byNumber)
	assert.Equal(t, cl.ID, byNumber.ID)

	dup := &models.Client{Name: "Other", IDNumber: "12345678901", IDExpiry: "2031-01-01", Mobile: "1", CreatedAt: now(), UpdatedAt: now()}
	err = store.Clients.Create(ctx, dup)
	assert.True(t, errors.Is(err, repository.ErrDuplicate), "got %v", err)

	got.Mobile = "+90 555 111 1111"
	require.NoError(t, store.Clients.Update(ctx, got))
	got, err = store.Clients.Get(ctx, cl.ID)
	require.NoError(t, err)
	assert.Equal(t, "+90 555 111 1111", got.Mobile)

	list, err := store.Clients.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	ok, err := store.Clients.Delete(ctx, cl.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.Clients.Delete(ctx, cl.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	missing, err := store.Clients.Get(ctx, cl.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestClientUpdateDuplicateIDNumber(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	a := &models.Client{Name: "A", IDNumber: "1", IDExpiry: "2030-01-01", Mobile: "1", CreatedAt: now(), UpdatedAt: now()}
	b := &models.Client{Name: "B", IDNumber: "2", IDExpiry: "2030-01-01", Mobile: "2", CreatedAt: now(), UpdatedAt: now()}
	require.NoError(t, store.Clients.Create(ctx, a))
	require.NoError(t, store.Clients.Create(ctx, b))

	b.IDNumber = "1"
	err := store.Clients.Update(ctx, b)
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestTemplates(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	tpl := &models.Template{
		Name:        "Lease",
		Description: "Residential lease",
		Fields: []models.FieldDefinition{
			{ID: "tenant", Name: "Tenant", Type: models.FieldClient, Required: true, ClientField: "name"},
			{ID: "kind", Name: "Kind", Type: models.FieldSelect, Options: []string{"flat", "house"}},
		},
		Questions: []models.QuestionDefinition{
			{ID: "pets", Text: "Pets allowed?", Type: models.QuestionYesNo, FieldID: "kind"},
		},
		CreatedAt: now(),
		UpdatedAt: now(),
	}
	require.NoError(t, store.Templates.Create(ctx, tpl))

	got, err := store.Templates.Get(ctx, tpl.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tpl.Fields, got.Fields)
	assert.Equal(t, tpl.Questions, got.Questions)

	got.Questions = nil
	got.Name = "Lease v2"
	require.NoError(t, store.Templates.Update(ctx, got))
	got, err = store.Templates.Get(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lease v2", got.Name)
	assert.NotNil(t, got.Questions)
	assert.Empty(t, got.Questions)

	ok, err := store.Templates.Delete(ctx, tpl.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err = store.Templates.Get(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDocuments(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	doc := &models.Document{
		TemplateID: 7,
		Data: models.Data{
			"husband":  models.Reference("3"),
			"date":     models.Text("2024-05-01"),
			"q_agreed": models.Bool(true),
			"amount":   models.Number(1500),
		},
		CreatedAt: now(),
		UpdatedAt: now(),
	}
	require.NoError(t, store.Documents.Create(ctx, doc))
	other := &models.Document{TemplateID: 8, Data: models.Data{}, CreatedAt: now(), UpdatedAt: now()}
	require.NoError(t, store.Documents.Create(ctx, other))

	got, err := store.Documents.Get(ctx, doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Archived)
	assert.Nil(t, got.ArchiveMetadata)
	assert.Nil(t, got.ArchivedAt)
	// references decode back as text; the template decides their meaning
	assert.Equal(t, "3", got.Data["husband"].Str())
	assert.Equal(t, 1500.0, got.Data["amount"].Number())
	assert.True(t, got.Data["q_agreed"].Bool())

	byTemplate, err := store.Documents.ListByTemplate(ctx, 7)
	require.NoError(t, err)
	require.Len(t, byTemplate, 1)
	assert.Equal(t, doc.ID, byTemplate[0].ID)

	n, err := store.Documents.CountByTemplate(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	at := now()
	got.Archived = true
	got.ArchivedAt = &at
	got.ArchiveMetadata = &models.ArchiveMetadata{
		Title:           "Contract",
		VersionType:     models.VersionOriginal,
		StorageLocation: &models.StorageLocation{Cabinet: "A1", Shelf: "3"},
	}
	require.NoError(t, store.Documents.Update(ctx, got))

	archived, err := store.Documents.ListArchived(ctx)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "A1", archived[0].ArchiveMetadata.Cabinet())
	require.NotNil(t, archived[0].ArchivedAt)
	assert.True(t, at.Equal(*archived[0].ArchivedAt))

	archived[0].Archived = false
	archived[0].ArchivedAt = nil
	archived[0].ArchiveMetadata = nil
	require.NoError(t, store.Documents.Update(ctx, &archived[0]))
	archived, err = store.Documents.ListArchived(ctx)
	require.NoError(t, err)
	assert.Empty(t, archived)

	all, err := store.Documents.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReports(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	rep := &models.Report{Name: "May", Type: models.ReportClients, Filters: json.RawMessage(`{"dateRange":{"from":"2024-05-01"}}`), CreatedAt: now()}
	require.NoError(t, store.Reports.Create(ctx, rep))
	bare := &models.Report{Name: "All", Type: models.ReportArchive, CreatedAt: now()}
	require.NoError(t, store.Reports.Create(ctx, bare))

	got, err := store.Reports.Get(ctx, rep.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, `{"dateRange":{"from":"2024-05-01"}}`, string(got.Filters))

	got, err = store.Reports.Get(ctx, bare.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Filters)

	got.Type = models.ReportDocuments
	require.NoError(t, store.Reports.Update(ctx, got))
	list, err := store.Reports.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.ReportDocuments, list[1].Type)

	ok, err := store.Reports.Delete(ctx, rep.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	u := &models.User{Username: "admin", PasswordHash: "x", CreatedAt: now()}
	require.NoError(t, store.Users.Create(ctx, u))

	got, err := store.Users.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	err = store.Users.Create(ctx, &models.User{Username: "admin", PasswordHash: "y", CreatedAt: now()})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	missing, err := store.Users.Get(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
