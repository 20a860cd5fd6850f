package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/oxidocs/internal/apperr"
	"github.com/parisxmas/oxidocs/internal/events"
	"github.com/parisxmas/oxidocs/internal/models"
)

func archiveRequest() ArchiveRequest {
	return ArchiveRequest{
		Title:           "x",
		VersionType:     "original",
		StorageLocation: &models.StorageLocation{Cabinet: "A", Shelf: "1"},
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DeleteOrphan)
	tpl, err := f.templates.Create(ctx, TemplateInput{Name: "T"})
	require.NoError(t, err)
	doc, err := f.documents.Create(ctx, DocumentInput{TemplateID: tpl.ID})
	require.NoError(t, err)

	archived, err := f.archive.Archive(ctx, doc.ID, archiveRequest())
	require.NoError(t, err)
	assert.True(t, archived.Archived)
	require.NotNil(t, archived.ArchiveMetadata)
	assert.Equal(t, "x", archived.ArchiveMetadata.Title)
	assert.NotNil(t, archived.ArchivedAt)

	list, err := f.archive.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	restored, err := f.archive.Unarchive(ctx, doc.ID)
	require.NoError(t, err)
	assert.False(t, restored.Archived)
	assert.Nil(t, restored.ArchiveMetadata)
	assert.Nil(t, restored.ArchivedAt)

	stored, err := f.documents.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.False(t, stored.Archived)
	assert.Nil(t, stored.ArchiveMetadata)

	assert.Equal(t, []string{events.DocumentCreated, events.DocumentArchived, events.DocumentUnarchived}, f.events.types())
}

func TestArchiveOverwritesMetadata(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DeleteOrphan)
	tpl, err := f.templates.Create(ctx, TemplateInput{Name: "T"})
	require.NoError(t, err)
	doc, err := f.documents.Create(ctx, DocumentInput{TemplateID: tpl.ID})
	require.NoError(t, err)

	first := archiveRequest()
	first.Notes = "fragile"
	first.StorageLocation.Folder = "F9"
	_, err = f.archive.Archive(ctx, doc.ID, first)
	require.NoError(t, err)

	second := ArchiveRequest{Title: "y", VersionType: "copy", StorageLocation: &models.StorageLocation{Cabinet: "B", Shelf: "2"}}
	got, err := f.archive.Archive(ctx, doc.ID, second)
	require.NoError(t, err)
	assert.Equal(t, "y", got.ArchiveMetadata.Title)
	assert.Empty(t, got.ArchiveMetadata.Notes)
	assert.Empty(t, got.ArchiveMetadata.StorageLocation.Folder)
}

func TestUnarchiveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DeleteOrphan)
	tpl, err := f.templates.Create(ctx, TemplateInput{Name: "T"})
	require.NoError(t, err)
	doc, err := f.documents.Create(ctx, DocumentInput{TemplateID: tpl.ID})
	require.NoError(t, err)

	got, err := f.archive.Unarchive(ctx, doc.ID)
	require.NoError(t, err)
	assert.False(t, got.Archived)
	assert.NotContains(t, f.events.types(), events.DocumentUnarchived)

	_, err = f.archive.Unarchive(ctx, 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestArchiveRequestCheck(t *testing.T) {
	cases := []struct {
		name string
		req  ArchiveRequest
		keys []string
	}{
		{"valid", archiveRequest(), nil},
		{"empty", ArchiveRequest{}, []string{"title", "versionType", "storageLocation.cabinet", "storageLocation.shelf"}},
		{"bad version", ArchiveRequest{Title: "t", VersionType: "scan", StorageLocation: &models.StorageLocation{Cabinet: "A", Shelf: "1"}}, []string{"versionType"}},
		{"no shelf", ArchiveRequest{Title: "t", VersionType: "copy", StorageLocation: &models.StorageLocation{Cabinet: "A"}}, []string{"storageLocation.shelf"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Check()
			if tc.keys == nil {
				assert.NoError(t, err)
				return
			}
			assert.ElementsMatch(t, tc.keys, issueKeys(t, err))
		})
	}
}

func TestArchiveValidatesBeforeLookup(t *testing.T) {
	f := newFixture(t, DeleteOrphan)

	_, err := f.archive.Archive(context.Background(), 404, ArchiveRequest{})
	_, isValidation := apperr.IsValidation(err)
	assert.True(t, isValidation)

	_, err = f.archive.Archive(context.Background(), 404, archiveRequest())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
