package service

import (
	"context"

	"github.com/parisxmas/oxidocs/internal/apperr"
	"github.com/parisxmas/oxidocs/internal/events"
	"github.com/parisxmas/oxidocs/internal/models"
	"github.com/parisxmas/oxidocs/internal/repository"
)

// ArchiveRequest is the body of an archive request. Title, version type,
// cabinet and shelf are required here even though the stored metadata
// tolerates their absence.
type ArchiveRequest struct {
	Title           string                  `json:"title"`
	VersionType     string                  `json:"versionType"`
	ExpiryDate      string                  `json:"expiryDate"`
	StorageLocation *models.StorageLocation `json:"storageLocation"`
	Notes           string                  `json:"notes"`
}

// Check returns every missing or malformed key.
func (r ArchiveRequest) Check() error {
	verr := &apperr.ValidationError{}
	if blank(r.Title) {
		verr.Add("title", "Required")
	}
	switch models.VersionType(r.VersionType) {
	case models.VersionOriginal, models.VersionCopy:
	case "":
		verr.Add("versionType", "Required")
	default:
		verr.Add("versionType", "Expected 'original' | 'copy', received '%s'", r.VersionType)
	}
	if r.StorageLocation == nil {
		verr.Add("storageLocation.cabinet", "Required")
		verr.Add("storageLocation.shelf", "Required")
	} else {
		if blank(r.StorageLocation.Cabinet) {
			verr.Add("storageLocation.cabinet", "Required")
		}
		if blank(r.StorageLocation.Shelf) {
			verr.Add("storageLocation.shelf", "Required")
		}
	}
	return verr.OrNil()
}

// Metadata converts the request into the stored shape.
func (r ArchiveRequest) Metadata() *models.ArchiveMetadata {
	m := &models.ArchiveMetadata{
		Title:       r.Title,
		VersionType: models.VersionType(r.VersionType),
		ExpiryDate:  r.ExpiryDate,
		Notes:       r.Notes,
	}
	if r.StorageLocation != nil {
		loc := *r.StorageLocation
		m.StorageLocation = &loc
	}
	return m
}

type ArchiveService struct {
	documents repository.DocumentRepository
	events    events.Publisher
}

func NewArchiveService(documents repository.DocumentRepository, pub events.Publisher) *ArchiveService {
	return &ArchiveService{documents: documents, events: pub}
}

func (s *ArchiveService) List(ctx context.Context) ([]models.Document, error) {
	return s.documents.ListArchived(ctx)
}

// Archive marks a document archived. Archiving again replaces the metadata.
func (s *ArchiveService) Archive(ctx context.Context, id int64, req ArchiveRequest) (*models.Document, error) {
	if err := req.Check(); err != nil {
		return nil, err
	}
	d, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	at := now()
	d.Archived = true
	d.ArchivedAt = &at
	d.ArchiveMetadata = req.Metadata()
	d.UpdatedAt = at
	if err := s.documents.Update(ctx, d); err != nil {
		return nil, err
	}
	events.Emit(ctx, s.events, events.Event{
		Type:    events.DocumentArchived,
		ID:      d.ID,
		At:      at,
		Payload: d.ArchiveMetadata,
	})
	return d, nil
}

// Unarchive clears the archive state. It succeeds on documents that are not archived.
func (s *ArchiveService) Unarchive(ctx context.Context, id int64) (*models.Document, error) {
	d, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	wasArchived := d.Archived

	d.Archived = false
	d.ArchivedAt = nil
	d.ArchiveMetadata = nil
	d.UpdatedAt = now()
	if err := s.documents.Update(ctx, d); err != nil {
		return nil, err
	}
	if wasArchived {
		events.Emit(ctx, s.events, events.Event{Type: events.DocumentUnarchived, ID: d.ID, At: d.UpdatedAt})
	}
	return d, nil
}

func (s *ArchiveService) get(ctx context.Context, id int64) (*models.Document, error) {
	d, err := s.documents.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.NotFound("Document")
	}
	return d, nil
}
