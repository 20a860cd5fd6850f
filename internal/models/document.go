package models

import "time"

// VersionType distinguishes an original paper document from a copy.
type VersionType string

const (
	VersionOriginal VersionType = "original"
	VersionCopy     VersionType = "copy"
)

// StorageLocation is the physical place an archived document is kept.
type StorageLocation struct {
	Cabinet string `json:"cabinet,omitempty"`
	Shelf   string `json:"shelf,omitempty"`
	Folder  string `json:"folder,omitempty"`
}

// ArchiveMetadata is the stored archive record. Every field is optional here;
// the archive request contract is stricter (see service.ArchiveRequest).
type ArchiveMetadata struct {
	Title           string           `json:"title,omitempty"`
	VersionType     VersionType      `json:"versionType,omitempty"`
	ExpiryDate      string           `json:"expiryDate,omitempty"`
	StorageLocation *StorageLocation `json:"storageLocation,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// Cabinet returns the storage cabinet or "" when none was recorded.
func (m *ArchiveMetadata) Cabinet() string {
	if m == nil || m.StorageLocation == nil {
		return ""
	}
	return m.StorageLocation.Cabinet
}

// Document is a set of values submitted against one template.
type Document struct {
	ID              int64            `json:"id"`
	TemplateID      int64            `json:"templateId"`
	Data            Data             `json:"data"`
	Archived        bool             `json:"archived"`
	ArchivedAt      *time.Time       `json:"archivedAt"`
	ArchiveMetadata *ArchiveMetadata `json:"archiveMetadata"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// DocumentPatch carries the keys present in a partial document update.
type DocumentPatch struct {
	TemplateID *int64 `json:"templateId"`
	Data       Data   `json:"data"`
}
