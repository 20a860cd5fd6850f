package models

import (
	"encoding/json"
	"time"
)

// ReportType names the entity domain a report aggregates.
type ReportType string

const (
	ReportClients   ReportType = "clients"
	ReportDocuments ReportType = "documents"
	ReportTemplates ReportType = "templates"
	ReportArchive   ReportType = "archive"
)

// ParseReportType accepts the plural tags and their singular aliases.
func ParseReportType(s string) (ReportType, bool) {
	switch s {
	case "clients", "client":
		return ReportClients, true
	case "documents", "document":
		return ReportDocuments, true
	case "templates", "template":
		return ReportTemplates, true
	case "archive", "archives":
		return ReportArchive, true
	}
	return "", false
}

// Report is a saved report preset; results are always computed on demand.
type Report struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Type      ReportType      `json:"type"`
	Filters   json.RawMessage `json:"filters"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ReportPatch carries the keys present in a partial report update.
type ReportPatch struct {
	Name    *string         `json:"name"`
	Type    *string         `json:"type"`
	Filters json.RawMessage `json:"filters"`
}
