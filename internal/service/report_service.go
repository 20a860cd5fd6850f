package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/parisxmas/oxidocs/internal/apperr"
	"github.com/parisxmas/oxidocs/internal/models"
	"github.com/parisxmas/oxidocs/internal/repository"
)

// DateRange bounds a report by record timestamp. Both ends are inclusive and
// either may be omitted. A date without a time covers that whole day (UTC).
type DateRange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// ReportFilters is the part of a saved report's filter payload the aggregator reads.
type ReportFilters struct {
	DateRange *DateRange `json:"dateRange,omitempty"`
}

// GenerateRequest asks for an ad hoc report.
type GenerateRequest struct {
	Type      string     `json:"type"`
	DateRange *DateRange `json:"dateRange"`
}

// Group is one bar or slice of a report chart.
type Group struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// ReportResult is computed on demand and never stored.
type ReportResult struct {
	Type        models.ReportType `json:"type"`
	DateRange   *DateRange        `json:"dateRange,omitempty"`
	Count       int               `json:"count"`
	Items       any               `json:"items"`
	Groups      []Group           `json:"groups"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// ReportInput is the body of a report preset creation request.
type ReportInput struct {
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Filters json.RawMessage `json:"filters"`
}

type ReportService struct {
	reports   repository.ReportRepository
	clients   repository.ClientRepository
	templates repository.TemplateRepository
	documents repository.DocumentRepository
}

func NewReportService(store *repository.Store) *ReportService {
	return &ReportService{
		reports:   store.Reports,
		clients:   store.Clients,
		templates: store.Templates,
		documents: store.Documents,
	}
}

// Generate aggregates live data of the requested type.
func (s *ReportService) Generate(ctx context.Context, req GenerateRequest) (*ReportResult, error) {
	typ, ok := models.ParseReportType(req.Type)
	if !ok {
		return nil, apperr.Invalid("type", "Unknown report type %q", req.Type)
	}
	w, err := parseWindow(req.DateRange, "dateRange")
	if err != nil {
		return nil, err
	}

	res := &ReportResult{Type: typ, DateRange: req.DateRange, GeneratedAt: now()}
	switch typ {
	case models.ReportClients:
		err = s.clientsReport(ctx, w, res)
	case models.ReportDocuments:
		err = s.documentsReport(ctx, w, res)
	case models.ReportTemplates:
		err = s.templatesReport(ctx, w, res)
	case models.ReportArchive:
		err = s.archiveReport(ctx, w, res)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Run generates the report a saved preset describes.
func (s *ReportService) Run(ctx context.Context, id int64) (*ReportResult, error) {
	rep, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	f, err := parseFilters(rep.Filters)
	if err != nil {
		return nil, err
	}
	return s.Generate(ctx, GenerateRequest{Type: string(rep.Type), DateRange: f.DateRange})
}

func (s *ReportService) clientsReport(ctx context.Context, w window, res *ReportResult) error {
	all, err := s.clients.List(ctx)
	if err != nil {
		return err
	}
	items := []models.Client{}
	counts := map[string]int{}
	for _, cl := range all {
		if !w.contains(cl.CreatedAt) {
			continue
		}
		items = append(items, cl)
		counts[cl.CreatedAt.UTC().Format("2006-01")]++
	}
	res.Items, res.Count, res.Groups = items, len(items), sortedGroups(counts)
	return nil
}

func (s *ReportService) documentsReport(ctx context.Context, w window, res *ReportResult) error {
	all, err := s.documents.List(ctx)
	if err != nil {
		return err
	}
	names, err := s.templateNames(ctx)
	if err != nil {
		return err
	}
	items := []models.Document{}
	counts := map[string]int{}
	for _, d := range all {
		if !w.contains(d.CreatedAt) {
			continue
		}
		items = append(items, d)
		name, ok := names[d.TemplateID]
		if !ok {
			name = fmt.Sprintf("Template #%d", d.TemplateID)
		}
		counts[name]++
	}
	res.Items, res.Count, res.Groups = items, len(items), sortedGroups(counts)
	return nil
}

// templatesReport counts every document per template; the window only
// selects which templates are listed.
func (s *ReportService) templatesReport(ctx context.Context, w window, res *ReportResult) error {
	all, err := s.templates.List(ctx)
	if err != nil {
		return err
	}
	items := []models.Template{}
	groups := []Group{}
	for _, t := range all {
		if !w.contains(t.CreatedAt) {
			continue
		}
		n, err := s.documents.CountByTemplate(ctx, t.ID)
		if err != nil {
			return err
		}
		items = append(items, t)
		groups = append(groups, Group{Name: t.Name, Value: n})
	}
	res.Items, res.Count, res.Groups = items, len(items), groups
	return nil
}

func (s *ReportService) archiveReport(ctx context.Context, w window, res *ReportResult) error {
	all, err := s.documents.ListArchived(ctx)
	if err != nil {
		return err
	}
	items := []models.Document{}
	counts := map[string]int{}
	for _, d := range all {
		if !w.contains(d.UpdatedAt) {
			continue
		}
		items = append(items, d)
		if cabinet := d.ArchiveMetadata.Cabinet(); cabinet != "" {
			counts[cabinet]++
		}
	}
	res.Items, res.Count, res.Groups = items, len(items), sortedGroups(counts)
	return nil
}

func (s *ReportService) templateNames(ctx context.Context) (map[int64]string, error) {
	all, err := s.templates.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(all))
	for _, t := range all {
		names[t.ID] = t.Name
	}
	return names, nil
}

func sortedGroups(counts map[string]int) []Group {
	groups := make([]Group, 0, len(counts))
	for name, n := range counts {
		groups = append(groups, Group{Name: name, Value: n})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}

func (s *ReportService) List(ctx context.Context) ([]models.Report, error) {
	return s.reports.List(ctx)
}

func (s *ReportService) Get(ctx context.Context, id int64) (*models.Report, error) {
	rep, err := s.reports.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, apperr.NotFound("Report")
	}
	return rep, nil
}

func (s *ReportService) Create(ctx context.Context, in ReportInput) (*models.Report, error) {
	rep := &models.Report{Name: in.Name, Type: models.ReportType(in.Type), Filters: in.Filters}
	if err := checkReport(rep); err != nil {
		return nil, err
	}
	rep.CreatedAt = now()
	if err := s.reports.Create(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *ReportService) Update(ctx context.Context, id int64, patch models.ReportPatch) (*models.Report, error) {
	rep, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		rep.Name = *patch.Name
	}
	if patch.Type != nil {
		rep.Type = models.ReportType(*patch.Type)
	}
	if patch.Filters != nil {
		rep.Filters = patch.Filters
	}
	if err := checkReport(rep); err != nil {
		return nil, err
	}
	if err := s.reports.Update(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *ReportService) Delete(ctx context.Context, id int64) error {
	ok, err := s.reports.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Report")
	}
	return nil
}

// checkReport validates a preset and normalises its type tag in place.
func checkReport(rep *models.Report) error {
	verr := &apperr.ValidationError{}
	if blank(rep.Name) {
		verr.Add("name", "Required")
	}
	if typ, ok := models.ParseReportType(string(rep.Type)); ok {
		rep.Type = typ
	} else {
		verr.Add("type", "Unknown report type %q", rep.Type)
	}
	if string(rep.Filters) == "null" {
		rep.Filters = nil
	}
	if f, err := parseFilters(rep.Filters); err != nil {
		if v, ok := apperr.IsValidation(err); ok {
			verr.Issues = append(verr.Issues, v.Issues...)
		}
	} else if _, err := parseWindow(f.DateRange, "filters.dateRange"); err != nil {
		if v, ok := apperr.IsValidation(err); ok {
			verr.Issues = append(verr.Issues, v.Issues...)
		}
	}
	return verr.OrNil()
}

func parseFilters(raw json.RawMessage) (ReportFilters, error) {
	var f ReportFilters
	if len(raw) == 0 || string(raw) == "null" {
		return f, nil
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return f, apperr.Invalid("filters", "Expected an object")
	}
	return f, nil
}

// window is a parsed DateRange.
type window struct {
	from, to       time.Time
	hasFrom, hasTo bool
	toEndOfDay     bool
}

func parseWindow(r *DateRange, key string) (window, error) {
	var w window
	if r == nil {
		return w, nil
	}
	verr := &apperr.ValidationError{}
	if strings.TrimSpace(r.From) != "" {
		t, _, err := parseBound(r.From)
		if err != nil {
			verr.Add(key+".from", "Invalid date %q", r.From)
		}
		w.from, w.hasFrom = t, true
	}
	if strings.TrimSpace(r.To) != "" {
		t, dateOnly, err := parseBound(r.To)
		if err != nil {
			verr.Add(key+".to", "Invalid date %q", r.To)
		}
		w.to, w.hasTo, w.toEndOfDay = t, true, dateOnly
	}
	return w, verr.OrNil()
}

func parseBound(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	return t, false, err
}

func (w window) contains(t time.Time) bool {
	if w.hasFrom && t.Before(w.from) {
		return false
	}
	if w.hasTo {
		if w.toEndOfDay {
			return t.Before(w.to.AddDate(0, 0, 1))
		}
		return !t.After(w.to)
	}
	return true
}
