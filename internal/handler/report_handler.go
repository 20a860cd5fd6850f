package handler

import (
	"net/http"

	"github.com/parisxmas/oxidocs/internal/models"
	"github.com/parisxmas/oxidocs/internal/service"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.svc.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.ReportInput
	if !decode(w, r, &req) {
		return
	}
	rep, err := h.svc.Create(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}

func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "report")
	if !ok {
		return
	}
	rep, err := h.svc.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *ReportHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "report")
	if !ok {
		return
	}
	var patch models.ReportPatch
	if !decode(w, r, &patch) {
		return
	}
	rep, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "report")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req service.GenerateRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.Generate(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Run generates the saved preset's report from live data.
func (h *ReportHandler) Run(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "report")
	if !ok {
		return
	}
	res, err := h.svc.Run(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
