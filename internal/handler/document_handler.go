package handler

import (
	"net/http"

	"github.com/parisxmas/oxidocs/internal/models"
	"github.com/parisxmas/oxidocs/internal/service"
)

type DocumentHandler struct {
	svc *service.DocumentService
}

func NewDocumentHandler(svc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *DocumentHandler) ListByTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, ok := parseID(w, r, "templateId", "template")
	if !ok {
		return
	}
	docs, err := h.svc.ListByTemplate(r.Context(), templateID)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.DocumentInput
	if !decode(w, r, &req) {
		return
	}
	doc, err := h.svc.Create(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "document")
	if !ok {
		return
	}
	doc, err := h.svc.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Render returns the document with display values resolved against its
// template and the referenced clients.
func (h *DocumentHandler) Render(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "document")
	if !ok {
		return
	}
	out, err := h.svc.Render(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "document")
	if !ok {
		return
	}
	var patch models.DocumentPatch
	if !decode(w, r, &patch) {
		return
	}
	doc, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "document")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
