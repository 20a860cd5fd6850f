package handler

import (
	"net/http"

	"github.com/parisxmas/oxidocs/internal/service"
)

type ArchiveHandler struct {
	svc *service.ArchiveService
}

func NewArchiveHandler(svc *service.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{svc: svc}
}

func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *ArchiveHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "document")
	if !ok {
		return
	}
	var req service.ArchiveRequest
	if !decode(w, r, &req) {
		return
	}
	doc, err := h.svc.Archive(r.Context(), id, req)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *ArchiveHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "document")
	if !ok {
		return
	}
	doc, err := h.svc.Unarchive(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
