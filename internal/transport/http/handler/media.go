package handler

import (
	"net/http"

	"github.com/adanest-api/internal/application/media"
)

// MediaHandler lists the images the caller has uploaded.
type MediaHandler struct {
	svc media.Service
}

func NewMediaHandler(svc media.Service) *MediaHandler { return &MediaHandler{svc: svc} }

func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	files, err := h.svc.ListByUploader(r.Context(), caller)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}
