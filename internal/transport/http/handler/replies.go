package handler

import (
	"net/http"

	"github.com/adanest-api/internal/application/reply"
	"github.com/adanest-api/internal/domain"
	"github.com/adanest-api/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// ReplyHandler handles replies to comments.
type ReplyHandler struct {
	svc reply.Service
}

func NewReplyHandler(svc reply.Service) *ReplyHandler { return &ReplyHandler{svc: svc} }

func (h *ReplyHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	var req domain.CreateReplyRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	rep, err := h.svc.Create(r.Context(), owner, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}

func (h *ReplyHandler) Get(w http.ResponseWriter, r *http.Request) {
	rep, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *ReplyHandler) ListByComment(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListByComment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ReplyHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateContentRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	rep, err := h.svc.Update(r.Context(), owner, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *ReplyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Reply deleted"})
}
