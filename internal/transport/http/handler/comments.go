package handler

import (
	"net/http"

	"github.com/adanest-api/internal/application/comment"
	"github.com/adanest-api/internal/domain"
	"github.com/adanest-api/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// CommentHandler handles comments on posts.
type CommentHandler struct {
	svc comment.Service
}

func NewCommentHandler(svc comment.Service) *CommentHandler { return &CommentHandler{svc: svc} }

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	var req domain.CreateCommentRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	c, err := h.svc.Create(r.Context(), owner, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CommentHandler) ListByPost(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListByPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CommentHandler) CountByPost(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.CountByPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	c, err := h.svc.Update(r.Context(), owner, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Comment deleted"})
}
