package handler

import (
	"net/http"

	"github.com/adanest-api/internal/application/like"
	"github.com/go-chi/chi/v5"
)

// LikeHandler handles per-post likes. Answers are bare JSON values.
type LikeHandler struct {
	svc like.Service
}

func NewLikeHandler(svc like.Service) *LikeHandler { return &LikeHandler{svc: svc} }

// Toggle writes true when the caller now likes the post.
func (h *LikeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	liked, err := h.svc.Toggle(r.Context(), owner, chi.URLParam(r, "postId"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, liked)
}

func (h *LikeHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Count(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *LikeHandler) IsLiked(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	liked, err := h.svc.IsLiked(r.Context(), owner, chi.URLParam(r, "postId"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, liked)
}
