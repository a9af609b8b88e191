package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/adanest-api/internal/application/post"
	"github.com/adanest-api/internal/domain"
	"github.com/adanest-api/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// PostHandler handles blog and forum posts.
type PostHandler struct {
	svc post.Service
}

func NewPostHandler(svc post.Service) *PostHandler { return &PostHandler{svc: svc} }

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.List(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PostHandler) Search(w http.ResponseWriter, r *http.Request) {
	q, err := parsePostQuery(r)
	if err != nil {
		httpError(w, err)
		return
	}
	posts, err := h.svc.Search(r.Context(), q)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	var req domain.CreatePostRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	p, err := h.svc.Create(r.Context(), owner, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	var req domain.UpdatePostRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	p, err := h.svc.Update(r.Context(), owner, chi.URLParam(r, "id"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Post deleted"})
}

func (h *PostHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	f, header, ok := formImage(w, r)
	if !ok {
		return
	}
	defer f.Close()

	uploaded, err := h.svc.UploadCover(r.Context(), owner, post.CoverUpload{
		Reader:      f,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, URLEnvelope{URL: uploaded.URL})
}

// parsePostQuery reads q, owner, type, sortField, sort (asc|desc), limit and offset.
func parsePostQuery(r *http.Request) (domain.PostQuery, error) {
	v := r.URL.Query()
	q := domain.PostQuery{
		Q:         strings.TrimSpace(v.Get("q")),
		Owner:     v.Get("owner"),
		Type:      v.Get("type"),
		SortField: v.Get("sortField"),
		Desc:      strings.EqualFold(v.Get("sort"), "desc"),
	}
	var err error
	if q.Limit, err = intParam(v.Get("limit"), "limit"); err != nil {
		return q, err
	}
	if q.Offset, err = intParam(v.Get("offset"), "offset"); err != nil {
		return q, err
	}
	return q, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer: %w", name, domain.ErrBadRequest)
	}
	return n, nil
}
