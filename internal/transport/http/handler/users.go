package handler

import (
	"net/http"

	"github.com/adanest-api/internal/application/user"
	"github.com/adanest-api/internal/domain"
	"github.com/adanest-api/internal/pkg/validate"
)

// UserHandler handles account endpoints. Mutations always target the caller.
type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	if _, err := h.svc.Register(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "User created"})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Find looks a user up by id first and falls back to username.
func (h *UserHandler) Find(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id, username := q.Get("id"), q.Get("username")
	if id == "" && username == "" {
		writeError(w, http.StatusBadRequest, "id or username is required")
		return
	}
	var (
		u   *domain.User
		err error
	)
	if id != "" {
		u, err = h.svc.Get(r.Context(), id)
	}
	if u == nil && username != "" {
		u, err = h.svc.GetByUsername(r.Context(), username)
	}
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateUserRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	if _, err := h.svc.Update(r.Context(), userID, req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "User updated"})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), userID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "User deleted"})
}

func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	f, header, ok := formImage(w, r)
	if !ok {
		return
	}
	defer f.Close()

	u, err := h.svc.UploadAvatar(r.Context(), userID, user.AvatarUpload{
		Reader:      f,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, URLEnvelope{URL: u.Avatar})
}
