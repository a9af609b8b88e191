package handler

import (
	"net/http"

	"github.com/adanest-api/internal/application/auth"
	"github.com/adanest-api/internal/pkg/password"
	"github.com/adanest-api/internal/pkg/validate"
	"github.com/adanest-api/internal/transport/http/middleware"
)

// AuthHandler handles login, logout and the password reset flow.
type AuthHandler struct {
	svc    auth.Service
	hasher password.Hasher
}

func NewAuthHandler(svc auth.Service, hasher password.Hasher) *AuthHandler {
	return &AuthHandler{svc: svc, hasher: hasher}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	result, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req auth.ForgotPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	if err := h.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Forgot password email sent"})
}

// ResetPassword hashes the new secret here; the service only stores hashes.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req auth.ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		httpError(w, err)
		return
	}
	msg, err := h.svc.ResetPassword(r.Context(), req.Token, hash)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: msg})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Logout(r.Context(), token); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}
