package handler

import (
	"net/http"

	"github.com/adanest-api/internal/application/chat"
	"github.com/adanest-api/internal/domain"
	"github.com/adanest-api/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// ChatHandler handles direct messages between users and admins.
type ChatHandler struct {
	svc chat.Service
}

func NewChatHandler(svc chat.Service) *ChatHandler { return &ChatHandler{svc: svc} }

func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	msgs, err := h.svc.Messages(r.Context(), caller, r.URL.Query().Get("from"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req domain.SendChatRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	msg, err := h.svc.Send(r.Context(), caller, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	msg, err := h.svc.MarkRead(r.Context(), caller, chi.URLParam(r, "messageId"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), caller, chi.URLParam(r, "messageId")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Message deleted"})
}

func (h *ChatHandler) Admins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.svc.Admins(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, admins)
}
