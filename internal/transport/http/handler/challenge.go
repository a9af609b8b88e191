package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/adanest-api/internal/application/challenge"
	"github.com/adanest-api/internal/domain"
	"github.com/adanest-api/internal/pkg/validate"
)

// ChallengeHandler exposes the caller's challenge lifecycle.
type ChallengeHandler struct {
	svc challenge.Service
}

func NewChallengeHandler(svc challenge.Service) *ChallengeHandler {
	return &ChallengeHandler{svc: svc}
}

func (h *ChallengeHandler) IsStarted(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	started, err := h.svc.IsStarted(r.Context(), owner)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, started)
}

func (h *ChallengeHandler) Start(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	var req domain.StartChallengeRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	started, err := h.svc.Start(r.Context(), owner, time.UnixMilli(*req.EndedAt))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, started)
}

// Stop writes null when the caller has nothing running.
func (h *ChallengeHandler) Stop(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	c, err := h.svc.Stop(r.Context(), owner)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ChallengeHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	started := false
	if raw := r.URL.Query().Get("started"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "started must be a boolean")
			return
		}
		started = v
	}
	list, err := h.svc.FindByChallenger(r.Context(), owner, started)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
