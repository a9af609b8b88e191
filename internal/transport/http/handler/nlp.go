package handler

import (
	"net/http"

	"github.com/adanest-api/internal/application/nlp"
	"github.com/adanest-api/internal/pkg/validate"
)

type processRequest struct {
	Text string `json:"text" validate:"required"`
}

// NLPHandler classifies free text into a known intent.
type NLPHandler struct {
	svc nlp.Service
}

func NewNLPHandler(svc nlp.Service) *NLPHandler { return &NLPHandler{svc: svc} }

func (h *NLPHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	res, err := h.svc.Process(r.Context(), req.Text)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
