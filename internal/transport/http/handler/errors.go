package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/adanest-api/internal/domain"
	"github.com/adanest-api/internal/pkg/validate"
)

// httpError maps domain and validation errors to status codes.
// Anything unrecognised is logged and reported as a generic 500.
func httpError(w http.ResponseWriter, err error) {
	var ve *validate.Error
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, MessageEnvelope{Error: "validation failed", Fields: ve.Fields})
	case errors.Is(err, domain.ErrInvalidToken):
		writeError(w, http.StatusBadRequest, "invalid token")
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("unhandled request error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
