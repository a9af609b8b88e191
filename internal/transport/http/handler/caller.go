package handler

import (
	"net/http"

	"github.com/adanest-api/internal/transport/http/middleware"
)

// callerID returns the subject of the verified access token. It writes a
// 401 and reports false when the request did not pass through Auth.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	p, ok := middleware.PayloadFromContext(r.Context())
	if !ok || p.Subject == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return p.Subject, true
}
