package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/adanest-api/internal/domain"
)

type contextKey string

const (
	PayloadKey contextKey = "token_payload"
	TokenKey   contextKey = "access_token"
)

// TokenVerifier checks a bearer token against its issuance record.
type TokenVerifier interface {
	Verify(ctx context.Context, token string, purpose domain.TokenPurpose) (*domain.TokenPayload, error)
}

// Auth returns middleware that accepts only ACCESS tokens that are both
// validly signed and still recorded, and injects the payload into context.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			payload, err := verifier.Verify(r.Context(), tokenStr, domain.TokenAccess)
			if err != nil && !errors.Is(err, domain.ErrInvalidToken) {
				slog.Error("token verification failed", "err", err)
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if payload == nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), PayloadKey, payload)
			ctx = context.WithValue(ctx, TokenKey, tokenStr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PayloadFromContext extracts the authenticated identity from the request context.
func PayloadFromContext(ctx context.Context) (*domain.TokenPayload, bool) {
	p, ok := ctx.Value(PayloadKey).(*domain.TokenPayload)
	return p, ok
}

// TokenFromContext returns the raw bearer token of the current request.
func TokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(TokenKey).(string)
	return t, ok
}
