package domain

import "errors"

// Services wrap these with fmt.Errorf("...: %w") and the HTTP layer maps
// them to status codes, so the wrapped message is what clients read.
var (
	// ErrNotFound is also returned for unknown emails on forgot-password,
	// unlike login which never reveals whether an account exists.
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	// ErrUnauthorized is the single login failure for every credential problem.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks a mutation of a resource the caller does not own.
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	// ErrInvalidToken covers never-issued, expired, tampered and already-used tokens alike.
	ErrInvalidToken = errors.New("invalid token")
)
