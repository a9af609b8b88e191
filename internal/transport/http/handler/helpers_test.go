package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adanest-api/internal/domain"
	"github.com/adanest-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// jsonReq builds a request whose body is v encoded as JSON; a string body is sent verbatim.
func jsonReq(t *testing.T, method, target string, v interface{}) *http.Request {
	t.Helper()
	var body io.Reader
	switch b := v.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	return httptest.NewRequest(method, target, body)
}

// asCaller injects an authenticated identity the way middleware.Auth does.
func asCaller(r *http.Request, userID string) *http.Request {
	p := &domain.TokenPayload{Subject: userID, Username: userID, Purpose: domain.TokenAccess}
	ctx := context.WithValue(r.Context(), middleware.PayloadKey, p)
	ctx = context.WithValue(ctx, middleware.TokenKey, "tok-"+userID)
	return r.WithContext(ctx)
}

// withParams injects chi URL params into the request context.
func withParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rr.Body).Decode(dst))
}
