package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adanest-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVerifier struct{ mock.Mock }

func (m *mockVerifier) Verify(ctx context.Context, token string, purpose domain.TokenPurpose) (*domain.TokenPayload, error) {
	args := m.Called(ctx, token, purpose)
	if p, _ := args.Get(0).(*domain.TokenPayload); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestAuth_MissingHeader(t *testing.T) {
	v := &mockVerifier{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	Auth(v)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	v.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuth_NoRecord(t *testing.T) {
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, "revoked", domain.TokenAccess).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer revoked")
	rr := httptest.NewRecorder()
	Auth(v)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_BadSignature(t *testing.T) {
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, "tampered", domain.TokenAccess).
		Return(nil, fmt.Errorf("signature is invalid: %w", domain.ErrInvalidToken))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tampered")
	rr := httptest.NewRecorder()
	Auth(v)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_StoreFailure(t *testing.T) {
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, "tok", domain.TokenAccess).Return(nil, errors.New("dynamo down"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	Auth(v)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestAuth_ValidToken_InjectsPayload(t *testing.T) {
	v := &mockVerifier{}
	want := &domain.TokenPayload{Subject: "u1", Username: "alice", Purpose: domain.TokenAccess}
	v.On("Verify", mock.Anything, "good", domain.TokenAccess).Return(want, nil)

	var got *domain.TokenPayload
	var raw string
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PayloadFromContext(r.Context())
		raw, _ = TokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr := httptest.NewRecorder()
	Auth(v)(capture).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.Subject)
	assert.Equal(t, "good", raw)
}
