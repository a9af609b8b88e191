package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adanest-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLikeSvc struct{ mock.Mock }

func (m *mockLikeSvc) Toggle(ctx context.Context, ownerID, postID string) (bool, error) {
	args := m.Called(ctx, ownerID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLikeSvc) Count(ctx context.Context, postID string) (int, error) {
	args := m.Called(ctx, postID)
	return args.Int(0), args.Error(1)
}

func (m *mockLikeSvc) IsLiked(ctx context.Context, ownerID, postID string) (bool, error) {
	args := m.Called(ctx, ownerID, postID)
	return args.Bool(0), args.Error(1)
}

func TestLikeToggle_WritesNewState(t *testing.T) {
	svc := &mockLikeSvc{}
	svc.On("Toggle", mock.Anything, "u1", "p1").Return(true, nil)

	r := withParams(asCaller(jsonReq(t, http.MethodPut, "/likes/p1", nil), "u1"), "postId", "p1")
	rr := httptest.NewRecorder()
	NewLikeHandler(svc).Toggle(rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "true\n", rr.Body.String())
}

func TestLikeToggle_UnknownPost(t *testing.T) {
	svc := &mockLikeSvc{}
	svc.On("Toggle", mock.Anything, "u1", "nope").Return(false, domain.ErrNotFound)

	r := withParams(asCaller(jsonReq(t, http.MethodPut, "/likes/nope", nil), "u1"), "postId", "nope")
	rr := httptest.NewRecorder()
	NewLikeHandler(svc).Toggle(rr, r)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLikeCount(t *testing.T) {
	svc := &mockLikeSvc{}
	svc.On("Count", mock.Anything, "p1").Return(7, nil)

	r := withParams(jsonReq(t, http.MethodGet, "/likes/p1", nil), "postId", "p1")
	rr := httptest.NewRecorder()
	NewLikeHandler(svc).Count(rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "7\n", rr.Body.String())
}
