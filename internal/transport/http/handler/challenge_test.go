package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/adanest-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockChallengeSvc struct{ mock.Mock }

func (m *mockChallengeSvc) IsStarted(ctx context.Context, ownerID string) (bool, error) {
	args := m.Called(ctx, ownerID)
	return args.Bool(0), args.Error(1)
}

func (m *mockChallengeSvc) Start(ctx context.Context, ownerID string, endedAt time.Time) (bool, error) {
	args := m.Called(ctx, ownerID, endedAt)
	return args.Bool(0), args.Error(1)
}

func (m *mockChallengeSvc) Stop(ctx context.Context, ownerID string) (*domain.Challenge, error) {
	args := m.Called(ctx, ownerID)
	if c, _ := args.Get(0).(*domain.Challenge); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockChallengeSvc) FindByChallenger(ctx context.Context, ownerID string, started bool) ([]domain.Challenge, error) {
	args := m.Called(ctx, ownerID, started)
	list, _ := args.Get(0).([]domain.Challenge)
	return list, args.Error(1)
}

func (m *mockChallengeSvc) Update(ctx context.Context, started, lost, won bool, challengeID string, relapseAt *time.Time) (*domain.Challenge, error) {
	args := m.Called(ctx, started, lost, won, challengeID, relapseAt)
	if c, _ := args.Get(0).(*domain.Challenge); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestChallengeStart_ConvertsEpochMillis(t *testing.T) {
	svc := &mockChallengeSvc{}
	deadline := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	svc.On("Start", mock.Anything, "u1", mock.MatchedBy(func(at time.Time) bool {
		return at.Equal(deadline)
	})).Return(true, nil)

	req := asCaller(jsonReq(t, http.MethodPut, "/challenge/start",
		domain.StartChallengeRequest{EndedAt: millis(deadline.UnixMilli())}), "u1")
	rr := httptest.NewRecorder()
	NewChallengeHandler(svc).Start(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var started bool
	decodeBody(t, rr, &started)
	assert.True(t, started)
	svc.AssertExpectations(t)
}

func TestChallengeStart_AlreadyActiveIsFalse(t *testing.T) {
	svc := &mockChallengeSvc{}
	svc.On("Start", mock.Anything, "u1", mock.Anything).Return(false, nil)

	req := asCaller(jsonReq(t, http.MethodPut, "/challenge/start",
		domain.StartChallengeRequest{EndedAt: millis(1)}), "u1")
	rr := httptest.NewRecorder()
	NewChallengeHandler(svc).Start(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var started bool
	decodeBody(t, rr, &started)
	assert.False(t, started)
}

func millis(v int64) *int64 { return &v }

func TestChallengeStart_EpochZeroIsAccepted(t *testing.T) {
	svc := &mockChallengeSvc{}
	svc.On("Start", mock.Anything, "u1", mock.MatchedBy(func(at time.Time) bool {
		return at.Equal(time.UnixMilli(0))
	})).Return(true, nil)

	req := asCaller(jsonReq(t, http.MethodPut, "/challenge/start", `{"endedAt":0}`), "u1")
	rr := httptest.NewRecorder()
	NewChallengeHandler(svc).Start(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestChallengeStart_NegativeEndedAt(t *testing.T) {
	svc := &mockChallengeSvc{}
	req := asCaller(jsonReq(t, http.MethodPut, "/challenge/start", `{"endedAt":-5}`), "u1")
	rr := httptest.NewRecorder()
	NewChallengeHandler(svc).Start(rr, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestChallengeStart_MissingEndedAt(t *testing.T) {
	svc := &mockChallengeSvc{}
	req := asCaller(jsonReq(t, http.MethodPut, "/challenge/start", `{}`), "u1")
	rr := httptest.NewRecorder()
	NewChallengeHandler(svc).Start(rr, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestChallengeStop_NothingActiveIsNull(t *testing.T) {
	svc := &mockChallengeSvc{}
	svc.On("Stop", mock.Anything, "u1").Return(nil, nil)

	rr := httptest.NewRecorder()
	NewChallengeHandler(svc).Stop(rr, asCaller(jsonReq(t, http.MethodPut, "/challenge/stop", nil), "u1"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "null\n", rr.Body.String())
}

func TestChallengeStop_ReturnsTerminalRecord(t *testing.T) {
	svc := &mockChallengeSvc{}
	svc.On("Stop", mock.Anything, "u1").Return(&domain.Challenge{ChallengeID: "c1", Won: true}, nil)

	rr := httptest.NewRecorder()
	NewChallengeHandler(svc).Stop(rr, asCaller(jsonReq(t, http.MethodPut, "/challenge/stop", nil), "u1"))

	require.Equal(t, http.StatusOK, rr.Code)
	var c domain.Challenge
	decodeBody(t, rr, &c)
	assert.True(t, c.Won)
	assert.False(t, c.Started)
}

func TestChallengeList_StartedQuery(t *testing.T) {
	svc := &mockChallengeSvc{}
	svc.On("FindByChallenger", mock.Anything, "u1", true).Return([]domain.Challenge{{ChallengeID: "c1", Started: true}}, nil)

	rr := httptest.NewRecorder()
	NewChallengeHandler(svc).List(rr, asCaller(jsonReq(t, http.MethodGet, "/challenge?started=true", nil), "u1"))

	require.Equal(t, http.StatusOK, rr.Code)
	var list []domain.Challenge
	decodeBody(t, rr, &list)
	assert.Len(t, list, 1)
	svc.AssertExpectations(t)
}

func TestChallengeList_BadStartedQuery(t *testing.T) {
	svc := &mockChallengeSvc{}
	rr := httptest.NewRecorder()
	NewChallengeHandler(svc).List(rr, asCaller(jsonReq(t, http.MethodGet, "/challenge?started=maybe", nil), "u1"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestChallengeIsStarted_RequiresCaller(t *testing.T) {
	svc := &mockChallengeSvc{}
	rr := httptest.NewRecorder()
	NewChallengeHandler(svc).IsStarted(rr, jsonReq(t, http.MethodGet, "/challenge/isstarted", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
