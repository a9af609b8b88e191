package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adanest-api/internal/domain"
	jwtinfra "github.com/adanest-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// --- mocks ---

type mockTokenStore struct{ mock.Mock }

func (m *mockTokenStore) Put(ctx context.Context, t *domain.IssuedToken) error {
	return m.Called(ctx, t).Error(0)
}
func (m *mockTokenStore) Exists(ctx context.Context, token string, purpose domain.TokenPurpose) (bool, error) {
	args := m.Called(ctx, token, purpose)
	return args.Bool(0), args.Error(1)
}
func (m *mockTokenStore) Delete(ctx context.Context, token string, purpose domain.TokenPurpose) error {
	return m.Called(ctx, token, purpose).Error(0)
}
func (m *mockTokenStore) DeleteByUser(ctx context.Context, userID string, purpose domain.TokenPurpose) error {
	return m.Called(ctx, userID, purpose).Error(0)
}

// --- helpers ---

func newSvc(t *testing.T, store *mockTokenStore) Service {
	t.Helper()
	p, err := jwtinfra.NewProvider("test-secret")
	require.NoError(t, err)
	return NewService(ServiceDeps{TokenRepo: store, Signer: p, PersistTimeout: time.Second})
}

var alice = domain.TokenPayload{Subject: "u1", Username: "alice", Purpose: domain.TokenAccess}

// --- Issue ---

func TestIssue_AccessTokenPersistedInBackground(t *testing.T) {
	defer goleak.VerifyNone(t)
	store := &mockTokenStore{}
	store.On("Put", mock.Anything, mock.MatchedBy(func(r *domain.IssuedToken) bool {
		return r.UserID == "u1" && r.Type == domain.TokenAccess && r.ExpiresAt > time.Now().Unix()
	})).Return(nil)
	svc := newSvc(t, store)

	tok, err := svc.Issue(context.Background(), alice, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	svc.Wait()
	store.AssertExpectations(t)
}

func TestIssue_AccessPersistFailureDoesNotFail(t *testing.T) {
	defer goleak.VerifyNone(t)
	store := &mockTokenStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(errors.New("dynamo down"))
	svc := newSvc(t, store)

	tok, err := svc.Issue(context.Background(), alice, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	svc.Wait()
	store.AssertNumberOfCalls(t, "Put", 1)
}

func TestIssue_AccessPersistSurvivesCancelledContext(t *testing.T) {
	defer goleak.VerifyNone(t)
	store := &mockTokenStore{}
	store.On("Put", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }), mock.Anything).Return(nil)
	svc := newSvc(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := svc.Issue(ctx, alice, time.Hour)
	cancel()
	require.NoError(t, err)
	svc.Wait()
	store.AssertExpectations(t)
}

func TestIssue_ResetTokenPersistedSynchronously(t *testing.T) {
	defer goleak.VerifyNone(t)
	store := &mockTokenStore{}
	store.On("Put", mock.Anything, mock.MatchedBy(func(r *domain.IssuedToken) bool {
		return r.Type == domain.TokenResetPassword
	})).Return(nil)
	svc := newSvc(t, store)

	p := alice
	p.Purpose = domain.TokenResetPassword
	_, err := svc.Issue(context.Background(), p, 15*time.Minute)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestIssue_ResetTokenPersistFailure(t *testing.T) {
	store := &mockTokenStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(errors.New("dynamo down"))
	svc := newSvc(t, store)

	p := alice
	p.Purpose = domain.TokenResetPassword
	tok, err := svc.Issue(context.Background(), p, 15*time.Minute)
	require.Error(t, err)
	assert.Empty(t, tok)
}

func TestIssue_TokensAreUnique(t *testing.T) {
	store := &mockTokenStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(nil)
	svc := newSvc(t, store)

	a, err := svc.Issue(context.Background(), alice, time.Hour)
	require.NoError(t, err)
	b, err := svc.Issue(context.Background(), alice, time.Hour)
	require.NoError(t, err)
	svc.Wait()
	assert.NotEqual(t, a, b)
}

// --- Verify ---

func TestVerify_RoundTrip(t *testing.T) {
	store := &mockTokenStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(nil)
	svc := newSvc(t, store)

	tok, err := svc.Issue(context.Background(), alice, time.Hour)
	require.NoError(t, err)
	svc.Wait()
	store.On("Exists", mock.Anything, tok, domain.TokenAccess).Return(true, nil)

	got, err := svc.Verify(context.Background(), tok, domain.TokenAccess)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, alice, *got)
}

func TestVerify_NoRecordReturnsNil(t *testing.T) {
	store := &mockTokenStore{}
	store.On("Exists", mock.Anything, "garbage", domain.TokenAccess).Return(false, nil)
	svc := newSvc(t, store)

	got, err := svc.Verify(context.Background(), "garbage", domain.TokenAccess)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestVerify_BadSignatureWithRecord(t *testing.T) {
	store := &mockTokenStore{}
	store.On("Exists", mock.Anything, "garbage", domain.TokenAccess).Return(true, nil)
	svc := newSvc(t, store)

	_, err := svc.Verify(context.Background(), "garbage", domain.TokenAccess)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_PurposeMismatch(t *testing.T) {
	store := &mockTokenStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(nil)
	svc := newSvc(t, store)

	tok, err := svc.Issue(context.Background(), alice, time.Hour)
	require.NoError(t, err)
	svc.Wait()
	// record stored under the wrong purpose, claims still say ACCESS
	store.On("Exists", mock.Anything, tok, domain.TokenResetPassword).Return(true, nil)

	_, err = svc.Verify(context.Background(), tok, domain.TokenResetPassword)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_StoreError(t *testing.T) {
	store := &mockTokenStore{}
	store.On("Exists", mock.Anything, "t", domain.TokenAccess).Return(false, errors.New("boom"))
	svc := newSvc(t, store)

	_, err := svc.Verify(context.Background(), "t", domain.TokenAccess)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidToken)
}

// --- Revoke ---

func TestRevoke(t *testing.T) {
	store := &mockTokenStore{}
	store.On("Delete", mock.Anything, "t", domain.TokenAccess).Return(nil)
	store.On("DeleteByUser", mock.Anything, "u1", domain.TokenResetPassword).Return(nil)
	svc := newSvc(t, store)

	require.NoError(t, svc.Revoke(context.Background(), "t", domain.TokenAccess))
	require.NoError(t, svc.RevokeAllForUser(context.Background(), "u1", domain.TokenResetPassword))
	store.AssertExpectations(t)
}
