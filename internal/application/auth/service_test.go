package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/adanest-api/internal/domain"
	"github.com/adanest-api/internal/pkg/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) Issue(ctx context.Context, p domain.TokenPayload, ttl time.Duration) (string, error) {
	args := m.Called(ctx, p, ttl)
	return args.String(0), args.Error(1)
}
func (m *mockTokens) Verify(ctx context.Context, token string, purpose domain.TokenPurpose) (*domain.TokenPayload, error) {
	args := m.Called(ctx, token, purpose)
	if p, _ := args.Get(0).(*domain.TokenPayload); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockTokens) Revoke(ctx context.Context, token string, purpose domain.TokenPurpose) error {
	return m.Called(ctx, token, purpose).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

// --- helpers ---

var notFound = fmt.Errorf("user not found: %w", domain.ErrNotFound)

type fixture struct {
	users  *mockUserStore
	tokens *mockTokens
	mailer *mockMailer
	svc    Service
	user   *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hasher := password.NewBcryptHasher(4)
	hash, err := hasher.Hash("correct-horse")
	require.NoError(t, err)
	f := &fixture{
		users:  &mockUserStore{},
		tokens: &mockTokens{},
		mailer: &mockMailer{},
		user: &domain.User{
			UserID:       "u1",
			Username:     "alice",
			Email:        "alice@example.com",
			FirstName:    "Alice",
			PasswordHash: hash,
		},
	}
	f.svc = NewService(ServiceDeps{
		UserRepo:  f.users,
		Tokens:    f.tokens,
		Hasher:    hasher,
		Mailer:    f.mailer,
		AppURL:    "http://app.test/",
		AccessTTL: time.Hour,
		ResetTTL:  15 * time.Minute,
	})
	return f
}

// --- Login ---

func TestLogin_ByUsername(t *testing.T) {
	f := newFixture(t)
	f.users.On("GetByUsername", mock.Anything, "alice").Return(f.user, nil)
	f.tokens.On("Issue", mock.Anything, domain.TokenPayload{Subject: "u1", Username: "alice", Purpose: domain.TokenAccess}, time.Hour).
		Return("tok", nil)

	res, err := f.svc.Login(context.Background(), "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "tok", res.AccessToken)
	assert.Equal(t, UserSummary{ID: "u1", Username: "alice"}, res.User)
}

func TestLogin_FallsBackToEmail(t *testing.T) {
	f := newFixture(t)
	f.users.On("GetByUsername", mock.Anything, "alice@example.com").Return(nil, notFound)
	f.users.On("GetByEmail", mock.Anything, "alice@example.com").Return(f.user, nil)
	f.tokens.On("Issue", mock.Anything, mock.Anything, time.Hour).Return("tok", nil)

	res, err := f.svc.Login(context.Background(), "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, UserSummary{ID: "u1", Username: "alice"}, res.User)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	f.users.On("GetByUsername", mock.Anything, "alice").Return(f.user, nil)
	f.users.On("GetByUsername", mock.Anything, "ghost").Return(nil, notFound)
	f.users.On("GetByEmail", mock.Anything, "ghost").Return(nil, notFound)

	_, wrongPass := f.svc.Login(context.Background(), "alice", "nope")
	_, unknown := f.svc.Login(context.Background(), "ghost", "correct-horse")

	assert.ErrorIs(t, wrongPass, domain.ErrUnauthorized)
	assert.ErrorIs(t, unknown, domain.ErrUnauthorized)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
	f.tokens.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_StoreErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.users.On("GetByUsername", mock.Anything, "alice").Return(nil, errors.New("throttled"))

	_, err := f.svc.Login(context.Background(), "alice", "correct-horse")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
}

// --- ForgotPassword ---

func TestForgotPassword_SendsResetLink(t *testing.T) {
	f := newFixture(t)
	f.users.On("GetByEmail", mock.Anything, "alice@example.com").Return(f.user, nil)
	f.tokens.On("Issue", mock.Anything, domain.TokenPayload{Subject: "u1", Username: "alice", Purpose: domain.TokenResetPassword}, 15*time.Minute).
		Return("rst", nil)
	f.mailer.On("SendEmail", "alice@example.com", resetMailSubject, mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "http://app.test/new-password?token=rst")
	})).Return(nil)

	require.NoError(t, f.svc.ForgotPassword(context.Background(), "alice@example.com"))
	f.mailer.AssertExpectations(t)
}

func TestResetMailBody_EscapesLink(t *testing.T) {
	u := &domain.User{Username: "alice", FirstName: "Alice"}
	body := resetMailBody(u, `http://app.test/"><script>x</script>new-password?token=a&b`)

	assert.NotContains(t, body, `"><script>`)
	assert.Contains(t, body, `href="http://app.test/&#34;&gt;&lt;script&gt;x&lt;/script&gt;new-password?token=a&amp;b"`)
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	f := newFixture(t)
	f.users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, notFound)

	err := f.svc.ForgotPassword(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "email not found")
}

func TestForgotPassword_MailErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.users.On("GetByEmail", mock.Anything, "alice@example.com").Return(f.user, nil)
	f.tokens.On("Issue", mock.Anything, mock.Anything, mock.Anything).Return("rst", nil)
	f.mailer.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	assert.EqualError(t, f.svc.ForgotPassword(context.Background(), "alice@example.com"), "smtp down")
}

// --- ResetPassword ---

func TestResetPassword_OneTimeUse(t *testing.T) {
	f := newFixture(t)
	payload := &domain.TokenPayload{Subject: "u1", Username: "alice", Purpose: domain.TokenResetPassword}
	f.tokens.On("Verify", mock.Anything, "rst", domain.TokenResetPassword).Return(payload, nil).Once()
	f.tokens.On("Revoke", mock.Anything, "rst", domain.TokenResetPassword).Return(nil).Once()
	f.users.On("Update", mock.Anything, "u1", mock.MatchedBy(func(u map[string]interface{}) bool {
		return u["password_hash"] == "new-hash"
	})).Return(nil).Once()

	msg, err := f.svc.ResetPassword(context.Background(), "rst", "new-hash")
	require.NoError(t, err)
	assert.Equal(t, resetSuccessMsg, msg)

	// record gone: the verifier now reports no payload
	f.tokens.On("Verify", mock.Anything, "rst", domain.TokenResetPassword).Return(nil, nil)
	_, err = f.svc.ResetPassword(context.Background(), "rst", "new-hash")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	f.users.AssertNumberOfCalls(t, "Update", 1)
}

func TestResetPassword_VerifyErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.tokens.On("Verify", mock.Anything, "bad", domain.TokenResetPassword).
		Return(nil, fmt.Errorf("token is expired: %w", domain.ErrInvalidToken))

	_, err := f.svc.ResetPassword(context.Background(), "bad", "h")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	f.tokens.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}

// --- Logout ---

func TestLogout_RevokesAccessRecord(t *testing.T) {
	f := newFixture(t)
	f.tokens.On("Revoke", mock.Anything, "tok", domain.TokenAccess).Return(nil)

	require.NoError(t, f.svc.Logout(context.Background(), "tok"))
	f.tokens.AssertExpectations(t)
}
