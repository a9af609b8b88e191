package auth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/adanest-api/internal/domain"
	"github.com/adanest-api/internal/pkg/password"
)

const (
	resetMailSubject = "[Adanest] Perbarui Kata Sandi Pengguna"
	resetSuccessMsg  = "Password berhasil diperbarui"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UserSummary is the identity echoed back on a successful login.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type LoginResult struct {
	AccessToken string      `json:"access_token"`
	User        UserSummary `json:"user"`
}

type Service interface {
	Login(ctx context.Context, identifier, secret string) (*LoginResult, error)
	ForgotPassword(ctx context.Context, email string) error
	// ResetPassword expects newHash to be hashed already by the caller.
	ResetPassword(ctx context.Context, token, newHash string) (string, error)
	Logout(ctx context.Context, accessToken string) error
}

type userStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type tokenService interface {
	Issue(ctx context.Context, payload domain.TokenPayload, ttl time.Duration) (string, error)
	Verify(ctx context.Context, token string, purpose domain.TokenPurpose) (*domain.TokenPayload, error)
	Revoke(ctx context.Context, token string, purpose domain.TokenPurpose) error
}

type mailer interface {
	SendEmail(to, subject, htmlBody string) error
}

type service struct {
	users     userStore
	tokens    tokenService
	hasher    password.Hasher
	mailer    mailer
	appURL    string
	accessTTL time.Duration
	resetTTL  time.Duration
}

type ServiceDeps struct {
	UserRepo  userStore
	Tokens    tokenService
	Hasher    password.Hasher
	Mailer    mailer
	AppURL    string
	AccessTTL time.Duration
	ResetTTL  time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:     deps.UserRepo,
		tokens:    deps.Tokens,
		hasher:    deps.Hasher,
		mailer:    deps.Mailer,
		appURL:    deps.AppURL,
		accessTTL: deps.AccessTTL,
		resetTTL:  deps.ResetTTL,
	}
}

var errInvalidCredentials = fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)

// Login resolves identifier as a username first and an email second.
// Every failure collapses to the same error.
func (s *service) Login(ctx context.Context, identifier, secret string) (*LoginResult, error) {
	u, err := s.users.GetByUsername(ctx, identifier)
	if errors.Is(err, domain.ErrNotFound) {
		u, err = s.users.GetByEmail(ctx, identifier)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(secret, u.PasswordHash) {
		return nil, errInvalidCredentials
	}
	token, err := s.tokens.Issue(ctx, domain.TokenPayload{
		Subject:  u.UserID,
		Username: u.Username,
		Purpose:  domain.TokenAccess,
	}, s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken: token,
		User:        UserSummary{ID: u.UserID, Username: u.Username},
	}, nil
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("email not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return err
	}
	token, err := s.tokens.Issue(ctx, domain.TokenPayload{
		Subject:  u.UserID,
		Username: u.Username,
		Purpose:  domain.TokenResetPassword,
	}, s.resetTTL)
	if err != nil {
		return err
	}
	link := s.appURL + "new-password?token=" + token
	return s.mailer.SendEmail(u.Email, resetMailSubject, resetMailBody(u, link))
}

func (s *service) ResetPassword(ctx context.Context, token, newHash string) (string, error) {
	payload, err := s.tokens.Verify(ctx, token, domain.TokenResetPassword)
	if err != nil {
		return "", err
	}
	if payload == nil {
		return "", domain.ErrInvalidToken
	}
	if err := s.tokens.Revoke(ctx, token, domain.TokenResetPassword); err != nil {
		return "", err
	}
	if err := s.users.Update(ctx, payload.Subject, map[string]interface{}{"password_hash": newHash}); err != nil {
		return "", err
	}
	return resetSuccessMsg, nil
}

func (s *service) Logout(ctx context.Context, accessToken string) error {
	return s.tokens.Revoke(ctx, accessToken, domain.TokenAccess)
}

func resetMailBody(u *domain.User, link string) string {
	return "<p>Halo " + html.EscapeString(u.FullName()) + ",</p>" +
		"<p>Kami menerima permintaan untuk memperbarui kata sandi akun <b>" + html.EscapeString(u.Username) + "</b>.</p>" +
		`<p><a href="` + html.EscapeString(link) + `">Perbarui kata sandi</a></p>` +
		"<p>Abaikan email ini jika Anda tidak merasa memintanya.</p>"
}
