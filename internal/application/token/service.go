package token

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/adanest-api/internal/domain"
	jwtinfra "github.com/adanest-api/internal/infrastructure/jwt"
	"github.com/adanest-api/internal/observability"
)

const defaultPersistTimeout = 5 * time.Second

// Service issues signed tokens and validates them against their issuance records.
// A token is only trusted while its {token, purpose} record exists, so deleting
// the record revokes it before its signature expires.
type Service interface {
	Issue(ctx context.Context, payload domain.TokenPayload, ttl time.Duration) (string, error)
	// Verify returns (nil, nil) when no record exists for {token, purpose}.
	Verify(ctx context.Context, token string, purpose domain.TokenPurpose) (*domain.TokenPayload, error)
	Revoke(ctx context.Context, token string, purpose domain.TokenPurpose) error
	RevokeAllForUser(ctx context.Context, userID string, purpose domain.TokenPurpose) error
	// Wait blocks until all detached record writes have finished.
	Wait()
}

type tokenStore interface {
	Put(ctx context.Context, t *domain.IssuedToken) error
	Exists(ctx context.Context, token string, purpose domain.TokenPurpose) (bool, error)
	Delete(ctx context.Context, token string, purpose domain.TokenPurpose) error
	DeleteByUser(ctx context.Context, userID string, purpose domain.TokenPurpose) error
}

type signer interface {
	Sign(payload domain.TokenPayload, ttl time.Duration) (string, time.Time, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

type service struct {
	repo           tokenStore
	signer         signer
	metrics        *observability.Metrics
	persistTimeout time.Duration
	pending        sync.WaitGroup
}

type ServiceDeps struct {
	TokenRepo tokenStore
	Signer    signer
	Metrics   *observability.Metrics
	// PersistTimeout bounds each detached record write; defaults to 5s.
	PersistTimeout time.Duration
}

func NewService(deps ServiceDeps) Service {
	timeout := deps.PersistTimeout
	if timeout <= 0 {
		timeout = defaultPersistTimeout
	}
	return &service{
		repo:           deps.TokenRepo,
		signer:         deps.Signer,
		metrics:        deps.Metrics,
		persistTimeout: timeout,
	}
}

// Issue signs payload and records the issuance. ACCESS records are written in
// a detached goroutine whose failure is only logged; RESET_PASSWORD records are
// written before returning so a reset link is never mailed for an unusable token.
func (s *service) Issue(ctx context.Context, payload domain.TokenPayload, ttl time.Duration) (string, error) {
	signed, exp, err := s.signer.Sign(payload, ttl)
	if err != nil {
		return "", err
	}
	rec := &domain.IssuedToken{
		Token:     signed,
		Type:      payload.Purpose,
		UserID:    payload.Subject,
		ExpiresAt: exp.Unix(),
		CreatedAt: time.Now().UTC(),
	}
	s.metrics.TokenIssued(payload.Purpose)

	if payload.Purpose == domain.TokenResetPassword {
		if err := s.repo.Put(ctx, rec); err != nil {
			s.metrics.TokenPersistFailed(payload.Purpose)
			return "", fmt.Errorf("persist reset token: %w", err)
		}
		return signed, nil
	}

	s.pending.Add(1)
	go s.persist(context.WithoutCancel(ctx), rec)
	return signed, nil
}

func (s *service) persist(ctx context.Context, rec *domain.IssuedToken) {
	defer s.pending.Done()
	ctx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()
	if err := s.repo.Put(ctx, rec); err != nil {
		s.metrics.TokenPersistFailed(rec.Type)
		slog.Warn("failed to persist issued token", "user_id", rec.UserID, "type", rec.Type, "err", err)
	}
}

func (s *service) Verify(ctx context.Context, token string, purpose domain.TokenPurpose) (*domain.TokenPayload, error) {
	ok, err := s.repo.Exists(ctx, token, purpose)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	claims, err := s.signer.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidToken)
	}
	if claims.Type != purpose {
		return nil, fmt.Errorf("token purpose mismatch: %w", domain.ErrInvalidToken)
	}
	return claims.Payload(), nil
}

func (s *service) Revoke(ctx context.Context, token string, purpose domain.TokenPurpose) error {
	return s.repo.Delete(ctx, token, purpose)
}

func (s *service) RevokeAllForUser(ctx context.Context, userID string, purpose domain.TokenPurpose) error {
	return s.repo.DeleteByUser(ctx, userID, purpose)
}

func (s *service) Wait() { s.pending.Wait() }
