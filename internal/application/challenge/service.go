package challenge

import (
	"context"
	"errors"
	"time"

	"github.com/adanest-api/internal/domain"
	"github.com/adanest-api/internal/observability"
	"github.com/adanest-api/internal/pkg/id"
)

// Service tracks each user's time-boxed challenge: NONE -> STARTED -> WON|LOST.
// A stopped record is terminal; the next Start writes a new record.
type Service interface {
	IsStarted(ctx context.Context, ownerID string) (bool, error)
	// Start reports false when the owner already has an active challenge.
	// The check and the insert are separate calls, so concurrent starts may
	// both succeed.
	Start(ctx context.Context, ownerID string, endedAt time.Time) (bool, error)
	// Stop returns nil when nothing is active.
	Stop(ctx context.Context, ownerID string) (*domain.Challenge, error)
	FindByChallenger(ctx context.Context, ownerID string, started bool) ([]domain.Challenge, error)
	// Update returns the record as it was before the write, or nil when id is unknown.
	Update(ctx context.Context, started, lost, won bool, challengeID string, relapseAt *time.Time) (*domain.Challenge, error)
}

type challengeStore interface {
	Put(ctx context.Context, c *domain.Challenge) error
	Get(ctx context.Context, challengeID string) (*domain.Challenge, error)
	ListByChallenger(ctx context.Context, challengerID string, started bool) ([]domain.Challenge, error)
	Update(ctx context.Context, challengeID string, updates map[string]interface{}) error
}

type service struct {
	repo    challengeStore
	metrics *observability.Metrics
	now     func() time.Time
}

type ServiceDeps struct {
	ChallengeRepo challengeStore
	Metrics       *observability.Metrics
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: deps.ChallengeRepo, metrics: deps.Metrics, now: now}
}

func (s *service) IsStarted(ctx context.Context, ownerID string) (bool, error) {
	active, err := s.repo.ListByChallenger(ctx, ownerID, true)
	if err != nil {
		return false, err
	}
	return len(active) > 0, nil
}

func (s *service) Start(ctx context.Context, ownerID string, endedAt time.Time) (bool, error) {
	started, err := s.IsStarted(ctx, ownerID)
	if err != nil {
		return false, err
	}
	if started {
		return false, nil
	}
	now := s.now().UTC()
	c := &domain.Challenge{
		ChallengeID:  id.New(),
		ChallengerID: ownerID,
		Started:      true,
		StartedAt:    now,
		EndedAt:      endedAt.UTC(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) Stop(ctx context.Context, ownerID string) (*domain.Challenge, error) {
	active, err := s.repo.ListByChallenger(ctx, ownerID, true)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, nil
	}
	current := active[0]
	now := s.now().UTC()

	if current.EndedAt.Sub(now) < 0 {
		_, err = s.Update(ctx, false, true, false, current.ChallengeID, nil)
	} else {
		_, err = s.Update(ctx, false, false, true, current.ChallengeID, &now)
	}
	if err != nil {
		return nil, err
	}

	stopped, err := s.repo.Get(ctx, current.ChallengeID)
	if err != nil {
		return nil, err
	}
	s.metrics.ChallengeStopped(stopped.Won)
	return stopped, nil
}

func (s *service) FindByChallenger(ctx context.Context, ownerID string, started bool) ([]domain.Challenge, error) {
	return s.repo.ListByChallenger(ctx, ownerID, started)
}

func (s *service) Update(ctx context.Context, started, lost, won bool, challengeID string, relapseAt *time.Time) (*domain.Challenge, error) {
	before, err := s.repo.Get(ctx, challengeID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"started": started,
		"lost":    lost,
		"won":     won,
	}
	if relapseAt != nil {
		updates["relapse_at"] = relapseAt.UTC()
	}
	if err := s.repo.Update(ctx, challengeID, updates); err != nil {
		return nil, err
	}
	return before, nil
}
