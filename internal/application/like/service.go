package like

import (
	"context"
	"errors"
	"time"

	"github.com/adanest-api/internal/domain"
)

type Service interface {
	// Toggle flips the caller's like on a post and reports the new state.
	Toggle(ctx context.Context, ownerID, postID string) (bool, error)
	Count(ctx context.Context, postID string) (int, error)
	IsLiked(ctx context.Context, ownerID, postID string) (bool, error)
}

type likeStore interface {
	Put(ctx context.Context, l *domain.Like) error
	Exists(ctx context.Context, postID, ownerID string) (bool, error)
	Delete(ctx context.Context, postID, ownerID string) (bool, error)
	Count(ctx context.Context, postID string) (int, error)
}

type postLookup interface {
	Get(ctx context.Context, postID string) (*domain.Post, error)
}

type service struct {
	repo  likeStore
	posts postLookup
}

type ServiceDeps struct {
	LikeRepo likeStore
	PostRepo postLookup
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.LikeRepo, posts: deps.PostRepo}
}

func (s *service) Toggle(ctx context.Context, ownerID, postID string) (bool, error) {
	removed, err := s.repo.Delete(ctx, postID, ownerID)
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}
	if _, err := s.posts.Get(ctx, postID); err != nil {
		return false, err
	}
	err = s.repo.Put(ctx, &domain.Like{PostID: postID, OwnerID: ownerID, CreatedAt: time.Now().UTC()})
	if err != nil && !errors.Is(err, domain.ErrConflict) {
		return false, err
	}
	// A concurrent toggle may have written the same like first.
	return true, nil
}

func (s *service) Count(ctx context.Context, postID string) (int, error) {
	return s.repo.Count(ctx, postID)
}

func (s *service) IsLiked(ctx context.Context, ownerID, postID string) (bool, error) {
	return s.repo.Exists(ctx, postID, ownerID)
}
