package comment

import (
	"context"
	"fmt"
	"time"

	"github.com/adanest-api/internal/domain"
	"github.com/adanest-api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, ownerID string, req domain.CreateCommentRequest) (*domain.Comment, error)
	List(ctx context.Context) ([]domain.Comment, error)
	Get(ctx context.Context, commentID string) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]domain.Comment, error)
	CountByPost(ctx context.Context, postID string) (int, error)
	Update(ctx context.Context, ownerID, commentID, content string) (*domain.Comment, error)
	Delete(ctx context.Context, ownerID, commentID string) error
}

type commentStore interface {
	Put(ctx context.Context, c *domain.Comment) error
	Get(ctx context.Context, commentID string) (*domain.Comment, error)
	Scan(ctx context.Context) ([]domain.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]domain.Comment, error)
	CountByPost(ctx context.Context, postID string) (int, error)
	UpdateContent(ctx context.Context, commentID, content string) error
	Delete(ctx context.Context, commentID string) error
}

type postLookup interface {
	Get(ctx context.Context, postID string) (*domain.Post, error)
}

type service struct {
	repo  commentStore
	posts postLookup
}

type ServiceDeps struct {
	CommentRepo commentStore
	PostRepo    postLookup
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.CommentRepo, posts: deps.PostRepo}
}

func (s *service) Create(ctx context.Context, ownerID string, req domain.CreateCommentRequest) (*domain.Comment, error) {
	if _, err := s.posts.Get(ctx, req.PostID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &domain.Comment{
		CommentID: id.New(),
		PostID:    req.PostID,
		OwnerID:   ownerID,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) List(ctx context.Context) ([]domain.Comment, error) {
	return s.repo.Scan(ctx)
}

func (s *service) Get(ctx context.Context, commentID string) (*domain.Comment, error) {
	return s.repo.Get(ctx, commentID)
}

func (s *service) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	return s.repo.ListByPost(ctx, postID)
}

func (s *service) CountByPost(ctx context.Context, postID string) (int, error) {
	return s.repo.CountByPost(ctx, postID)
}

func (s *service) Update(ctx context.Context, ownerID, commentID, content string) (*domain.Comment, error) {
	if _, err := s.owned(ctx, ownerID, commentID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateContent(ctx, commentID, content); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, commentID)
}

func (s *service) Delete(ctx context.Context, ownerID, commentID string) error {
	if _, err := s.owned(ctx, ownerID, commentID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, commentID)
}

func (s *service) owned(ctx context.Context, ownerID, commentID string) (*domain.Comment, error) {
	c, err := s.repo.Get(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != ownerID {
		return nil, fmt.Errorf("you are not owner of this comment: %w", domain.ErrForbidden)
	}
	return c, nil
}
