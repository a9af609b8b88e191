package reply

import (
	"context"
	"fmt"
	"time"

	"github.com/adanest-api/internal/domain"
	"github.com/adanest-api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, ownerID string, req domain.CreateReplyRequest) (*domain.Reply, error)
	Get(ctx context.Context, replyID string) (*domain.Reply, error)
	ListByComment(ctx context.Context, commentID string) ([]domain.Reply, error)
	Update(ctx context.Context, ownerID, replyID, content string) (*domain.Reply, error)
	Delete(ctx context.Context, ownerID, replyID string) error
}

type replyStore interface {
	Put(ctx context.Context, r *domain.Reply) error
	Get(ctx context.Context, replyID string) (*domain.Reply, error)
	ListByComment(ctx context.Context, commentID string) ([]domain.Reply, error)
	UpdateContent(ctx context.Context, replyID, content string) error
	Delete(ctx context.Context, replyID string) error
}

type commentLookup interface {
	Get(ctx context.Context, commentID string) (*domain.Comment, error)
}

type service struct {
	repo     replyStore
	comments commentLookup
}

type ServiceDeps struct {
	ReplyRepo   replyStore
	CommentRepo commentLookup
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.ReplyRepo, comments: deps.CommentRepo}
}

func (s *service) Create(ctx context.Context, ownerID string, req domain.CreateReplyRequest) (*domain.Reply, error) {
	if _, err := s.comments.Get(ctx, req.CommentID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	r := &domain.Reply{
		ReplyID:   id.New(),
		CommentID: req.CommentID,
		OwnerID:   ownerID,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) Get(ctx context.Context, replyID string) (*domain.Reply, error) {
	return s.repo.Get(ctx, replyID)
}

func (s *service) ListByComment(ctx context.Context, commentID string) ([]domain.Reply, error) {
	return s.repo.ListByComment(ctx, commentID)
}

func (s *service) Update(ctx context.Context, ownerID, replyID, content string) (*domain.Reply, error) {
	if err := s.checkOwner(ctx, ownerID, replyID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateContent(ctx, replyID, content); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, replyID)
}

func (s *service) Delete(ctx context.Context, ownerID, replyID string) error {
	if err := s.checkOwner(ctx, ownerID, replyID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, replyID)
}

func (s *service) checkOwner(ctx context.Context, ownerID, replyID string) error {
	r, err := s.repo.Get(ctx, replyID)
	if err != nil {
		return err
	}
	if r.OwnerID != ownerID {
		return fmt.Errorf("you are not owner of this reply: %w", domain.ErrForbidden)
	}
	return nil
}
