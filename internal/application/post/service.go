package post

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/adanest-api/internal/application/media"
	"github.com/adanest-api/internal/domain"
	"github.com/adanest-api/internal/pkg/id"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type CoverUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type Service interface {
	List(ctx context.Context, postType string) ([]domain.Post, error)
	// Get counts a visit on every call.
	Get(ctx context.Context, postID string) (*domain.Post, error)
	Search(ctx context.Context, q domain.PostQuery) ([]domain.Post, error)
	Create(ctx context.Context, ownerID string, req domain.CreatePostRequest) (*domain.Post, error)
	Update(ctx context.Context, ownerID, postID string, req domain.UpdatePostRequest) (*domain.Post, error)
	Delete(ctx context.Context, ownerID, postID string) error
	UploadCover(ctx context.Context, ownerID string, in CoverUpload) (*domain.File, error)
}

type postStore interface {
	Put(ctx context.Context, p *domain.Post) error
	Get(ctx context.Context, postID string) (*domain.Post, error)
	IncrementVisitor(ctx context.Context, postID string) (*domain.Post, error)
	ListByType(ctx context.Context, postType string) ([]domain.Post, error)
	Search(ctx context.Context, q domain.PostQuery) ([]domain.Post, error)
	Update(ctx context.Context, postID string, updates map[string]interface{}) error
	Delete(ctx context.Context, postID string) error
}

type service struct {
	repo  postStore
	media media.Service
}

type ServiceDeps struct {
	PostRepo postStore
	Media    media.Service
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.PostRepo, media: deps.Media}
}

func (s *service) List(ctx context.Context, postType string) ([]domain.Post, error) {
	return s.repo.ListByType(ctx, normalizeType(postType))
}

func (s *service) Get(ctx context.Context, postID string) (*domain.Post, error) {
	return s.repo.IncrementVisitor(ctx, postID)
}

func (s *service) Search(ctx context.Context, q domain.PostQuery) ([]domain.Post, error) {
	q.Type = normalizeType(q.Type)
	posts, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	less, err := sortBy(q.SortField)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		if q.Desc {
			return less(posts[j], posts[i])
		}
		return less(posts[i], posts[j])
	})
	return page(posts, q.Offset, q.Limit), nil
}

func (s *service) Create(ctx context.Context, ownerID string, req domain.CreatePostRequest) (*domain.Post, error) {
	now := time.Now().UTC()
	p := &domain.Post{
		PostID:    id.New(),
		OwnerID:   ownerID,
		Title:     req.Title,
		Content:   req.Content,
		Cover:     req.Cover,
		Type:      normalizeType(req.Type),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, ownerID, postID string, req domain.UpdatePostRequest) (*domain.Post, error) {
	if _, err := s.owned(ctx, ownerID, postID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Cover != nil {
		updates["cover"] = *req.Cover
	}
	if req.Type != nil {
		updates["type"] = normalizeType(*req.Type)
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, postID, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, postID)
}

func (s *service) Delete(ctx context.Context, ownerID, postID string) error {
	if _, err := s.owned(ctx, ownerID, postID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, postID)
}

func (s *service) UploadCover(ctx context.Context, ownerID string, in CoverUpload) (*domain.File, error) {
	return s.media.UploadImage(ctx, media.UploadInput{
		Reader:      in.Reader,
		Filename:    in.Filename,
		ContentType: in.ContentType,
		Size:        in.Size,
		Kind:        media.KindCover,
		UploaderID:  ownerID,
	})
}

func (s *service) owned(ctx context.Context, ownerID, postID string) (*domain.Post, error) {
	p, err := s.repo.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, fmt.Errorf("you are not owner of this post: %w", domain.ErrForbidden)
	}
	return p, nil
}

func normalizeType(t string) string {
	if t == domain.PostTypeForum {
		return t
	}
	return domain.PostTypeBlog
}

func sortBy(field string) (func(a, b domain.Post) bool, error) {
	switch field {
	case "", "createdAt":
		return func(a, b domain.Post) bool { return a.CreatedAt.Before(b.CreatedAt) }, nil
	case "updatedAt":
		return func(a, b domain.Post) bool { return a.UpdatedAt.Before(b.UpdatedAt) }, nil
	case "title":
		return func(a, b domain.Post) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }, nil
	case "visitor":
		return func(a, b domain.Post) bool { return a.Visitor < b.Visitor }, nil
	default:
		return nil, fmt.Errorf("unsupported sort field %q: %w", field, domain.ErrBadRequest)
	}
}

func page(posts []domain.Post, offset, limit int) []domain.Post {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(posts) {
		return []domain.Post{}
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end]
}
