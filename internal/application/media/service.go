package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/adanest-api/internal/domain"
	"github.com/adanest-api/internal/pkg/id"
)

// MaxImageSize is the largest accepted upload in bytes.
const MaxImageSize = 10 << 20

const (
	KindAvatar = "avatar"
	KindCover  = "cover"
)

type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
	Kind        string
	UploaderID  string
}

type Service interface {
	UploadImage(ctx context.Context, input UploadInput) (*domain.File, error)
	ListByUploader(ctx context.Context, userID string) ([]domain.File, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type fileStore interface {
	Put(ctx context.Context, f *domain.File) error
	ListByUploader(ctx context.Context, userID string) ([]domain.File, error)
}

type service struct {
	objects objectStore
	files   fileStore
}

type ServiceDeps struct {
	ObjectStore objectStore
	FileRepo    fileStore
}

func NewService(deps ServiceDeps) Service {
	return &service{objects: deps.ObjectStore, files: deps.FileRepo}
}

func (s *service) UploadImage(ctx context.Context, input UploadInput) (*domain.File, error) {
	if !strings.HasPrefix(input.ContentType, "image/") {
		return nil, fmt.Errorf("only image files are allowed: %w", domain.ErrBadRequest)
	}
	if input.Size > MaxImageSize {
		return nil, fmt.Errorf("image exceeds %d MiB: %w", MaxImageSize>>20, domain.ErrBadRequest)
	}
	if input.Kind != KindAvatar && input.Kind != KindCover {
		return nil, fmt.Errorf("unknown upload kind %q: %w", input.Kind, domain.ErrBadRequest)
	}

	fileID := id.New()
	safeName := sanitizeFilename(input.Filename)
	key := fmt.Sprintf("%ss/%s/%s-%s", input.Kind, input.UploaderID, fileID, safeName)

	hasher := sha256.New()
	url, err := s.objects.Upload(ctx, key, io.TeeReader(input.Reader, hasher), input.ContentType)
	if err != nil {
		return nil, err
	}
	f := &domain.File{
		FileID:           fileID,
		Object:           key,
		Size:             input.Size,
		Type:             input.ContentType,
		Name:             safeName,
		Hash:             hex.EncodeToString(hasher.Sum(nil)),
		Kind:             input.Kind,
		URL:              url,
		UploadedByUserID: input.UploaderID,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.files.Put(ctx, f); err != nil {
		if derr := s.objects.Delete(ctx, key); derr != nil {
			slog.Warn("failed to remove orphaned upload", "key", key, "err", derr)
		}
		return nil, err
	}
	return f, nil
}

func (s *service) ListByUploader(ctx context.Context, userID string) ([]domain.File, error) {
	return s.files.ListByUploader(ctx, userID)
}

// sanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] so the S3 key cannot traverse prefixes.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." && result != ".." {
		return result
	}
	return "_"
}
