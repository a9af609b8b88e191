package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/adanest-api/internal/application/media"
	"github.com/adanest-api/internal/domain"
	"github.com/adanest-api/internal/pkg/id"
	"github.com/adanest-api/internal/pkg/password"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldUsername     = "username"
	fieldEmail        = "email"
	fieldFirstName    = "first_name"
	fieldLastName     = "last_name"
	fieldAvatar       = "avatar"
	fieldBio          = "bio"
	fieldIsVerified   = "is_verified"
	fieldPasswordHash = "password_hash"
)

type AvatarUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type Service interface {
	Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, userID string) error
	UploadAvatar(ctx context.Context, userID string, in AvatarUpload) (*domain.User, error)
}

type userStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Scan(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	Delete(ctx context.Context, userID string) error
}

type tokenRevoker interface {
	RevokeAllForUser(ctx context.Context, userID string, purpose domain.TokenPurpose) error
}

type service struct {
	repo   userStore
	hasher password.Hasher
	media  media.Service
	tokens tokenRevoker
}

type ServiceDeps struct {
	UserRepo userStore
	Hasher   password.Hasher
	Media    media.Service
	Tokens   tokenRevoker
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:   deps.UserRepo,
		hasher: deps.Hasher,
		media:  deps.Media,
		tokens: deps.Tokens,
	}
}

func (s *service) Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	taken, err := s.taken(ctx, req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("User Is Exists: %w", domain.ErrBadRequest)
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         domain.RoleUser,
		Avatar:       domain.DefaultAvatar,
		Bio:          domain.DefaultBio,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) taken(ctx context.Context, username, email string) (bool, error) {
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return true, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	return false, nil
}

func (s *service) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.Scan(ctx)
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *service) Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	current, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Username != nil && *req.Username != current.Username {
		if err := s.ensureFree(ctx, s.repo.GetByUsername, *req.Username, "Username"); err != nil {
			return nil, err
		}
		updates[fieldUsername] = *req.Username
	}
	if req.Email != nil && *req.Email != current.Email {
		if err := s.ensureFree(ctx, s.repo.GetByEmail, *req.Email, "Email"); err != nil {
			return nil, err
		}
		updates[fieldEmail] = *req.Email
		updates[fieldIsVerified] = false
	}
	if req.FirstName != nil {
		updates[fieldFirstName] = *req.FirstName
	}
	if req.LastName != nil {
		updates[fieldLastName] = *req.LastName
	}
	if req.Avatar != nil {
		updates[fieldAvatar] = *req.Avatar
	}
	if req.Bio != nil {
		updates[fieldBio] = *req.Bio
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		updates[fieldPasswordHash] = hash
	}
	if len(updates) == 0 {
		return current, nil
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

func (s *service) ensureFree(ctx context.Context, lookup func(context.Context, string) (*domain.User, error), value, field string) error {
	_, err := lookup(ctx, value)
	if err == nil {
		return fmt.Errorf("%s is taken: %w", field, domain.ErrBadRequest)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// Delete removes the account and revokes its outstanding access tokens.
func (s *service) Delete(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	return s.tokens.RevokeAllForUser(ctx, userID, domain.TokenAccess)
}

func (s *service) UploadAvatar(ctx context.Context, userID string, in AvatarUpload) (*domain.User, error) {
	f, err := s.media.UploadImage(ctx, media.UploadInput{
		Reader:      in.Reader,
		Filename:    in.Filename,
		ContentType: in.ContentType,
		Size:        in.Size,
		Kind:        media.KindAvatar,
		UploaderID:  userID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, userID, map[string]interface{}{fieldAvatar: f.URL}); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}
