package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/adanest-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockObjects struct{ mock.Mock }

func (m *mockObjects) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	// drain so the hash covers the full body
	_, _ = io.Copy(io.Discard, r)
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}
func (m *mockObjects) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockFiles struct{ mock.Mock }

func (m *mockFiles) Put(ctx context.Context, f *domain.File) error {
	return m.Called(ctx, f).Error(0)
}
func (m *mockFiles) ListByUploader(ctx context.Context, userID string) ([]domain.File, error) {
	args := m.Called(ctx, userID)
	fs, _ := args.Get(0).([]domain.File)
	return fs, args.Error(1)
}

func input(body string) UploadInput {
	return UploadInput{
		Reader:      strings.NewReader(body),
		Filename:    "../me.png",
		ContentType: "image/png",
		Size:        int64(len(body)),
		Kind:        KindAvatar,
		UploaderID:  "u1",
	}
}

func TestUploadImage(t *testing.T) {
	objects, files := &mockObjects{}, &mockFiles{}
	objects.On("Upload", mock.Anything, mock.MatchedBy(func(k string) bool {
		return strings.HasPrefix(k, "avatars/u1/") && strings.HasSuffix(k, "-me.png")
	}), "image/png").Return("https://cdn.test/avatars/u1/x-me.png", nil)
	files.On("Put", mock.Anything, mock.Anything).Return(nil)
	svc := NewService(ServiceDeps{ObjectStore: objects, FileRepo: files})

	f, err := svc.UploadImage(context.Background(), input("hello"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/avatars/u1/x-me.png", f.URL)
	assert.Equal(t, "me.png", f.Name)
	assert.Equal(t, KindAvatar, f.Kind)
	// sha256("hello")
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", f.Hash)
}

func TestUploadImage_Rejects(t *testing.T) {
	svc := NewService(ServiceDeps{ObjectStore: &mockObjects{}, FileRepo: &mockFiles{}})

	in := input("x")
	in.ContentType = "application/pdf"
	_, err := svc.UploadImage(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	in = input("x")
	in.Size = MaxImageSize + 1
	_, err = svc.UploadImage(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	in = input("x")
	in.Kind = "banner"
	_, err = svc.UploadImage(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestUploadImage_RemovesObjectWhenRecordFails(t *testing.T) {
	objects, files := &mockObjects{}, &mockFiles{}
	objects.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("u", nil)
	objects.On("Delete", mock.Anything, mock.Anything).Return(nil)
	files.On("Put", mock.Anything, mock.Anything).Return(errors.New("dynamo down"))
	svc := NewService(ServiceDeps{ObjectStore: objects, FileRepo: files})

	_, err := svc.UploadImage(context.Background(), input("x"))
	require.Error(t, err)
	objects.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":         "photo.jpg",
		"../../etc/passwd":  "passwd",
		`C:\Users\me\a.png`: "a.png",
		"my photo (1).png":  "my_photo__1_.png",
		"":                  "_",
		"..":                "_",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeFilename(in), in)
	}
}
