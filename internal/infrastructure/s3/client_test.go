package s3infra

import (
	"testing"

	"github.com/adanest-api/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestPublicBaseURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"explicit", config.Config{S3PublicURL: "https://cdn.example.com/", S3BucketName: "b"}, "https://cdn.example.com"},
		{"localstack", config.Config{AWSEndpointURL: "http://localhost:4566", S3BucketName: "media"}, "http://localhost:4566/media"},
		{"aws", config.Config{S3BucketName: "media", AWSRegion: "eu-west-1"}, "https://media.s3.eu-west-1.amazonaws.com"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, publicBaseURL(&c.cfg))
		})
	}
}

func TestStoreURL(t *testing.T) {
	s := NewStore(nil, &config.Config{S3PublicURL: "https://cdn.example.com", S3BucketName: "media"})
	assert.Equal(t, "https://cdn.example.com/avatars/u1/a.png", s.URL("avatars/u1/a.png"))
}
