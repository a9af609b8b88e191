package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"15m", 15 * time.Minute, true},
		{"24h", 24 * time.Hour, true},
		{"7d", 7 * 24 * time.Hour, true},
		{"0d", 0, true},
		{"-1d", 0, false},
		{"xd", 0, false},
		{"soon", 0, false},
	}
	for _, c := range cases {
		got, ok := parseDuration(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SALT_ROUNDS", "")
	t.Setenv("ACCESS_TOKEN_EXPIRES_IN", "")
	t.Setenv("RESET_PASSWORD_EXPIRES_IN", "")

	cfg := Load()
	assert.Equal(t, 10, cfg.SaltRounds)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenExpiry)
	assert.Equal(t, 15*time.Minute, cfg.ResetTokenExpiry)
	assert.Equal(t, "tokens", cfg.DynamoTables.Tokens)
	assert.False(t, cfg.TrustProxy)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SALT_ROUNDS", "12")
	t.Setenv("ACCESS_TOKEN_EXPIRES_IN", "1d")
	t.Setenv("RESET_PASSWORD_EXPIRES_IN", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("TRUST_PROXY", "true")

	cfg := Load()
	assert.Equal(t, 12, cfg.SaltRounds)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenExpiry)
	assert.Equal(t, 15*time.Minute, cfg.ResetTokenExpiry)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.TrustProxy)
}
