package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/adanest-api/internal/domain"
	"github.com/adanest-api/internal/pkg/id"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the JWT payload fields. The subject is the user id.
type Claims struct {
	Username string              `json:"username"`
	Type     domain.TokenPurpose `json:"type"`
	jwt.RegisteredClaims
}

// Payload converts the claims back to the identity they were issued for.
func (c *Claims) Payload() *domain.TokenPayload {
	return &domain.TokenPayload{Subject: c.Subject, Username: c.Username, Purpose: c.Type}
}

// Provider signs and verifies HS256 JWTs with a process-wide secret.
type Provider struct {
	secret []byte
	now    func() time.Time
}

func NewProvider(secret string) (*Provider, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &Provider{secret: []byte(secret), now: time.Now}, nil
}

// Sign returns a token for p valid for ttl, together with its expiry instant.
// Each token carries a unique jti so identical payloads never collide.
func (p *Provider) Sign(payload domain.TokenPayload, ttl time.Duration) (string, time.Time, error) {
	now := p.now()
	exp := now.Add(ttl)
	claims := Claims{
		Username: payload.Username,
		Type:     payload.Purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.Subject,
			ID:        id.New(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(p.now))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
