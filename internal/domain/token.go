package domain

import "time"

// TokenPurpose constrains which verification check accepts a token.
type TokenPurpose string

const (
	TokenAccess        TokenPurpose = "ACCESS"
	TokenResetPassword TokenPurpose = "RESET_PASSWORD"
)

// IssuedToken is the server-side record of a signed token.
// PK: token, SK: type. ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type IssuedToken struct {
	Token     string       `json:"token" dynamodbav:"token"`
	Type      TokenPurpose `json:"type" dynamodbav:"type"`
	UserID    string       `json:"user_id" dynamodbav:"user_id"`
	ExpiresAt int64        `json:"expires_at" dynamodbav:"expires_at"`
	CreatedAt time.Time    `json:"created" dynamodbav:"created_at"`
}

// TokenPayload is the identity carried inside a signed token.
type TokenPayload struct {
	Subject  string       `json:"sub"`
	Username string       `json:"username"`
	Purpose  TokenPurpose `json:"type"`
}
