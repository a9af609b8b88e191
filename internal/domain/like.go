package domain

import "time"

// Like is keyed by post_id (PK) and owner_id (SK); at most one per user and post.
type Like struct {
	PostID    string    `json:"post" dynamodbav:"post_id"`
	OwnerID   string    `json:"owner" dynamodbav:"owner_id"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"created_at"`
}
