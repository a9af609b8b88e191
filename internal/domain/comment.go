package domain

import "time"

type Comment struct {
	CommentID string    `json:"id" dynamodbav:"comment_id"`
	PostID    string    `json:"post" dynamodbav:"post_id"`
	OwnerID   string    `json:"owner" dynamodbav:"owner_id"`
	Content   string    `json:"content" dynamodbav:"content"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
	PostID  string `json:"post" validate:"required"`
}

type UpdateContentRequest struct {
	Content string `json:"content" validate:"required"`
}

type Reply struct {
	ReplyID   string    `json:"id" dynamodbav:"reply_id"`
	CommentID string    `json:"comment" dynamodbav:"comment_id"`
	OwnerID   string    `json:"owner" dynamodbav:"owner_id"`
	Content   string    `json:"content" dynamodbav:"content"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

type CreateReplyRequest struct {
	Content   string `json:"content" validate:"required"`
	CommentID string `json:"comment" validate:"required"`
}
