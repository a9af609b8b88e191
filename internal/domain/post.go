package domain

import "time"

const (
	PostTypeForum = "forum"
	PostTypeBlog  = "blog"
)

type Post struct {
	PostID    string    `json:"id" dynamodbav:"post_id"`
	OwnerID   string    `json:"owner" dynamodbav:"owner_id"`
	Title     string    `json:"title" dynamodbav:"title"`
	Content   string    `json:"content" dynamodbav:"content"`
	Cover     string    `json:"cover" dynamodbav:"cover"`
	Type      string    `json:"type" dynamodbav:"type"`
	Visitor   int       `json:"visitor" dynamodbav:"visitor"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

type CreatePostRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Cover   string `json:"cover" validate:"required,url"`
	Type    string `json:"type" validate:"omitempty,oneof=forum blog"`
}

type UpdatePostRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1"`
	Content *string `json:"content" validate:"omitempty,min=1"`
	Cover   *string `json:"cover" validate:"omitempty,url"`
	Type    *string `json:"type" validate:"omitempty,oneof=forum blog"`
}

// PostQuery filters a post search. Zero values mean "no constraint",
// except Type which defaults to blog.
type PostQuery struct {
	Q         string
	Owner     string
	Type      string
	SortField string
	Desc      bool
	Offset    int
	Limit     int
}
