package domain

import "time"

// File records an uploaded media object (avatar or post cover).
type File struct {
	FileID           string    `json:"id" dynamodbav:"file_id"`
	Object           string    `json:"object" dynamodbav:"object"`
	Size             int64     `json:"size" dynamodbav:"size"`
	Type             string    `json:"type" dynamodbav:"type"`
	Name             string    `json:"name" dynamodbav:"name"`
	Hash             string    `json:"hash" dynamodbav:"hash"`
	Kind             string    `json:"kind" dynamodbav:"kind"` // "avatar" | "cover"
	URL              string    `json:"url" dynamodbav:"url"`
	UploadedByUserID string    `json:"uploaded_by" dynamodbav:"uploaded_by_user_id"`
	CreatedAt        time.Time `json:"created" dynamodbav:"created_at"`
}
