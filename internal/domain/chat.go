package domain

import "time"

const (
	ChatSent      = "SENT"
	ChatDelivered = "DELIVERED"
	ChatRead      = "READ"
)

type ChatMessage struct {
	MessageID  string    `json:"id" dynamodbav:"message_id"`
	SenderID   string    `json:"sender" dynamodbav:"sender_id"`
	ReceiverID string    `json:"receiver" dynamodbav:"receiver_id"`
	Message    string    `json:"message" dynamodbav:"message"`
	State      string    `json:"state" dynamodbav:"state"`
	CreatedAt  time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

type SendChatRequest struct {
	To      string `json:"to" validate:"required"`
	Message string `json:"message" validate:"required"`
}
