package dynamo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/adanest-api/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ChatRepo provides typed DynamoDB operations for the chats table.
type ChatRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewChatRepo(client *dynamodb.Client, tableName string) *ChatRepo {
	return &ChatRepo{client: client, tableName: tableName}
}

func (r *ChatRepo) Put(ctx context.Context, m *domain.ChatMessage) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal chat message: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ChatRepo) Get(ctx context.Context, messageID string) (*domain.ChatMessage, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("message_id", messageID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("message not found: %w", domain.ErrNotFound)
	}
	var m domain.ChatMessage
	if err := attributevalue.UnmarshalMap(out.Item, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListInvolving returns every message sent or received by userID, oldest first.
func (r *ChatRepo) ListInvolving(ctx context.Context, userID string) ([]domain.ChatMessage, error) {
	sent, err := r.queryParty(ctx, "sender_id", userID, "")
	if err != nil {
		return nil, err
	}
	received, err := r.queryParty(ctx, "receiver_id", userID, "")
	if err != nil {
		return nil, err
	}
	return mergeMessages(sent, received), nil
}

// ListConversation returns the messages exchanged between a and b, oldest first.
func (r *ChatRepo) ListConversation(ctx context.Context, a, b string) ([]domain.ChatMessage, error) {
	ab, err := r.queryParty(ctx, "sender_id", a, b)
	if err != nil {
		return nil, err
	}
	ba, err := r.queryParty(ctx, "sender_id", b, a)
	if err != nil {
		return nil, err
	}
	return mergeMessages(ab, ba), nil
}

func (r *ChatRepo) UpdateState(ctx context.Context, messageID, state string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldState:     state,
		fieldUpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("message_id", messageID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(message_id)"),
	})
	return notFoundOnCondition(err, "message")
}

func (r *ChatRepo) Delete(ctx context.Context, messageID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("message_id", messageID),
	})
	return err
}

// queryParty queries the <attr>-message_id GSI; counterpart, when set,
// restricts results to messages addressed to that receiver.
func (r *ChatRepo) queryParty(ctx context.Context, attr, userID, counterpart string) ([]domain.ChatMessage, error) {
	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(attr + "-message_id-index"),
		KeyConditionExpression:    aws.String("#p = :uid"),
		ExpressionAttributeNames:  map[string]string{"#p": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":uid": strVal(userID)},
	}
	if counterpart != "" {
		input.FilterExpression = aws.String("receiver_id = :other")
		input.ExpressionAttributeValues[":other"] = strVal(counterpart)
	}
	return queryAll[domain.ChatMessage](ctx, r.client, input)
}

func mergeMessages(a, b []domain.ChatMessage) []domain.ChatMessage {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]domain.ChatMessage, 0, len(a)+len(b))
	for _, list := range [][]domain.ChatMessage{a, b} {
		for _, m := range list {
			if _, dup := seen[m.MessageID]; dup {
				continue
			}
			seen[m.MessageID] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MessageID < out[j].MessageID })
	return out
}
