package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/adanest-api/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ReplyRepo provides typed DynamoDB operations for the replies table.
type ReplyRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewReplyRepo(client *dynamodb.Client, tableName string) *ReplyRepo {
	return &ReplyRepo{client: client, tableName: tableName}
}

func (r *ReplyRepo) Put(ctx context.Context, rp *domain.Reply) error {
	item, err := attributevalue.MarshalMap(rp)
	if err != nil {
		return fmt.Errorf("marshal reply: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ReplyRepo) Get(ctx context.Context, replyID string) (*domain.Reply, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("reply_id", replyID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("reply not found: %w", domain.ErrNotFound)
	}
	var rp domain.Reply
	if err := attributevalue.UnmarshalMap(out.Item, &rp); err != nil {
		return nil, err
	}
	return &rp, nil
}

// ListByComment returns replies to commentID, newest first.
func (r *ReplyRepo) ListByComment(ctx context.Context, commentID string) ([]domain.Reply, error) {
	return queryAll[domain.Reply](ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("comment_id-reply_id-index"),
		KeyConditionExpression:    aws.String("comment_id = :cid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":cid": strVal(commentID)},
		ScanIndexForward:          aws.Bool(false),
	})
}

func (r *ReplyRepo) UpdateContent(ctx context.Context, replyID, content string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldContent:   content,
		fieldUpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("reply_id", replyID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(reply_id)"),
	})
	return notFoundOnCondition(err, "reply")
}

func (r *ReplyRepo) Delete(ctx context.Context, replyID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("reply_id", replyID),
	})
	return err
}
