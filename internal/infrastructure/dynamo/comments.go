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

// CommentRepo provides typed DynamoDB operations for the comments table.
type CommentRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCommentRepo(client *dynamodb.Client, tableName string) *CommentRepo {
	return &CommentRepo{client: client, tableName: tableName}
}

func (r *CommentRepo) Put(ctx context.Context, c *domain.Comment) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal comment: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *CommentRepo) Get(ctx context.Context, commentID string) (*domain.Comment, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("comment_id", commentID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("comment not found: %w", domain.ErrNotFound)
	}
	var c domain.Comment
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepo) Scan(ctx context.Context) ([]domain.Comment, error) {
	return scanAll[domain.Comment](ctx, r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
}

// ListByPost queries the post_id GSI. The sort key is the ULID comment_id,
// so descending order is newest first.
func (r *CommentRepo) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	return queryAll[domain.Comment](ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("post_id-comment_id-index"),
		KeyConditionExpression:    aws.String("post_id = :pid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":pid": strVal(postID)},
		ScanIndexForward:          aws.Bool(false),
	})
}

func (r *CommentRepo) CountByPost(ctx context.Context, postID string) (int, error) {
	p := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("post_id-comment_id-index"),
		KeyConditionExpression:    aws.String("post_id = :pid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":pid": strVal(postID)},
		Select:                    types.SelectCount,
	})
	total := 0
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		total += int(out.Count)
	}
	return total, nil
}

func (r *CommentRepo) UpdateContent(ctx context.Context, commentID, content string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldContent:   content,
		fieldUpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("comment_id", commentID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(comment_id)"),
	})
	return notFoundOnCondition(err, "comment")
}

func (r *CommentRepo) Delete(ctx context.Context, commentID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("comment_id", commentID),
	})
	return err
}
