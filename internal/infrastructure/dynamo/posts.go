package dynamo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adanest-api/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PostRepo provides typed DynamoDB operations for the posts table.
type PostRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPostRepo(client *dynamodb.Client, tableName string) *PostRepo {
	return &PostRepo{client: client, tableName: tableName}
}

func (r *PostRepo) Put(ctx context.Context, p *domain.Post) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal post: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PostRepo) Get(ctx context.Context, postID string) (*domain.Post, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("post_id", postID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("post not found: %w", domain.ErrNotFound)
	}
	var p domain.Post
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// IncrementVisitor atomically bumps the visitor counter and returns the updated post.
func (r *PostRepo) IncrementVisitor(ctx context.Context, postID string) (*domain.Post, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      strKey("post_id", postID),
		UpdateExpression:         aws.String("ADD #v :one"),
		ConditionExpression:      aws.String("attribute_exists(post_id)"),
		ExpressionAttributeNames: map[string]string{"#v": fieldVisitor},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, notFoundOnCondition(err, "post")
	}
	var p domain.Post
	if err := attributevalue.UnmarshalMap(out.Attributes, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByType queries the type-index GSI, newest first.
func (r *PostRepo) ListByType(ctx context.Context, postType string) ([]domain.Post, error) {
	return queryAll[domain.Post](ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("type-index"),
		KeyConditionExpression:    aws.String("#t = :t"),
		ExpressionAttributeNames:  map[string]string{"#t": "type"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":t": strVal(postType)},
		ScanIndexForward:          aws.Bool(false),
	})
}

// Search returns posts of q.Type whose title or content contains q.Q,
// optionally restricted to q.Owner. Ordering and paging are left to the caller.
func (r *PostRepo) Search(ctx context.Context, q domain.PostQuery) ([]domain.Post, error) {
	names := map[string]string{"#t": "type"}
	values := map[string]types.AttributeValue{":t": strVal(q.Type)}
	var filters []string
	if q.Q != "" {
		names["#title"] = "title"
		names["#content"] = fieldContent
		values[":q"] = strVal(q.Q)
		filters = append(filters, "(contains(#title, :q) OR contains(#content, :q))")
	}
	if q.Owner != "" {
		values[":owner"] = strVal(q.Owner)
		filters = append(filters, "owner_id = :owner")
	}
	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("type-index"),
		KeyConditionExpression:    aws.String("#t = :t"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}
	if len(filters) > 0 {
		input.FilterExpression = aws.String(strings.Join(filters, " AND "))
	}
	return queryAll[domain.Post](ctx, r.client, input)
}

func (r *PostRepo) Update(ctx context.Context, postID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC()
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("post_id", postID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(post_id)"),
	})
	return notFoundOnCondition(err, "post")
}

func (r *PostRepo) Delete(ctx context.Context, postID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("post_id", postID),
	})
	return err
}
