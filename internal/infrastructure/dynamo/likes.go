package dynamo

import (
	"context"
	"fmt"

	"github.com/adanest-api/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// LikeRepo manages likes. PK: post_id, SK: owner_id.
type LikeRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewLikeRepo(client *dynamodb.Client, tableName string) *LikeRepo {
	return &LikeRepo{client: client, tableName: tableName}
}

// Put fails with domain.ErrConflict when the owner already likes the post.
func (r *LikeRepo) Put(ctx context.Context, l *domain.Like) error {
	item, err := attributevalue.MarshalMap(l)
	if err != nil {
		return fmt.Errorf("marshal like: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(owner_id)"),
	})
	return conflictOnCondition(err, "like")
}

func (r *LikeRepo) Exists(ctx context.Context, postID, ownerID string) (bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("post_id", postID, "owner_id", ownerID),
	})
	if err != nil {
		return false, err
	}
	return out.Item != nil, nil
}

// Delete removes the like and reports whether one existed.
func (r *LikeRepo) Delete(ctx context.Context, postID, ownerID string) (bool, error) {
	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.tableName),
		Key:          compositeKey("post_id", postID, "owner_id", ownerID),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, err
	}
	return len(out.Attributes) > 0, nil
}

func (r *LikeRepo) Count(ctx context.Context, postID string) (int, error) {
	p := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
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
