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

// TokenRepo manages issued-token records.
// PK: token, SK: type. Records are swept by the table TTL on expires_at.
type TokenRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewTokenRepo(client *dynamodb.Client, tableName string) *TokenRepo {
	return &TokenRepo{client: client, tableName: tableName}
}

func (r *TokenRepo) Put(ctx context.Context, t *domain.IssuedToken) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Exists reports whether a record for {token, purpose} is present.
// The TTL sweep is lazy, so records past expires_at may still be returned;
// signature verification rejects those.
func (r *TokenRepo) Exists(ctx context.Context, token string, purpose domain.TokenPurpose) (bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      compositeKey("token", token, "type", string(purpose)),
		ProjectionExpression:     aws.String("#t"),
		ExpressionAttributeNames: map[string]string{"#t": "token"},
	})
	if err != nil {
		return false, err
	}
	return out.Item != nil, nil
}

func (r *TokenRepo) Delete(ctx context.Context, token string, purpose domain.TokenPurpose) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("token", token, "type", string(purpose)),
	})
	return err
}

// DeleteByUser removes every record of purpose owned by userID.
func (r *TokenRepo) DeleteByUser(ctx context.Context, userID string, purpose domain.TokenPurpose) error {
	tokens, err := queryAll[domain.IssuedToken](ctx, r.client, &dynamodb.QueryInput{
		TableName:                aws.String(r.tableName),
		IndexName:                aws.String("user_id-index"),
		KeyConditionExpression:   aws.String("user_id = :uid"),
		FilterExpression:         aws.String("#t = :type"),
		ExpressionAttributeNames: map[string]string{"#t": "type"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid":  strVal(userID),
			":type": strVal(string(purpose)),
		},
	})
	if err != nil {
		return err
	}
	for _, t := range tokens {
		if err := r.Delete(ctx, t.Token, t.Type); err != nil {
			return err
		}
	}
	return nil
}
