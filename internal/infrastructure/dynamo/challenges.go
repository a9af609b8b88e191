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

// ChallengeRepo provides typed DynamoDB operations for the challenges table.
type ChallengeRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewChallengeRepo(client *dynamodb.Client, tableName string) *ChallengeRepo {
	return &ChallengeRepo{client: client, tableName: tableName}
}

func (r *ChallengeRepo) Put(ctx context.Context, c *domain.Challenge) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ChallengeRepo) Get(ctx context.Context, challengeID string) (*domain.Challenge, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey("challenge_id", challengeID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("challenge not found: %w", domain.ErrNotFound)
	}
	var c domain.Challenge
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByChallenger queries the challenger_id GSI and filters on the started flag.
// Results are ordered oldest first.
func (r *ChallengeRepo) ListByChallenger(ctx context.Context, challengerID string, started bool) ([]domain.Challenge, error) {
	items, err := queryAll[domain.Challenge](ctx, r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("challenger_id-index"),
		KeyConditionExpression: aws.String("challenger_id = :cid"),
		FilterExpression:       aws.String("started = :s"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid": strVal(challengerID),
			":s":   &types.AttributeValueMemberBOOL{Value: started},
		},
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ChallengeID < items[j].ChallengeID })
	return items, nil
}

// Update applies a partial update; a missing record yields domain.ErrNotFound.
func (r *ChallengeRepo) Update(ctx context.Context, challengeID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC()
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("challenge_id", challengeID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(challenge_id)"),
	})
	return notFoundOnCondition(err, "challenge")
}
