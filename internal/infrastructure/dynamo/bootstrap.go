package dynamo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/adanest-api/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Bootstrap creates all DynamoDB tables and GSIs if they don't already exist.
// Safe to call on every startup; existing tables are skipped.
func Bootstrap(ctx context.Context, client *dynamodb.Client, tables config.DynamoTables) {
	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Users),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs("user_id", "username", "email", "role"),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("user_id"), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi("username-index", "username", ""),
			gsi("email-index", "email", ""),
			gsi("role-index", "role", ""),
		},
	})

	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Tokens),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs("token", "type", "user_id"),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("token"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("type"), KeyType: types.KeyTypeRange},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi("user_id-index", "user_id", ""),
		},
	})
	enableTTL(ctx, client, tables.Tokens, "expires_at")

	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Challenges),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs("challenge_id", "challenger_id"),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("challenge_id"), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi("challenger_id-index", "challenger_id", ""),
		},
	})

	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Posts),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs("post_id", "type"),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("post_id"), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi("type-index", "type", "post_id"),
		},
	})

	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Comments),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs("comment_id", "post_id"),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("comment_id"), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi("post_id-comment_id-index", "post_id", "comment_id"),
		},
	})

	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Replies),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs("reply_id", "comment_id"),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("reply_id"), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi("comment_id-reply_id-index", "comment_id", "reply_id"),
		},
	})

	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Likes),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs("post_id", "owner_id"),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("post_id"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("owner_id"), KeyType: types.KeyTypeRange},
		},
	})

	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Chats),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs("message_id", "sender_id", "receiver_id"),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("message_id"), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi("sender_id-message_id-index", "sender_id", "message_id"),
			gsi("receiver_id-message_id-index", "receiver_id", "message_id"),
		},
	})

	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Files),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs("file_id", "uploaded_by_user_id"),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("file_id"), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi("uploaded_by_user_id-index", "uploaded_by_user_id", ""),
		},
	})
}

// attrs declares string-typed key attributes.
func attrs(names ...string) []types.AttributeDefinition {
	defs := make([]types.AttributeDefinition, len(names))
	for i, n := range names {
		defs[i] = types.AttributeDefinition{AttributeName: aws.String(n), AttributeType: types.ScalarAttributeTypeS}
	}
	return defs
}

// gsi builds a GSI descriptor. If sortKey is empty, only a hash key is added.
func gsi(indexName, hashKey, sortKey string) types.GlobalSecondaryIndex {
	ks := []types.KeySchemaElement{
		{AttributeName: aws.String(hashKey), KeyType: types.KeyTypeHash},
	}
	if sortKey != "" {
		ks = append(ks, types.KeySchemaElement{
			AttributeName: aws.String(sortKey), KeyType: types.KeyTypeRange,
		})
	}
	return types.GlobalSecondaryIndex{
		IndexName:  aws.String(indexName),
		KeySchema:  ks,
		Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
	}
}

func createTable(ctx context.Context, client *dynamodb.Client, input *dynamodb.CreateTableInput) {
	_, err := client.CreateTable(ctx, input)
	if err != nil {
		// ResourceInUseException means the table already exists.
		var riue *types.ResourceInUseException
		if !errors.As(err, &riue) {
			slog.Warn("could not create table", "table", *input.TableName, "err", err)
		}
	} else {
		slog.Info("created table", "table", *input.TableName)
	}
}

func enableTTL(ctx context.Context, client *dynamodb.Client, tableName, ttlAttr string) {
	_, err := client.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(tableName),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			Enabled:       aws.Bool(true),
			AttributeName: aws.String(ttlAttr),
		},
	})
	if err != nil {
		slog.Warn("could not enable TTL", "table", tableName, "err", err)
	}
}
