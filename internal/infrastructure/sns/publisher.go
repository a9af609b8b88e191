package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/adanest-api/internal/config"
	"github.com/adanest-api/internal/domain"
	"github.com/adanest-api/internal/infrastructure/awscfg"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// ChatPublisher announces chat events to subscribers (push gateways, websockets).
type ChatPublisher interface {
	PublishChat(ctx context.Context, event string, m *domain.ChatMessage) error
}

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type publisher struct {
	client   snsAPI
	topicARN string
}

// NewPublisher returns a publisher for cfg.ChatTopicARN, or a no-op publisher
// when no topic is configured.
func NewPublisher(ctx context.Context, cfg *config.Config) (ChatPublisher, error) {
	if cfg.ChatTopicARN == "" {
		return noopPublisher{}, nil
	}
	awsCfg, err := awscfg.Load(ctx, cfg, cfg.SNSRegion)
	if err != nil {
		return nil, err
	}
	var opts []func(*sns.Options)
	if cfg.AWSEndpointURL != "" {
		opts = append(opts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return &publisher{client: sns.NewFromConfig(awsCfg, opts...), topicARN: cfg.ChatTopicARN}, nil
}

func (p *publisher) PublishChat(ctx context.Context, event string, m *domain.ChatMessage) error {
	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal chat event: %w", err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event":    {DataType: aws.String("String"), StringValue: aws.String(event)},
			"receiver": {DataType: aws.String("String"), StringValue: aws.String(m.ReceiverID)},
		},
	})
	return err
}

type noopPublisher struct{}

func (noopPublisher) PublishChat(context.Context, string, *domain.ChatMessage) error { return nil }
