package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/lead-relay/internal/domain"
)

const webhookSettingsKey = "webhook"

// settingsItem is the webhook config as stored in the settings table.
type settingsItem struct {
	Key     string   `dynamodbav:"key"`
	URL     string   `dynamodbav:"url"`
	Headers string   `dynamodbav:"headers"`
	Events  []string `dynamodbav:"events"`
}

// WebhookConfigRepo keeps the webhook config as a single item.
// PK: key
type WebhookConfigRepo struct {
	client    API
	tableName string
}

func NewWebhookConfigRepo(client API, tableName string) *WebhookConfigRepo {
	return &WebhookConfigRepo{client: client, tableName: tableName}
}

func (r *WebhookConfigRepo) Get(ctx context.Context) (*domain.WebhookConfig, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey("key", webhookSettingsKey),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("webhook config: %w", domain.ErrNotFound)
	}
	var it settingsItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshal webhook config: %w", err)
	}
	return &domain.WebhookConfig{URL: it.URL, Headers: it.Headers, Events: it.Events}, nil
}

func (r *WebhookConfigRepo) Put(ctx context.Context, cfg *domain.WebhookConfig) error {
	events := cfg.Events
	if events == nil {
		events = []string{}
	}
	item, err := attributevalue.MarshalMap(settingsItem{
		Key:     webhookSettingsKey,
		URL:     cfg.URL,
		Headers: cfg.Headers,
		Events:  events,
	})
	if err != nil {
		return fmt.Errorf("marshal webhook config: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}
