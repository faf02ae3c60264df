package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/lead-relay/internal/domain"
)

// IntegrationRepo stores one item per integration.
// PK: name
type IntegrationRepo struct {
	client    API
	tableName string
	now       func() time.Time
}

func NewIntegrationRepo(client API, tableName string) *IntegrationRepo {
	return &IntegrationRepo{client: client, tableName: tableName, now: func() time.Time { return time.Now().UTC() }}
}

func (r *IntegrationRepo) Get(ctx context.Context, name string) (*domain.Integration, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey("name", name),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("integration %s: %w", name, domain.ErrNotFound)
	}
	var in domain.Integration
	if err := attributevalue.UnmarshalMap(out.Item, &in); err != nil {
		return nil, fmt.Errorf("unmarshal integration: %w", err)
	}
	return &in, nil
}

// SetLiveSync writes the flag alone; UpdateItem creates the item when absent.
func (r *IntegrationRepo) SetLiveSync(ctx context.Context, name string, enabled bool) error {
	return r.update(ctx, name, map[string]any{
		"live_sync":  enabled,
		"updated_at": r.now(),
	})
}

func (r *IntegrationRepo) SaveConnection(ctx context.Context, name, endpoint string, credentials map[string]string) error {
	if credentials == nil {
		credentials = map[string]string{}
	}
	return r.update(ctx, name, map[string]any{
		"endpoint":    endpoint,
		"credentials": credentials,
		"updated_at":  r.now(),
	})
}

func (r *IntegrationRepo) update(ctx context.Context, name string, fields map[string]any) error {
	ue, err := buildUpdateExpr(fields)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("name", name),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
