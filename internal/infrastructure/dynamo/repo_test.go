package dynamo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/lead-relay/internal/config"
	"github.com/lead-relay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAPI struct{ mock.Mock }

func (m *mockAPI) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.GetItemOutput)
	return out, args.Error(1)
}

func (m *mockAPI) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.PutItemOutput)
	return out, args.Error(1)
}

func (m *mockAPI) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.UpdateItemOutput)
	return out, args.Error(1)
}

func (m *mockAPI) CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.CreateTableOutput)
	return out, args.Error(1)
}

func TestIntegrationRepo_Get(t *testing.T) {
	api := new(mockAPI)
	item, err := attributevalue.MarshalMap(domain.Integration{Name: "hubspot", Endpoint: "https://api.example.com", LiveSync: true})
	require.NoError(t, err)
	api.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		return *in.TableName == "integrations" && in.Key["name"].(*types.AttributeValueMemberS).Value == "hubspot"
	})).Return(&dynamodb.GetItemOutput{Item: item}, nil)

	rec, err := NewIntegrationRepo(api, "integrations").Get(context.Background(), "hubspot")

	require.NoError(t, err)
	assert.True(t, rec.LiveSync)
	assert.Equal(t, "https://api.example.com", rec.Endpoint)
	api.AssertExpectations(t)
}

func TestIntegrationRepo_Get_Missing(t *testing.T) {
	api := new(mockAPI)
	api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

	_, err := NewIntegrationRepo(api, "integrations").Get(context.Background(), "zoho-crm")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIntegrationRepo_SetLiveSync_TouchesOnlyFlag(t *testing.T) {
	api := new(mockAPI)
	var got *dynamodb.UpdateItemInput
	api.On("UpdateItem", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(*dynamodb.UpdateItemInput) }).
		Return(&dynamodb.UpdateItemOutput{}, nil)

	repo := NewIntegrationRepo(api, "integrations")
	repo.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, repo.SetLiveSync(context.Background(), "hubspot", true))

	require.NotNil(t, got)
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1", *got.UpdateExpression)
	assert.Equal(t, map[string]string{"#f0": "live_sync", "#f1": "updated_at"}, got.ExpressionAttributeNames)
	assert.Equal(t, &types.AttributeValueMemberBOOL{Value: true}, got.ExpressionAttributeValues[":v0"])
}

func TestIntegrationRepo_SaveConnection(t *testing.T) {
	api := new(mockAPI)
	var got *dynamodb.UpdateItemInput
	api.On("UpdateItem", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(*dynamodb.UpdateItemInput) }).
		Return(&dynamodb.UpdateItemOutput{}, nil)

	err := NewIntegrationRepo(api, "integrations").
		SaveConnection(context.Background(), "hubspot", "https://api.example.com", map[string]string{"access_token": "t"})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"#f0": "credentials", "#f1": "endpoint", "#f2": "updated_at"}, got.ExpressionAttributeNames)
	assert.NotContains(t, got.ExpressionAttributeNames, "live_sync")
}

func TestIntegrationRepo_ClientError(t *testing.T) {
	api := new(mockAPI)
	boom := errors.New("throttled")
	api.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, boom)

	err := NewIntegrationRepo(api, "integrations").SetLiveSync(context.Background(), "hubspot", false)
	assert.ErrorIs(t, err, boom)
}

func TestWebhookConfigRepo_RoundTrip(t *testing.T) {
	api := new(mockAPI)
	var stored map[string]types.AttributeValue
	api.On("PutItem", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*dynamodb.PutItemInput).Item }).
		Return(&dynamodb.PutItemOutput{}, nil)
	repo := NewWebhookConfigRepo(api, "settings")

	require.NoError(t, repo.Put(context.Background(), &domain.WebhookConfig{URL: "https://hooks.example.com", Headers: `{"X":"1"}`}))
	assert.Equal(t, &types.AttributeValueMemberS{Value: "webhook"}, stored["key"])

	api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: stored}, nil)
	cfg, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com", cfg.URL)
	assert.Equal(t, `{"X":"1"}`, cfg.Headers)
	assert.Empty(t, cfg.Events)
}

func TestWebhookConfigRepo_Get_Missing(t *testing.T) {
	api := new(mockAPI)
	api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

	_, err := NewWebhookConfigRepo(api, "settings").Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBootstrap_IgnoresExistingTables(t *testing.T) {
	api := new(mockAPI)
	api.On("CreateTable", mock.Anything, mock.MatchedBy(func(in *dynamodb.CreateTableInput) bool {
		return *in.TableName == "integrations"
	})).Return(&dynamodb.CreateTableOutput{}, nil).Once()
	api.On("CreateTable", mock.Anything, mock.MatchedBy(func(in *dynamodb.CreateTableInput) bool {
		return *in.TableName == "settings"
	})).Return(nil, &types.ResourceInUseException{}).Once()

	Bootstrap(context.Background(), api, config.DynamoTables{Integrations: "integrations", Settings: "settings"})
	api.AssertExpectations(t)
}
