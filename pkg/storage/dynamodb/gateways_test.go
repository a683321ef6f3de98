package dynamodb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListGateways(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	store := newTestStore(mockClient)

	ssl := gatewayItem{Code: "sslcommerz", Name: "SSLCommerz", IsActive: true}
	bkash := gatewayItem{Code: "bkash", Name: "bKash", IsActive: true, Credentials: []byte(`{"app_key":"k"}`)}
	mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		return aws.ToString(in.FilterExpression) == "is_active = :true"
	})).Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{marshal(t, ssl), marshal(t, bkash)}}, nil)

	gateways, err := store.ListGateways(context.Background(), true)

	require.NoError(t, err)
	require.Len(t, gateways, 2)
	assert.Equal(t, "sslcommerz", gateways[0].Code)
	assert.JSONEq(t, `{"app_key":"k"}`, string(gateways[1].Credentials))
}

func TestUpsertGateway_KeepsCreatedAt(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	store := newTestStore(mockClient)

	created := fixedNow.AddDate(-1, 0, 0)
	existing := gatewayItem{Code: "bkash", Name: "bKash", CreatedAt: timestamp(created)}
	mockClient.On("GetItem", mock.Anything, getFrom(testTables.Gateways)).Return(&dynamodb.GetItemOutput{Item: marshal(t, existing)}, nil)
	mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return in.Item["created_at"].(*types.AttributeValueMemberS).Value == formatTime(created) &&
			in.Item["updated_at"].(*types.AttributeValueMemberS).Value == formatTime(fixedNow)
	})).Return(&dynamodb.PutItemOutput{}, nil)

	gw := &models.PaymentGateway{Code: "bkash", Name: "bKash", BaseURL: "https://tokenized.sandbox.bka.sh", IsActive: true}
	require.NoError(t, store.UpsertGateway(context.Background(), gw))

	assert.True(t, created.Equal(gw.CreatedAt))
	mockClient.AssertExpectations(t)
}
