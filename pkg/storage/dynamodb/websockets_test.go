package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/digital-wallet/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAddConnection(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)
		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			var conn WebSocketConnection
			if err := attributevalue.UnmarshalMap(in.Item, &conn); err != nil {
				return false
			}
			return conn.UserID == "user-1" && conn.ConnectionID == "conn-1" &&
				conn.TTL == fixedNow.Add(defaultConnectionTTL).Unix()
		})).Return(&dynamodb.PutItemOutput{}, nil)

		assert.NoError(t, store.AddConnection(context.Background(), "user-1", "conn-1"))
		mockClient.AssertExpectations(t)
	})

	t.Run("Failure", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		err := store.AddConnection(context.Background(), "user-1", "conn-1")

		assert.ErrorContains(t, err, "failed to put item")
	})
}

func TestGetConnections(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	store := newTestStore(mockClient)
	mockClient.On("Query", mock.Anything, queryOn(userIndex)).Return(&dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{
			marshal(t, WebSocketConnection{ConnectionID: "a", UserID: "user-1"}),
			marshal(t, WebSocketConnection{ConnectionID: "b", UserID: "user-1"}),
		},
	}, nil)

	ids, err := store.GetConnections(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}
