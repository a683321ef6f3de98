package dynamodb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage"
	"github.com/chris/digital-wallet/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func defaultsOutput(t *testing.T, d instrumentDefaults) *dynamodb.GetItemOutput {
	return &dynamodb.GetItemOutput{Item: marshal(t, d)}
}

func TestCreatePaymentMethod(t *testing.T) {
	pm := &models.PaymentMethod{ID: "pm-1", UserID: "user-1", PaymentGatewayCode: "bkash", Name: "bKash", Type: models.MethodMFS, IsActive: true}

	t.Run("First becomes default", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			update := in.TransactItems[1].Update
			return aws.ToString(update.UpdateExpression) == "SET #attr = if_not_exists(#attr, :id)" &&
				update.ExpressionAttributeNames["#attr"] == defaultMethodAttr
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)
		mockClient.On("GetItem", mock.Anything, getFrom(testTables.InstrumentDefaults)).
			Return(defaultsOutput(t, instrumentDefaults{UserID: "user-1", DefaultPaymentMethodID: "pm-1"}), nil)

		created := *pm
		require.NoError(t, store.CreatePaymentMethod(context.Background(), &created))

		assert.True(t, created.IsDefault)
		mockClient.AssertExpectations(t)
	})

	t.Run("Later ones are not", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(&dynamodb.TransactWriteItemsOutput{}, nil)
		mockClient.On("GetItem", mock.Anything, getFrom(testTables.InstrumentDefaults)).
			Return(defaultsOutput(t, instrumentDefaults{UserID: "user-1", DefaultPaymentMethodID: "pm-0"}), nil)

		created := *pm
		require.NoError(t, store.CreatePaymentMethod(context.Background(), &created))

		assert.False(t, created.IsDefault)
	})
}

func TestListPaymentMethods(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	store := newTestStore(mockClient)

	older := paymentMethodItem{ID: "pm-1", UserID: "user-1", Name: "Visa", CreatedAt: timestamp(fixedNow.AddDate(0, -1, 0))}
	chosen := paymentMethodItem{ID: "pm-2", UserID: "user-1", Name: "bKash", CreatedAt: timestamp(fixedNow)}
	mockClient.On("Query", mock.Anything, queryOn(userIndex)).Return(&dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{marshal(t, older), marshal(t, chosen)},
	}, nil)
	mockClient.On("GetItem", mock.Anything, getFrom(testTables.InstrumentDefaults)).
		Return(defaultsOutput(t, instrumentDefaults{UserID: "user-1", DefaultPaymentMethodID: "pm-2"}), nil)

	methods, err := store.ListPaymentMethods(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, methods, 2)
	assert.Equal(t, "pm-2", methods[0].ID)
	assert.True(t, methods[0].IsDefault)
	assert.False(t, methods[1].IsDefault)
}

func TestSetDefaultPaymentMethod(t *testing.T) {
	item := paymentMethodItem{ID: "pm-2", UserID: "user-1", IsActive: true}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("GetItem", mock.Anything, getFrom(testTables.PaymentMethods)).Return(&dynamodb.GetItemOutput{Item: marshal(t, item)}, nil)
		mockClient.On("GetItem", mock.Anything, getFrom(testTables.InstrumentDefaults)).Return(&dynamodb.GetItemOutput{}, nil)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			check, update := in.TransactItems[0].ConditionCheck, in.TransactItems[1].Update
			return aws.ToString(check.TableName) == testTables.PaymentMethods &&
				aws.ToString(update.UpdateExpression) == "SET #attr = :id"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		assert.NoError(t, store.SetDefaultPaymentMethod(context.Background(), "user-1", "pm-2"))
		mockClient.AssertExpectations(t)
	})

	t.Run("Inactive", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		inactive := item
		inactive.IsActive = false
		mockClient.On("GetItem", mock.Anything, getFrom(testTables.PaymentMethods)).Return(&dynamodb.GetItemOutput{Item: marshal(t, inactive)}, nil)
		mockClient.On("GetItem", mock.Anything, getFrom(testTables.InstrumentDefaults)).Return(&dynamodb.GetItemOutput{}, nil)

		err := store.SetDefaultPaymentMethod(context.Background(), "user-1", "pm-2")

		assert.ErrorIs(t, err, storage.ErrInstrumentInactive)
		mockClient.AssertNotCalled(t, "TransactWriteItems", mock.Anything, mock.Anything)
	})

	t.Run("Other user", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("GetItem", mock.Anything, getFrom(testTables.PaymentMethods)).Return(&dynamodb.GetItemOutput{Item: marshal(t, item)}, nil)
		mockClient.On("GetItem", mock.Anything, getFrom(testTables.InstrumentDefaults)).Return(&dynamodb.GetItemOutput{}, nil)

		err := store.SetDefaultPaymentMethod(context.Background(), "user-2", "pm-2")

		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestDeletePaymentMethod(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"Success", nil, nil},
		{"Default", canceled("ConditionalCheckFailed", "None"), storage.ErrDefaultInstrument},
		{"Missing", canceled("None", "ConditionalCheckFailed"), storage.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := new(mocks.DynamoDBAPI)
			store := newTestStore(mockClient)
			var out *dynamodb.TransactWriteItemsOutput
			if tt.err == nil {
				out = &dynamodb.TransactWriteItemsOutput{}
			}
			mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(out, tt.err)

			err := store.DeletePaymentMethod(context.Background(), "user-1", "pm-1")

			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestDeleteBankAccount(t *testing.T) {
	primary := bankAccountItem{ID: "ba-1", UserID: "user-1", IsActive: true, CreatedAt: timestamp(fixedNow.AddDate(0, -2, 0))}
	inactive := bankAccountItem{ID: "ba-2", UserID: "user-1", IsActive: false, CreatedAt: timestamp(fixedNow.AddDate(0, -1, 0))}
	other := bankAccountItem{ID: "ba-3", UserID: "user-1", IsActive: true, CreatedAt: timestamp(fixedNow)}
	accounts := &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
		marshal(t, primary), marshal(t, inactive), marshal(t, other),
	}}

	t.Run("Primary promotes next active", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("Query", mock.Anything, queryOn(bankAccountIndex)).Return(&dynamodb.QueryOutput{Count: 0}, nil)
		mockClient.On("Query", mock.Anything, queryOn(userIndex)).Return(accounts, nil)
		mockClient.On("GetItem", mock.Anything, getFrom(testTables.InstrumentDefaults)).
			Return(defaultsOutput(t, instrumentDefaults{UserID: "user-1", PrimaryBankAccountID: "ba-1"}), nil)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			update := in.TransactItems[1].Update
			if update == nil {
				return false
			}
			next := update.ExpressionAttributeValues[":next"].(*types.AttributeValueMemberS).Value
			return aws.ToString(update.UpdateExpression) == "SET #attr = :next" && next == "ba-3"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		assert.NoError(t, store.DeleteBankAccount(context.Background(), "user-1", "ba-1"))
		mockClient.AssertExpectations(t)
	})

	t.Run("Non primary guards the defaults", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("Query", mock.Anything, queryOn(bankAccountIndex)).Return(&dynamodb.QueryOutput{Count: 0}, nil)
		mockClient.On("Query", mock.Anything, queryOn(userIndex)).Return(accounts, nil)
		mockClient.On("GetItem", mock.Anything, getFrom(testTables.InstrumentDefaults)).
			Return(defaultsOutput(t, instrumentDefaults{UserID: "user-1", PrimaryBankAccountID: "ba-1"}), nil)
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			return in.TransactItems[1].ConditionCheck != nil
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		assert.NoError(t, store.DeleteBankAccount(context.Background(), "user-1", "ba-3"))
		mockClient.AssertExpectations(t)
	})

	t.Run("In use", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)
		mockClient.On("Query", mock.Anything, queryOn(bankAccountIndex)).Return(&dynamodb.QueryOutput{Count: 1}, nil)

		err := store.DeleteBankAccount(context.Background(), "user-1", "ba-1")

		assert.ErrorIs(t, err, storage.ErrInstrumentInUse)
		mockClient.AssertNotCalled(t, "TransactWriteItems", mock.Anything, mock.Anything)
	})

	t.Run("Unknown account", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)
		mockClient.On("Query", mock.Anything, queryOn(bankAccountIndex)).Return(&dynamodb.QueryOutput{Count: 0}, nil)
		mockClient.On("Query", mock.Anything, queryOn(userIndex)).Return(accounts, nil)
		mockClient.On("GetItem", mock.Anything, getFrom(testTables.InstrumentDefaults)).Return(&dynamodb.GetItemOutput{}, nil)

		err := store.DeleteBankAccount(context.Background(), "user-1", "ba-9")

		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestUpdateBankAccount_Missing(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	store := newTestStore(mockClient)
	mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

	err := store.UpdateBankAccount(context.Background(), &models.BankAccount{ID: "ba-1", UserID: "user-1", IsActive: true})

	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateBankAccount_Deactivate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"Success", nil, nil},
		{"Missing", canceled("ConditionalCheckFailed", "None"), storage.ErrNotFound},
		{"Primary", canceled("None", "ConditionalCheckFailed"), storage.ErrDefaultInstrument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := new(mocks.DynamoDBAPI)
			store := newTestStore(mockClient)
			var out *dynamodb.TransactWriteItemsOutput
			if tt.err == nil {
				out = &dynamodb.TransactWriteItemsOutput{}
			}
			mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
				return len(in.TransactItems) == 2 && in.TransactItems[1].ConditionCheck != nil
			})).Return(out, tt.err)

			err := store.UpdateBankAccount(context.Background(), &models.BankAccount{ID: "ba-1", UserID: "user-1"})

			if tt.want == nil {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
			mockClient.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything)
		})
	}
}
