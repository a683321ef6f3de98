// Package dynamodb implements the storage interfaces on AWS DynamoDB.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/digital-wallet/pkg/storage"
)

// DynamoDBAPI is the part of the DynamoDB client the store calls.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Tables holds the table names the store uses.
type Tables struct {
	Transactions   string
	PaymentMethods string
	BankAccounts   string
	// InstrumentDefaults holds one item per user naming the default payment
	// method and the primary bank account.
	InstrumentDefaults string
	Bills              string
	ScheduledPayments  string
	Gateways           string
	Connections        string
}

// TablesWithPrefix returns the standard table names behind prefix, e.g. "wallet-dev-".
func TablesWithPrefix(prefix string) Tables {
	return Tables{
		Transactions:       prefix + "transactions",
		PaymentMethods:     prefix + "payment-methods",
		BankAccounts:       prefix + "bank-accounts",
		InstrumentDefaults: prefix + "instrument-defaults",
		Bills:              prefix + "bills",
		ScheduledPayments:  prefix + "scheduled-payments",
		Gateways:           prefix + "payment-gateways",
		Connections:        prefix + "websocket-connections",
	}
}

// Global secondary indexes.
const (
	userIndex            = "user_id-index"
	userCreatedIndex     = "user_id-created_at-index"
	tokenIndex           = "transaction_id-index"
	referenceIndex       = "reference_id-index"
	statusCreatedIndex   = "status-created_at-index"
	bankAccountIndex     = "bank_account_id-index"
	statusNextRunIndex   = "status-next_scheduled-index"
	defaultConnectionTTL = 2 * time.Hour
)

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client DynamoDBAPI
	Tables Tables
	// ConnectionTTL bounds how long a websocket connection record outlives a missed $disconnect.
	ConnectionTTL time.Duration

	now func() time.Time
}

// New creates a new Store.
func New(client DynamoDBAPI, tables Tables) *Store {
	return &Store{Client: client, Tables: tables, ConnectionTTL: defaultConnectionTTL}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

func key(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{name: &types.AttributeValueMemberS{Value: value}}
}

func str(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

// getItem loads the item under k into out. Missing items yield storage.ErrNotFound.
func (s *Store) getItem(ctx context.Context, table string, k map[string]types.AttributeValue, out interface{}) error {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       k,
	})
	if err != nil {
		return fmt.Errorf("failed to get item from %s: %w", table, err)
	}
	if result.Item == nil {
		return storage.ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(result.Item, out); err != nil {
		return fmt.Errorf("failed to unmarshal item from %s: %w", table, err)
	}
	return nil
}

// queryAll runs input across every page and unmarshals the items into out.
func (s *Store) queryAll(ctx context.Context, input *dynamodb.QueryInput, out interface{}) error {
	var items []map[string]types.AttributeValue
	for {
		page, err := s.Client.Query(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to query %s: %w", aws.ToString(input.TableName), err)
		}
		items = append(items, page.Items...)
		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = page.LastEvaluatedKey
	}
	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("failed to unmarshal items from %s: %w", aws.ToString(input.TableName), err)
	}
	return nil
}

// queryFirst returns the first item input matches, or storage.ErrNotFound.
func (s *Store) queryFirst(ctx context.Context, input *dynamodb.QueryInput, out interface{}) error {
	input.Limit = aws.Int32(1)
	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", aws.ToString(input.TableName), err)
	}
	if len(result.Items) == 0 {
		return storage.ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(result.Items[0], out); err != nil {
		return fmt.Errorf("failed to unmarshal item from %s: %w", aws.ToString(input.TableName), err)
	}
	return nil
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// failedCondition returns the index of the first transact item whose condition
// failed, or -1 when err is not a conditional cancellation.
func failedCondition(err error) int {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return -1
	}
	for i, reason := range tce.CancellationReasons {
		if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
			return i
		}
	}
	return -1
}
