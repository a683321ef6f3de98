package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage"
)

// CreateTransaction writes the transaction and, when asked, flips its bill to
// pending in a single TransactWriteItems call.
func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction, opts storage.CreateOptions) error {
	txAV, err := attributevalue.MarshalMap(toTransactionItem(tx))
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(s.Tables.Transactions),
				Item:                txAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		},
	}
	if opts.MarkBillPending && tx.BillID != nil && *tx.BillID != "" {
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName:           aws.String(s.Tables.Bills),
				Key:                 key("id", *tx.BillID),
				UpdateExpression:    aws.String("SET payment_status = :pending, updated_at = :now"),
				ConditionExpression: aws.String("attribute_exists(id)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":pending": str(string(models.BillPending)),
					":now":     str(formatTime(tx.UpdatedAt)),
				},
			},
		})
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		switch failedCondition(err) {
		case 0:
			return storage.ErrDuplicate
		case 1:
			return fmt.Errorf("bill %s: %w", *tx.BillID, storage.ErrNotFound)
		}
		return fmt.Errorf("failed to execute transaction: %w", err)
	}
	return nil
}

// UpdateTransactionStatus applies update only while the stored status is still update.From.
func (s *Store) UpdateTransactionStatus(ctx context.Context, update storage.StatusUpdate) error {
	expr := "SET #status = :to, updated_at = :now"
	values := map[string]types.AttributeValue{
		":to":   str(string(update.To)),
		":from": str(string(update.From)),
		":now":  str(formatTime(s.clock())),
	}
	if update.GatewayReference != "" {
		expr += ", gateway_reference = :ref"
		values[":ref"] = str(update.GatewayReference)
	}
	if len(update.ResponseData) > 0 {
		expr += ", response_data = :raw"
		values[":raw"] = &types.AttributeValueMemberB{Value: update.ResponseData}
	}
	if update.ProcessedAt != nil {
		expr += ", processed_at = :processed"
		values[":processed"] = str(formatTime(*update.ProcessedAt))
	}

	_, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.Tables.Transactions),
		Key:                       key("id", update.ID),
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("attribute_exists(id) AND #status = :from"),
		ExpressionAttributeNames:  map[string]string{"#status": "status"},
		ExpressionAttributeValues: values,
	})
	if err != nil {
		if isConditionFailed(err) {
			return storage.ErrStatusConflict
		}
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction from DynamoDB by its row ID.
func (s *Store) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var item transactionItem
	if err := s.getItem(ctx, s.Tables.Transactions, key("id", id), &item); err != nil {
		return nil, err
	}
	tx := item.model()
	return &tx, nil
}

// GetTransactionByToken retrieves a transaction by its public token.
func (s *Store) GetTransactionByToken(ctx context.Context, token string) (*models.Transaction, error) {
	return s.transactionBy(ctx, tokenIndex, "transaction_id", token)
}

// GetTransactionByReference retrieves a transaction by the provider payment id.
func (s *Store) GetTransactionByReference(ctx context.Context, referenceID string) (*models.Transaction, error) {
	if referenceID == "" {
		return nil, storage.ErrNotFound
	}
	return s.transactionBy(ctx, referenceIndex, "reference_id", referenceID)
}

func (s *Store) transactionBy(ctx context.Context, index, attr, value string) (*models.Transaction, error) {
	var item transactionItem
	err := s.queryFirst(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.Tables.Transactions),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String(attr + " = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": str(value)},
	}, &item)
	if err != nil {
		return nil, err
	}
	tx := item.model()
	return &tx, nil
}

// ListTransactionsByUserID retrieves a user's transactions, newest first.
func (s *Store) ListTransactionsByUserID(ctx context.Context, userID string, filter storage.TransactionFilter) ([]models.Transaction, error) {
	var items []transactionItem
	err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.Tables.Transactions),
		IndexName:                 aws.String(userCreatedIndex),
		KeyConditionExpression:    aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":uid": str(userID)},
		ScanIndexForward:          aws.Bool(false),
	}, &items)
	if err != nil {
		return nil, err
	}

	transactions := make([]models.Transaction, 0, len(items))
	for _, item := range items {
		tx := item.model()
		if filter.Matches(&tx) {
			transactions = append(transactions, tx)
		}
	}
	return transactions, nil
}

// GetStalePendingTransactions returns pending transactions with a provider
// reference created before now minus maxAge.
func (s *Store) GetStalePendingTransactions(ctx context.Context, maxAge time.Duration) ([]models.Transaction, error) {
	cutoff := s.clock().Add(-maxAge)

	var items []transactionItem
	err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Transactions),
		IndexName:              aws.String(statusCreatedIndex),
		KeyConditionExpression: aws.String("#status = :status AND created_at < :cutoff"),
		FilterExpression:       aws.String("attribute_exists(reference_id)"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": str(string(models.StatusPending)),
			":cutoff": str(formatTime(cutoff)),
		},
	}, &items)
	if err != nil {
		return nil, err
	}

	transactions := make([]models.Transaction, len(items))
	for i, item := range items {
		transactions[i] = item.model()
	}
	return transactions, nil
}

// BankAccountHasTransactions reports whether any transaction references the bank account.
func (s *Store) BankAccountHasTransactions(ctx context.Context, bankAccountID string) (bool, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.Tables.Transactions),
		IndexName:                 aws.String(bankAccountIndex),
		KeyConditionExpression:    aws.String("bank_account_id = :ba"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":ba": str(bankAccountID)},
		Select:                    types.SelectCount,
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return false, fmt.Errorf("failed to query transactions by bank account: %w", err)
	}
	return result.Count > 0, nil
}
