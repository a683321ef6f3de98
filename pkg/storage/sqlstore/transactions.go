package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateTransaction inserts tx and applies opts in one database transaction.
func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction, opts storage.CreateOptions) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if err := db.Create(tx).Error; err != nil {
			return fmt.Errorf("failed to insert transaction: %w", translate(err))
		}
		if !opts.MarkBillPending || tx.BillID == nil || *tx.BillID == "" {
			return nil
		}
		res := db.Model(&models.Bill{}).Where("id = ?", *tx.BillID).Update("payment_status", models.BillPending)
		if res.Error != nil {
			return fmt.Errorf("failed to mark bill pending: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("bill %s: %w", *tx.BillID, storage.ErrNotFound)
		}
		return nil
	})
}

// UpdateTransactionStatus applies update only while the stored status is still update.From.
func (s *Store) UpdateTransactionStatus(ctx context.Context, update storage.StatusUpdate) error {
	fields := map[string]interface{}{
		"status":     update.To,
		"updated_at": s.now(),
	}
	if update.GatewayReference != "" {
		fields["gateway_reference"] = update.GatewayReference
	}
	if len(update.ResponseData) > 0 {
		fields["response_data"] = datatypes.JSON(update.ResponseData)
	}
	if update.ProcessedAt != nil {
		fields["processed_at"] = update.ProcessedAt.UTC()
	}

	res := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND status = ?", update.ID, update.From).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update transaction status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrStatusConflict
	}
	return nil
}

// GetTransaction retrieves a transaction by its row ID.
func (s *Store) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	return s.firstTransaction(ctx, "id = ?", id)
}

// GetTransactionByToken retrieves a transaction by its public token.
func (s *Store) GetTransactionByToken(ctx context.Context, token string) (*models.Transaction, error) {
	return s.firstTransaction(ctx, "transaction_id = ?", token)
}

// GetTransactionByReference retrieves a transaction by the provider payment id.
func (s *Store) GetTransactionByReference(ctx context.Context, referenceID string) (*models.Transaction, error) {
	if referenceID == "" {
		return nil, storage.ErrNotFound
	}
	return s.firstTransaction(ctx, "reference_id = ?", referenceID)
}

func (s *Store) firstTransaction(ctx context.Context, query string, arg string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.WithContext(ctx).Where(query, arg).First(&tx).Error; err != nil {
		return nil, translate(err)
	}
	return &tx, nil
}

// ListTransactionsByUserID retrieves a user's transactions, newest first.
func (s *Store) ListTransactionsByUserID(ctx context.Context, userID string, filter storage.TransactionFilter) ([]models.Transaction, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Type != "" {
		q = q.Where("transaction_type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PaymentMethodID != "" {
		q = q.Where("payment_method_id = ?", filter.PaymentMethodID)
	}
	if filter.BankAccountID != "" {
		q = q.Where("bank_account_id = ?", filter.BankAccountID)
	}

	var txs []models.Transaction
	if err := q.Order("created_at DESC").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// GetStalePendingTransactions returns pending transactions with a provider
// reference created before now minus maxAge, oldest first.
func (s *Store) GetStalePendingTransactions(ctx context.Context, maxAge time.Duration) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.db.WithContext(ctx).
		Where("status = ? AND reference_id IS NOT NULL AND reference_id <> '' AND created_at < ?",
			models.StatusPending, s.now().Add(-maxAge)).
		Order("created_at").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stale transactions: %w", err)
	}
	return txs, nil
}

// BankAccountHasTransactions reports whether any transaction references the bank account.
func (s *Store) BankAccountHasTransactions(ctx context.Context, bankAccountID string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("bank_account_id = ?", bankAccountID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n > 0, nil
}
