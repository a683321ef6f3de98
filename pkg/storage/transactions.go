package storage

import (
	"context"
	"time"

	"github.com/chris/digital-wallet/pkg/models"
)

// TransactionFilter narrows a user's transaction listing. Empty fields match everything.
type TransactionFilter struct {
	Type            models.TransactionType
	Status          models.TransactionStatus
	PaymentMethodID string
	BankAccountID   string
}

// Matches reports whether tx passes the filter.
func (f TransactionFilter) Matches(tx *models.Transaction) bool {
	if f.Type != "" && tx.TransactionType != f.Type {
		return false
	}
	if f.Status != "" && tx.Status != f.Status {
		return false
	}
	if f.PaymentMethodID != "" && (tx.PaymentMethodID == nil || *tx.PaymentMethodID != f.PaymentMethodID) {
		return false
	}
	if f.BankAccountID != "" && (tx.BankAccountID == nil || *tx.BankAccountID != f.BankAccountID) {
		return false
	}
	return true
}

// CreateOptions are side effects committed in the same atomic unit as a new transaction.
type CreateOptions struct {
	// MarkBillPending sets the payment status of tx.BillID to pending.
	MarkBillPending bool
}

// StatusUpdate moves a transaction from one status to another. It only applies
// while the stored status still equals From.
type StatusUpdate struct {
	ID               string
	From             models.TransactionStatus
	To               models.TransactionStatus
	GatewayReference string
	ResponseData     []byte
	ProcessedAt      *time.Time
}

// TransactionReader defines the interface for reading transaction data.
type TransactionReader interface {
	// GetTransaction retrieves a transaction by its row ID.
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)

	// GetTransactionByToken retrieves a transaction by its public token.
	GetTransactionByToken(ctx context.Context, token string) (*models.Transaction, error)

	// GetTransactionByReference retrieves a transaction by the provider payment id.
	GetTransactionByReference(ctx context.Context, referenceID string) (*models.Transaction, error)

	// ListTransactionsByUserID retrieves a user's transactions, newest first.
	ListTransactionsByUserID(ctx context.Context, userID string, filter TransactionFilter) ([]models.Transaction, error)

	// GetStalePendingTransactions retrieves pending transactions with a provider
	// reference that were created more than maxAge ago.
	GetStalePendingTransactions(ctx context.Context, maxAge time.Duration) ([]models.Transaction, error)

	// BankAccountHasTransactions reports whether any transaction references the bank account.
	BankAccountHasTransactions(ctx context.Context, bankAccountID string) (bool, error)
}

// TransactionWriter defines the mutations the ledger and reconciliation perform.
type TransactionWriter interface {
	// CreateTransaction persists tx and the requested side effects atomically.
	CreateTransaction(ctx context.Context, tx *models.Transaction, opts CreateOptions) error

	// UpdateTransactionStatus applies a conditional status change.
	// It returns ErrStatusConflict if the stored status is no longer update.From.
	UpdateTransactionStatus(ctx context.Context, update StatusUpdate) error
}

// TransactionStore combines the reader and writer interfaces.
type TransactionStore interface {
	TransactionReader
	TransactionWriter
}
