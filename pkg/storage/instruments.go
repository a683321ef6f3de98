package storage

import (
	"context"

	"github.com/chris/digital-wallet/pkg/models"
)

// PaymentMethodStore manages gateway-backed instruments. Implementations keep at
// most one default payment method per user.
type PaymentMethodStore interface {
	// CreatePaymentMethod persists pm. The user's first payment method becomes the default.
	CreatePaymentMethod(ctx context.Context, pm *models.PaymentMethod) error
	GetPaymentMethod(ctx context.Context, id string) (*models.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, userID string) ([]models.PaymentMethod, error)
	// SetDefaultPaymentMethod makes id the user's only default payment method.
	SetDefaultPaymentMethod(ctx context.Context, userID, id string) error
	// DeletePaymentMethod removes a payment method. It returns ErrDefaultInstrument for the default.
	DeletePaymentMethod(ctx context.Context, userID, id string) error
}

// BankAccountStore manages bank accounts. Implementations keep at most one
// primary bank account per user.
type BankAccountStore interface {
	// CreateBankAccount persists ba. The user's first bank account becomes primary.
	CreateBankAccount(ctx context.Context, ba *models.BankAccount) error
	GetBankAccount(ctx context.Context, id string) (*models.BankAccount, error)
	ListBankAccounts(ctx context.Context, userID string) ([]models.BankAccount, error)
	// UpdateBankAccount saves the editable fields of ba. The primary flag is not touched.
	// Deactivating the primary account returns ErrDefaultInstrument.
	UpdateBankAccount(ctx context.Context, ba *models.BankAccount) error
	// SetPrimaryBankAccount makes id the user's only primary account.
	// It returns ErrInstrumentInactive for inactive accounts.
	SetPrimaryBankAccount(ctx context.Context, userID, id string) error
	// DeleteBankAccount removes an account, refusing with ErrInstrumentInUse while
	// transactions reference it. Deleting the primary promotes another active account.
	DeleteBankAccount(ctx context.Context, userID, id string) error
}

// InstrumentStore combines both instrument kinds.
type InstrumentStore interface {
	PaymentMethodStore
	BankAccountStore
}
