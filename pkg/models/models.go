package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// TransactionStatus is the canonical lifecycle status of a transaction.
type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusProcessing TransactionStatus = "processing"
	StatusCompleted  TransactionStatus = "completed"
	StatusFailed     TransactionStatus = "failed"
	StatusRefunded   TransactionStatus = "refunded"
)

var transitions = map[TransactionStatus][]TransactionStatus{
	StatusPending:    {StatusProcessing, StatusCompleted, StatusFailed},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusCompleted:  {StatusRefunded},
}

// CanTransitionTo reports whether moving from s to next is a legal forward transition.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further reconciliation can change s.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusRefunded
}

// Valid reports whether s is one of the canonical statuses.
func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// TransactionType classifies what a transaction moves money for.
type TransactionType string

const (
	TypePayment    TransactionType = "payment"
	TypeTransfer   TransactionType = "transfer"
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TypePayment, TypeTransfer, TypeDeposit, TypeWithdrawal:
		return true
	}
	return false
}

// Purpose tags stored in payment_for.
const (
	PaymentForBill      = "bill_payment"
	PaymentForScheduled = "scheduled_payment"
)

// DefaultCurrency is used when neither the request nor the configuration names one.
const DefaultCurrency = "BDT"

// Transaction is a single payment attempt. ID is the storage row id, TransactionID
// is the opaque token shared with gateways and clients.
type Transaction struct {
	ID                 string            `json:"id" gorm:"primaryKey;size:36"`
	TransactionID      string            `json:"transaction_id" gorm:"uniqueIndex;size:36;not null"`
	UserID             string            `json:"user_id" gorm:"index;size:64;not null"`
	PaymentMethodID    *string           `json:"payment_method_id,omitempty" gorm:"index;size:36"`
	BankAccountID      *string           `json:"bank_account_id,omitempty" gorm:"index;size:36"`
	CategoryID         *string           `json:"category_id,omitempty" gorm:"size:36"`
	ScheduledPaymentID *string           `json:"scheduled_payment_id,omitempty" gorm:"index;size:36"`
	BillID             *string           `json:"bill_id,omitempty" gorm:"index;size:36"`
	TransactionType    TransactionType   `json:"transaction_type" gorm:"size:20;not null"`
	PaymentFor         string            `json:"payment_for,omitempty" gorm:"size:100"`
	RecipientName      string            `json:"recipient_name,omitempty"`
	RecipientAccount   string            `json:"recipient_account,omitempty"`
	RecipientBank      string            `json:"recipient_bank,omitempty"`
	Amount             decimal.Decimal   `json:"amount" gorm:"type:decimal(12,2);not null"`
	Fee                decimal.Decimal   `json:"fee" gorm:"type:decimal(12,2);not null;default:0"`
	Currency           string            `json:"currency" gorm:"size:3;not null"`
	Status             TransactionStatus `json:"status" gorm:"index;size:20;not null"`
	Description        string            `json:"description,omitempty" gorm:"size:255"`
	ReferenceID        string            `json:"reference_id,omitempty" gorm:"index;size:191"`
	GatewayReference   string            `json:"gateway_reference,omitempty" gorm:"size:191"`
	ResponseData       datatypes.JSON    `json:"response_data,omitempty"`
	ReceiptURL         string            `json:"receipt_url,omitempty"`
	ProcessedAt        *time.Time        `json:"processed_at,omitempty"`
	CreatedAt          time.Time         `json:"created_at" gorm:"index"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// OwnedBy reports whether the transaction belongs to userID.
func (t *Transaction) OwnedBy(userID string) bool {
	return t.UserID == userID
}

// Caller is the authenticated user on whose behalf an operation runs.
type Caller struct {
	UserID string
	Name   string
	Email  string
	Phone  string
}
