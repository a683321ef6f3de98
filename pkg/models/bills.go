package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the recurrence period of bills and scheduled payments.
type Frequency string

const (
	FrequencyOneTime   Frequency = "one-time"
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyOneTime, FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// BillPaymentStatus tracks the settlement state of the current bill cycle.
type BillPaymentStatus string

const (
	BillUnpaid  BillPaymentStatus = "unpaid"
	BillPending BillPaymentStatus = "pending"
	BillPaid    BillPaymentStatus = "paid"
)

// Bill is a recurring obligation a user pays from one of their instruments.
type Bill struct {
	ID                     string            `json:"id" gorm:"primaryKey;size:36"`
	UserID                 string            `json:"user_id" gorm:"index;size:64;not null"`
	Name                   string            `json:"name" gorm:"not null"`
	BillType               string            `json:"bill_type" gorm:"size:50;not null"`
	Provider               string            `json:"provider,omitempty"`
	AccountNumber          string            `json:"account_number,omitempty"`
	Amount                 *decimal.Decimal  `json:"amount,omitempty" gorm:"type:decimal(12,2)"`
	MinimumAmount          *decimal.Decimal  `json:"minimum_amount,omitempty" gorm:"type:decimal(12,2)"`
	Currency               string            `json:"currency" gorm:"size:3;not null"`
	Frequency              Frequency         `json:"frequency" gorm:"size:20;not null"`
	NextDueDate            time.Time         `json:"next_due_date"`
	LastPaidDate           *time.Time        `json:"last_paid_date,omitempty"`
	PaymentStatus          BillPaymentStatus `json:"payment_status" gorm:"size:20;not null"`
	AutoPay                bool              `json:"auto_pay" gorm:"not null;default:false"`
	DefaultPaymentMethodID *string           `json:"default_payment_method_id,omitempty" gorm:"size:36"`
	DefaultBankAccountID   *string           `json:"default_bank_account_id,omitempty" gorm:"size:36"`
	ReminderDays           int               `json:"reminder_days" gorm:"not null;default:3"`
	IsActive               bool              `json:"is_active" gorm:"not null"`
	Notes                  string            `json:"notes,omitempty"`
	CreatedAt              time.Time         `json:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at"`
}

// HasAutoPayInstrument reports whether auto-pay has something to charge.
func (b *Bill) HasAutoPayInstrument() bool {
	return (b.DefaultPaymentMethodID != nil && *b.DefaultPaymentMethodID != "") ||
		(b.DefaultBankAccountID != nil && *b.DefaultBankAccountID != "")
}
