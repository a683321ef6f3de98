package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleStatus is the lifecycle state of a scheduled payment.
type ScheduleStatus string

const (
	ScheduleActive    ScheduleStatus = "active"
	SchedulePaused    ScheduleStatus = "paused"
	ScheduleCompleted ScheduleStatus = "completed"
	ScheduleFailed    ScheduleStatus = "failed"
	ScheduleCancelled ScheduleStatus = "cancelled"
)

// ScheduledPayment is a payment the system creates on the user's behalf on a recurring date.
type ScheduledPayment struct {
	ID               string          `json:"id" gorm:"primaryKey;size:36"`
	UserID           string          `json:"user_id" gorm:"index;size:64;not null"`
	Name             string          `json:"name" gorm:"not null"`
	PaymentType      TransactionType `json:"payment_type" gorm:"size:20;not null"`
	BillID           *string         `json:"bill_id,omitempty" gorm:"size:36"`
	PaymentMethodID  *string         `json:"payment_method_id,omitempty" gorm:"size:36"`
	BankAccountID    *string         `json:"bank_account_id,omitempty" gorm:"size:36"`
	RecipientName    string          `json:"recipient_name,omitempty"`
	RecipientAccount string          `json:"recipient_account,omitempty"`
	RecipientBank    string          `json:"recipient_bank,omitempty"`
	Amount           decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Currency         string          `json:"currency" gorm:"size:3;not null"`
	Frequency        Frequency       `json:"frequency" gorm:"size:20;not null"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          *time.Time      `json:"end_date,omitempty"`
	NextScheduled    *time.Time      `json:"next_scheduled,omitempty" gorm:"index"`
	LastProcessed    *time.Time      `json:"last_processed,omitempty"`
	TimesProcessed   int             `json:"times_processed" gorm:"not null;default:0"`
	Status           ScheduleStatus  `json:"status" gorm:"index;size:20;not null"`
	Description      string          `json:"description,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// IsRecurring reports whether the schedule repeats.
func (s *ScheduledPayment) IsRecurring() bool {
	return s.Frequency != FrequencyOneTime
}

// Ended reports whether the schedule's end date lies before now.
func (s *ScheduledPayment) Ended(now time.Time) bool {
	return s.EndDate != nil && s.EndDate.Before(now)
}
