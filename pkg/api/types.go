// Package api holds the JSON request and response bodies of the HTTP API.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// Envelope wraps every JSON response.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// PaymentRedirect is returned when the payer has to finish the payment on the provider's page.
type PaymentRedirect struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	RedirectUrl   string `json:"redirect_url"`
	TransactionId string `json:"transaction_id"`
}

// TransactionStatus defines model for Transaction.Status.
type TransactionStatus string

// TransactionType defines model for Transaction.TransactionType.
type TransactionType string

// Transaction defines model for Transaction.
type Transaction struct {
	Id                 string            `json:"id"`
	TransactionId      string            `json:"transaction_id"`
	UserId             string            `json:"user_id"`
	PaymentMethodId    *string           `json:"payment_method_id,omitempty"`
	BankAccountId      *string           `json:"bank_account_id,omitempty"`
	CategoryId         *string           `json:"category_id,omitempty"`
	ScheduledPaymentId *string           `json:"scheduled_payment_id,omitempty"`
	BillId             *string           `json:"bill_id,omitempty"`
	TransactionType    TransactionType   `json:"transaction_type"`
	PaymentFor         *string           `json:"payment_for,omitempty"`
	RecipientName      *string           `json:"recipient_name,omitempty"`
	RecipientAccount   *string           `json:"recipient_account,omitempty"`
	RecipientBank      *string           `json:"recipient_bank,omitempty"`
	Amount             decimal.Decimal   `json:"amount"`
	Fee                decimal.Decimal   `json:"fee"`
	Currency           string            `json:"currency"`
	Status             TransactionStatus `json:"status"`
	Description        *string           `json:"description,omitempty"`
	ReferenceId        *string           `json:"reference_id,omitempty"`
	GatewayReference   *string           `json:"gateway_reference,omitempty"`
	ReceiptUrl         *string           `json:"receipt_url,omitempty"`
	ProcessedAt        *time.Time        `json:"processed_at,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// NewTransaction defines model for NewTransaction.
type NewTransaction struct {
	TransactionType  TransactionType `json:"transaction_type"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         *string         `json:"currency,omitempty"`
	Description      *string         `json:"description,omitempty"`
	CategoryId       *string         `json:"category_id,omitempty"`
	BillId           *string         `json:"bill_id,omitempty"`
	PaymentMethodId  *string         `json:"payment_method_id,omitempty"`
	BankAccountId    *string         `json:"bank_account_id,omitempty"`
	RecipientName    *string         `json:"recipient_name,omitempty"`
	RecipientAccount *string         `json:"recipient_account,omitempty"`
	RecipientBank    *string         `json:"recipient_bank,omitempty"`
}

// TransactionStatusResult defines model for the status poll response.
type TransactionStatusResult struct {
	TransactionId string            `json:"transaction_id"`
	Status        TransactionStatus `json:"status"`
	ReferenceId   *string           `json:"reference_id,omitempty"`
	ProcessedAt   *time.Time        `json:"processed_at,omitempty"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// PaymentMethod defines model for PaymentMethod.
type PaymentMethod struct {
	Id                 string    `json:"id"`
	PaymentGatewayCode string    `json:"payment_gateway_code"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	Provider           *string   `json:"provider,omitempty"`
	AccountNumber      *string   `json:"account_number,omitempty"`
	LastFour           *string   `json:"last_four,omitempty"`
	CardBrand          *string   `json:"card_brand,omitempty"`
	ExpiryMonth        *string   `json:"expiry_month,omitempty"`
	ExpiryYear         *string   `json:"expiry_year,omitempty"`
	IsDefault          bool      `json:"is_default"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewPaymentMethod defines model for NewPaymentMethod.
type NewPaymentMethod struct {
	PaymentGatewayCode string  `json:"payment_gateway_code"`
	Name               *string `json:"name,omitempty"`
	Type               string  `json:"type"`
	Provider           *string `json:"provider,omitempty"`
	AccountNumber      *string `json:"account_number,omitempty"`
	CardNumber         *string `json:"card_number,omitempty"`
	ExpiryMonth        *string `json:"expiry_month,omitempty"`
	ExpiryYear         *string `json:"expiry_year,omitempty"`
	IsDefault          *bool   `json:"is_default,omitempty"`
}

// BankAccount defines model for BankAccount.
type BankAccount struct {
	Id            string     `json:"id"`
	BankName      string     `json:"bank_name"`
	AccountNumber string     `json:"account_number"`
	AccountName   string     `json:"account_name"`
	AccountType   string     `json:"account_type"`
	BranchName    *string    `json:"branch_name,omitempty"`
	RoutingNumber *string    `json:"routing_number,omitempty"`
	SwiftCode     *string    `json:"swift_code,omitempty"`
	IsActive      bool       `json:"is_active"`
	IsPrimary     bool       `json:"is_primary"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewBankAccount defines model for NewBankAccount.
type NewBankAccount struct {
	BankName      string  `json:"bank_name"`
	AccountNumber string  `json:"account_number"`
	AccountName   string  `json:"account_name"`
	AccountType   string  `json:"account_type"`
	BranchName    *string `json:"branch_name,omitempty"`
	RoutingNumber *string `json:"routing_number,omitempty"`
	SwiftCode     *string `json:"swift_code,omitempty"`
	IsPrimary     *bool   `json:"is_primary,omitempty"`
}

// BankAccountUpdate defines model for BankAccountUpdate.
type BankAccountUpdate struct {
	BankName      *string `json:"bank_name,omitempty"`
	AccountName   *string `json:"account_name,omitempty"`
	AccountType   *string `json:"account_type,omitempty"`
	BranchName    *string `json:"branch_name,omitempty"`
	RoutingNumber *string `json:"routing_number,omitempty"`
	SwiftCode     *string `json:"swift_code,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
	IsPrimary     *bool   `json:"is_primary,omitempty"`
}

// Bill defines model for Bill.
type Bill struct {
	Id                     string              `json:"id"`
	Name                   string              `json:"name"`
	BillType               string              `json:"bill_type"`
	Provider               *string             `json:"provider,omitempty"`
	AccountNumber          *string             `json:"account_number,omitempty"`
	Amount                 *decimal.Decimal    `json:"amount,omitempty"`
	MinimumAmount          *decimal.Decimal    `json:"minimum_amount,omitempty"`
	Currency               string              `json:"currency"`
	Frequency              string              `json:"frequency"`
	NextDueDate            openapi_types.Date  `json:"next_due_date"`
	LastPaidDate           *openapi_types.Date `json:"last_paid_date,omitempty"`
	PaymentStatus          string              `json:"payment_status"`
	AutoPay                bool                `json:"auto_pay"`
	DefaultPaymentMethodId *string             `json:"default_payment_method_id,omitempty"`
	DefaultBankAccountId   *string             `json:"default_bank_account_id,omitempty"`
	ReminderDays           int                 `json:"reminder_days"`
	IsActive               bool                `json:"is_active"`
	Notes                  *string             `json:"notes,omitempty"`
}

// BillInput defines model for creating and updating a Bill. Absent fields are left unchanged on update.
type BillInput struct {
	Name                   *string             `json:"name,omitempty"`
	BillType               *string             `json:"bill_type,omitempty"`
	Provider               *string             `json:"provider,omitempty"`
	AccountNumber          *string             `json:"account_number,omitempty"`
	Amount                 *decimal.Decimal    `json:"amount,omitempty"`
	MinimumAmount          *decimal.Decimal    `json:"minimum_amount,omitempty"`
	Currency               *string             `json:"currency,omitempty"`
	Frequency              *string             `json:"frequency,omitempty"`
	NextDueDate            *openapi_types.Date `json:"next_due_date,omitempty"`
	AutoPay                *bool               `json:"auto_pay,omitempty"`
	DefaultPaymentMethodId *string             `json:"default_payment_method_id,omitempty"`
	DefaultBankAccountId   *string             `json:"default_bank_account_id,omitempty"`
	ReminderDays           *int                `json:"reminder_days,omitempty"`
	IsActive               *bool               `json:"is_active,omitempty"`
	Notes                  *string             `json:"notes,omitempty"`
}

// PayBill defines model for PayBill.
type PayBill struct {
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethodId *string         `json:"payment_method_id,omitempty"`
	BankAccountId   *string         `json:"bank_account_id,omitempty"`
}

// ToggleAutoPay defines model for ToggleAutoPay.
type ToggleAutoPay struct {
	AutoPay                bool    `json:"auto_pay"`
	DefaultPaymentMethodId *string `json:"default_payment_method_id,omitempty"`
	DefaultBankAccountId   *string `json:"default_bank_account_id,omitempty"`
}

// ScheduledPayment defines model for ScheduledPayment.
type ScheduledPayment struct {
	Id               string              `json:"id"`
	Name             string              `json:"name"`
	PaymentType      TransactionType     `json:"payment_type"`
	BillId           *string             `json:"bill_id,omitempty"`
	PaymentMethodId  *string             `json:"payment_method_id,omitempty"`
	BankAccountId    *string             `json:"bank_account_id,omitempty"`
	RecipientName    *string             `json:"recipient_name,omitempty"`
	RecipientAccount *string             `json:"recipient_account,omitempty"`
	RecipientBank    *string             `json:"recipient_bank,omitempty"`
	Amount           decimal.Decimal     `json:"amount"`
	Currency         string              `json:"currency"`
	Frequency        string              `json:"frequency"`
	StartDate        openapi_types.Date  `json:"start_date"`
	EndDate          *openapi_types.Date `json:"end_date,omitempty"`
	NextScheduled    *openapi_types.Date `json:"next_scheduled,omitempty"`
	LastProcessed    *time.Time          `json:"last_processed,omitempty"`
	TimesProcessed   int                 `json:"times_processed"`
	Status           string              `json:"status"`
	Description      *string             `json:"description,omitempty"`
}

// NewScheduledPayment defines model for NewScheduledPayment.
type NewScheduledPayment struct {
	Name             string              `json:"name"`
	PaymentType      TransactionType     `json:"payment_type"`
	BillId           *string             `json:"bill_id,omitempty"`
	PaymentMethodId  *string             `json:"payment_method_id,omitempty"`
	BankAccountId    *string             `json:"bank_account_id,omitempty"`
	RecipientName    *string             `json:"recipient_name,omitempty"`
	RecipientAccount *string             `json:"recipient_account,omitempty"`
	RecipientBank    *string             `json:"recipient_bank,omitempty"`
	Amount           decimal.Decimal     `json:"amount"`
	Currency         *string             `json:"currency,omitempty"`
	Frequency        string              `json:"frequency"`
	StartDate        *openapi_types.Date `json:"start_date,omitempty"`
	EndDate          *openapi_types.Date `json:"end_date,omitempty"`
	Description      *string             `json:"description,omitempty"`
}

// UpdateScheduledPayment defines model for UpdateScheduledPayment.
type UpdateScheduledPayment struct {
	Name             *string             `json:"name,omitempty"`
	Amount           *decimal.Decimal    `json:"amount,omitempty"`
	RecipientName    *string             `json:"recipient_name,omitempty"`
	RecipientAccount *string             `json:"recipient_account,omitempty"`
	RecipientBank    *string             `json:"recipient_bank,omitempty"`
	EndDate          *openapi_types.Date `json:"end_date,omitempty"`
	Description      *string             `json:"description,omitempty"`
}

// PaymentGateway defines model for PaymentGateway. Credentials are never exposed.
type PaymentGateway struct {
	Code              string  `json:"code"`
	Name              string  `json:"name"`
	Description       *string `json:"description,omitempty"`
	SupportsRecurring bool    `json:"supports_recurring"`
	IsActive          bool    `json:"is_active"`
}

// DashboardOverview defines model for DashboardOverview.
type DashboardOverview struct {
	TotalIncome             decimal.Decimal `json:"total_income"`
	TotalExpenses           decimal.Decimal `json:"total_expenses"`
	UpcomingBillsCount      int             `json:"upcoming_bills_count"`
	RecentTransactionsCount int             `json:"recent_transactions_count"`
}

// TypeSummary defines model for TypeSummary.
type TypeSummary struct {
	Count       int    `json:"count"`
	TotalAmount string `json:"total_amount"`
}

// SummaryPeriod defines model for SummaryPeriod.
type SummaryPeriod struct {
	StartDate openapi_types.Date `json:"start_date"`
	EndDate   openapi_types.Date `json:"end_date"`
}

// TransactionsSummary defines model for TransactionsSummary.
type TransactionsSummary struct {
	Income   map[string]TypeSummary `json:"income"`
	Expenses map[string]TypeSummary `json:"expenses"`
	Period   SummaryPeriod          `json:"period"`
}
