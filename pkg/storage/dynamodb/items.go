package dynamodb

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/shopspring/decimal"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// timestamp stores a time as a sortable UTC string.
type timestamp time.Time

func (t timestamp) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberS{Value: formatTime(time.Time(t))}, nil
}

func (t *timestamp) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return fmt.Errorf("timestamp: unexpected attribute type %T", av)
	}
	parsed, err := time.Parse(timeLayout, s.Value)
	if err != nil {
		return err
	}
	*t = timestamp(parsed)
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func toTimestamp(t *time.Time) *timestamp {
	if t == nil {
		return nil
	}
	ts := timestamp(*t)
	return &ts
}

func fromTimestamp(t *timestamp) *time.Time {
	if t == nil {
		return nil
	}
	tt := time.Time(*t)
	return &tt
}

// money stores a decimal as a DynamoDB number.
type money decimal.Decimal

func (m money) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: decimal.Decimal(m).String()}, nil
}

func (m *money) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return fmt.Errorf("money: unexpected attribute type %T", av)
	}
	d, err := decimal.NewFromString(n.Value)
	if err != nil {
		return err
	}
	*m = money(d)
	return nil
}

func toMoney(d *decimal.Decimal) *money {
	if d == nil {
		return nil
	}
	m := money(*d)
	return &m
}

func fromMoney(m *money) *decimal.Decimal {
	if m == nil {
		return nil
	}
	d := decimal.Decimal(*m)
	return &d
}

// optional drops empty ids so they never land in a sparse index as empty strings.
func optional(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}

type transactionItem struct {
	ID                 string     `dynamodbav:"id"`
	TransactionID      string     `dynamodbav:"transaction_id"`
	UserID             string     `dynamodbav:"user_id"`
	PaymentMethodID    *string    `dynamodbav:"payment_method_id,omitempty"`
	BankAccountID      *string    `dynamodbav:"bank_account_id,omitempty"`
	CategoryID         *string    `dynamodbav:"category_id,omitempty"`
	ScheduledPaymentID *string    `dynamodbav:"scheduled_payment_id,omitempty"`
	BillID             *string    `dynamodbav:"bill_id,omitempty"`
	TransactionType    string     `dynamodbav:"transaction_type"`
	PaymentFor         string     `dynamodbav:"payment_for,omitempty"`
	RecipientName      string     `dynamodbav:"recipient_name,omitempty"`
	RecipientAccount   string     `dynamodbav:"recipient_account,omitempty"`
	RecipientBank      string     `dynamodbav:"recipient_bank,omitempty"`
	Amount             money      `dynamodbav:"amount"`
	Fee                money      `dynamodbav:"fee"`
	Currency           string     `dynamodbav:"currency"`
	Status             string     `dynamodbav:"status"`
	Description        string     `dynamodbav:"description,omitempty"`
	ReferenceID        string     `dynamodbav:"reference_id,omitempty"`
	GatewayReference   string     `dynamodbav:"gateway_reference,omitempty"`
	ResponseData       []byte     `dynamodbav:"response_data,omitempty"`
	ReceiptURL         string     `dynamodbav:"receipt_url,omitempty"`
	ProcessedAt        *timestamp `dynamodbav:"processed_at,omitempty"`
	CreatedAt          timestamp  `dynamodbav:"created_at"`
	UpdatedAt          timestamp  `dynamodbav:"updated_at"`
}

func toTransactionItem(tx *models.Transaction) transactionItem {
	return transactionItem{
		ID:                 tx.ID,
		TransactionID:      tx.TransactionID,
		UserID:             tx.UserID,
		PaymentMethodID:    optional(tx.PaymentMethodID),
		BankAccountID:      optional(tx.BankAccountID),
		CategoryID:         optional(tx.CategoryID),
		ScheduledPaymentID: optional(tx.ScheduledPaymentID),
		BillID:             optional(tx.BillID),
		TransactionType:    string(tx.TransactionType),
		PaymentFor:         tx.PaymentFor,
		RecipientName:      tx.RecipientName,
		RecipientAccount:   tx.RecipientAccount,
		RecipientBank:      tx.RecipientBank,
		Amount:             money(tx.Amount),
		Fee:                money(tx.Fee),
		Currency:           tx.Currency,
		Status:             string(tx.Status),
		Description:        tx.Description,
		ReferenceID:        tx.ReferenceID,
		GatewayReference:   tx.GatewayReference,
		ResponseData:       tx.ResponseData,
		ReceiptURL:         tx.ReceiptURL,
		ProcessedAt:        toTimestamp(tx.ProcessedAt),
		CreatedAt:          timestamp(tx.CreatedAt),
		UpdatedAt:          timestamp(tx.UpdatedAt),
	}
}

func (it transactionItem) model() models.Transaction {
	return models.Transaction{
		ID:                 it.ID,
		TransactionID:      it.TransactionID,
		UserID:             it.UserID,
		PaymentMethodID:    it.PaymentMethodID,
		BankAccountID:      it.BankAccountID,
		CategoryID:         it.CategoryID,
		ScheduledPaymentID: it.ScheduledPaymentID,
		BillID:             it.BillID,
		TransactionType:    models.TransactionType(it.TransactionType),
		PaymentFor:         it.PaymentFor,
		RecipientName:      it.RecipientName,
		RecipientAccount:   it.RecipientAccount,
		RecipientBank:      it.RecipientBank,
		Amount:             decimal.Decimal(it.Amount),
		Fee:                decimal.Decimal(it.Fee),
		Currency:           it.Currency,
		Status:             models.TransactionStatus(it.Status),
		Description:        it.Description,
		ReferenceID:        it.ReferenceID,
		GatewayReference:   it.GatewayReference,
		ResponseData:       it.ResponseData,
		ReceiptURL:         it.ReceiptURL,
		ProcessedAt:        fromTimestamp(it.ProcessedAt),
		CreatedAt:          time.Time(it.CreatedAt),
		UpdatedAt:          time.Time(it.UpdatedAt),
	}
}

// paymentMethodItem carries no default flag; the default lives on the
// user's instrument defaults item.
type paymentMethodItem struct {
	ID                 string    `dynamodbav:"id"`
	UserID             string    `dynamodbav:"user_id"`
	PaymentGatewayCode string    `dynamodbav:"payment_gateway_code"`
	Name               string    `dynamodbav:"name"`
	Type               string    `dynamodbav:"type"`
	Provider           string    `dynamodbav:"provider,omitempty"`
	AccountNumber      string    `dynamodbav:"account_number,omitempty"`
	LastFour           string    `dynamodbav:"last_four,omitempty"`
	CardBrand          string    `dynamodbav:"card_brand,omitempty"`
	ExpiryMonth        string    `dynamodbav:"expiry_month,omitempty"`
	ExpiryYear         string    `dynamodbav:"expiry_year,omitempty"`
	IsActive           bool      `dynamodbav:"is_active"`
	CreatedAt          timestamp `dynamodbav:"created_at"`
	UpdatedAt          timestamp `dynamodbav:"updated_at"`
}

func toPaymentMethodItem(pm *models.PaymentMethod) paymentMethodItem {
	return paymentMethodItem{
		ID:                 pm.ID,
		UserID:             pm.UserID,
		PaymentGatewayCode: pm.PaymentGatewayCode,
		Name:               pm.Name,
		Type:               string(pm.Type),
		Provider:           pm.Provider,
		AccountNumber:      pm.AccountNumber,
		LastFour:           pm.LastFour,
		CardBrand:          pm.CardBrand,
		ExpiryMonth:        pm.ExpiryMonth,
		ExpiryYear:         pm.ExpiryYear,
		IsActive:           pm.IsActive,
		CreatedAt:          timestamp(pm.CreatedAt),
		UpdatedAt:          timestamp(pm.UpdatedAt),
	}
}

func (it paymentMethodItem) model(defaults instrumentDefaults) models.PaymentMethod {
	return models.PaymentMethod{
		ID:                 it.ID,
		UserID:             it.UserID,
		PaymentGatewayCode: it.PaymentGatewayCode,
		Name:               it.Name,
		Type:               models.PaymentMethodType(it.Type),
		Provider:           it.Provider,
		AccountNumber:      it.AccountNumber,
		LastFour:           it.LastFour,
		CardBrand:          it.CardBrand,
		ExpiryMonth:        it.ExpiryMonth,
		ExpiryYear:         it.ExpiryYear,
		IsDefault:          defaults.DefaultPaymentMethodID == it.ID,
		IsActive:           it.IsActive,
		CreatedAt:          time.Time(it.CreatedAt),
		UpdatedAt:          time.Time(it.UpdatedAt),
	}
}

type bankAccountItem struct {
	ID            string     `dynamodbav:"id"`
	UserID        string     `dynamodbav:"user_id"`
	BankName      string     `dynamodbav:"bank_name"`
	AccountNumber string     `dynamodbav:"account_number"`
	AccountName   string     `dynamodbav:"account_name"`
	AccountType   string     `dynamodbav:"account_type"`
	BranchName    string     `dynamodbav:"branch_name,omitempty"`
	RoutingNumber string     `dynamodbav:"routing_number,omitempty"`
	SwiftCode     string     `dynamodbav:"swift_code,omitempty"`
	IsActive      bool       `dynamodbav:"is_active"`
	VerifiedAt    *timestamp `dynamodbav:"verified_at,omitempty"`
	VerifyMethod  string     `dynamodbav:"verification_method,omitempty"`
	CreatedAt     timestamp  `dynamodbav:"created_at"`
	UpdatedAt     timestamp  `dynamodbav:"updated_at"`
}

func toBankAccountItem(ba *models.BankAccount) bankAccountItem {
	return bankAccountItem{
		ID:            ba.ID,
		UserID:        ba.UserID,
		BankName:      ba.BankName,
		AccountNumber: ba.AccountNumber,
		AccountName:   ba.AccountName,
		AccountType:   ba.AccountType,
		BranchName:    ba.BranchName,
		RoutingNumber: ba.RoutingNumber,
		SwiftCode:     ba.SwiftCode,
		IsActive:      ba.IsActive,
		VerifiedAt:    toTimestamp(ba.VerifiedAt),
		VerifyMethod:  ba.VerificationMethod,
		CreatedAt:     timestamp(ba.CreatedAt),
		UpdatedAt:     timestamp(ba.UpdatedAt),
	}
}

func (it bankAccountItem) model(defaults instrumentDefaults) models.BankAccount {
	return models.BankAccount{
		ID:                 it.ID,
		UserID:             it.UserID,
		BankName:           it.BankName,
		AccountNumber:      it.AccountNumber,
		AccountName:        it.AccountName,
		AccountType:        it.AccountType,
		BranchName:         it.BranchName,
		RoutingNumber:      it.RoutingNumber,
		SwiftCode:          it.SwiftCode,
		IsActive:           it.IsActive,
		IsPrimary:          defaults.PrimaryBankAccountID == it.ID,
		VerifiedAt:         fromTimestamp(it.VerifiedAt),
		VerificationMethod: it.VerifyMethod,
		CreatedAt:          time.Time(it.CreatedAt),
		UpdatedAt:          time.Time(it.UpdatedAt),
	}
}

// instrumentDefaults is the per-user record of the default payment method and
// the primary bank account. Keeping both on one item makes "at most one"
// structural.
type instrumentDefaults struct {
	UserID                 string `dynamodbav:"user_id"`
	DefaultPaymentMethodID string `dynamodbav:"default_payment_method_id,omitempty"`
	PrimaryBankAccountID   string `dynamodbav:"primary_bank_account_id,omitempty"`
}

type billItem struct {
	ID                     string     `dynamodbav:"id"`
	UserID                 string     `dynamodbav:"user_id"`
	Name                   string     `dynamodbav:"name"`
	BillType               string     `dynamodbav:"bill_type"`
	Provider               string     `dynamodbav:"provider,omitempty"`
	AccountNumber          string     `dynamodbav:"account_number,omitempty"`
	Amount                 *money     `dynamodbav:"amount,omitempty"`
	MinimumAmount          *money     `dynamodbav:"minimum_amount,omitempty"`
	Currency               string     `dynamodbav:"currency"`
	Frequency              string     `dynamodbav:"frequency"`
	NextDueDate            timestamp  `dynamodbav:"next_due_date"`
	LastPaidDate           *timestamp `dynamodbav:"last_paid_date,omitempty"`
	PaymentStatus          string     `dynamodbav:"payment_status"`
	AutoPay                bool       `dynamodbav:"auto_pay"`
	DefaultPaymentMethodID *string    `dynamodbav:"default_payment_method_id,omitempty"`
	DefaultBankAccountID   *string    `dynamodbav:"default_bank_account_id,omitempty"`
	ReminderDays           int        `dynamodbav:"reminder_days"`
	IsActive               bool       `dynamodbav:"is_active"`
	Notes                  string     `dynamodbav:"notes,omitempty"`
	CreatedAt              timestamp  `dynamodbav:"created_at"`
	UpdatedAt              timestamp  `dynamodbav:"updated_at"`
}

func toBillItem(b *models.Bill) billItem {
	return billItem{
		ID:                     b.ID,
		UserID:                 b.UserID,
		Name:                   b.Name,
		BillType:               b.BillType,
		Provider:               b.Provider,
		AccountNumber:          b.AccountNumber,
		Amount:                 toMoney(b.Amount),
		MinimumAmount:          toMoney(b.MinimumAmount),
		Currency:               b.Currency,
		Frequency:              string(b.Frequency),
		NextDueDate:            timestamp(b.NextDueDate),
		LastPaidDate:           toTimestamp(b.LastPaidDate),
		PaymentStatus:          string(b.PaymentStatus),
		AutoPay:                b.AutoPay,
		DefaultPaymentMethodID: optional(b.DefaultPaymentMethodID),
		DefaultBankAccountID:   optional(b.DefaultBankAccountID),
		ReminderDays:           b.ReminderDays,
		IsActive:               b.IsActive,
		Notes:                  b.Notes,
		CreatedAt:              timestamp(b.CreatedAt),
		UpdatedAt:              timestamp(b.UpdatedAt),
	}
}

func (it billItem) model() models.Bill {
	return models.Bill{
		ID:                     it.ID,
		UserID:                 it.UserID,
		Name:                   it.Name,
		BillType:               it.BillType,
		Provider:               it.Provider,
		AccountNumber:          it.AccountNumber,
		Amount:                 fromMoney(it.Amount),
		MinimumAmount:          fromMoney(it.MinimumAmount),
		Currency:               it.Currency,
		Frequency:              models.Frequency(it.Frequency),
		NextDueDate:            time.Time(it.NextDueDate),
		LastPaidDate:           fromTimestamp(it.LastPaidDate),
		PaymentStatus:          models.BillPaymentStatus(it.PaymentStatus),
		AutoPay:                it.AutoPay,
		DefaultPaymentMethodID: it.DefaultPaymentMethodID,
		DefaultBankAccountID:   it.DefaultBankAccountID,
		ReminderDays:           it.ReminderDays,
		IsActive:               it.IsActive,
		Notes:                  it.Notes,
		CreatedAt:              time.Time(it.CreatedAt),
		UpdatedAt:              time.Time(it.UpdatedAt),
	}
}

type scheduleItem struct {
	ID               string     `dynamodbav:"id"`
	UserID           string     `dynamodbav:"user_id"`
	Name             string     `dynamodbav:"name"`
	PaymentType      string     `dynamodbav:"payment_type"`
	BillID           *string    `dynamodbav:"bill_id,omitempty"`
	PaymentMethodID  *string    `dynamodbav:"payment_method_id,omitempty"`
	BankAccountID    *string    `dynamodbav:"bank_account_id,omitempty"`
	RecipientName    string     `dynamodbav:"recipient_name,omitempty"`
	RecipientAccount string     `dynamodbav:"recipient_account,omitempty"`
	RecipientBank    string     `dynamodbav:"recipient_bank,omitempty"`
	Amount           money      `dynamodbav:"amount"`
	Currency         string     `dynamodbav:"currency"`
	Frequency        string     `dynamodbav:"frequency"`
	StartDate        timestamp  `dynamodbav:"start_date"`
	EndDate          *timestamp `dynamodbav:"end_date,omitempty"`
	NextScheduled    *timestamp `dynamodbav:"next_scheduled,omitempty"`
	LastProcessed    *timestamp `dynamodbav:"last_processed,omitempty"`
	TimesProcessed   int        `dynamodbav:"times_processed"`
	Status           string     `dynamodbav:"status"`
	Description      string     `dynamodbav:"description,omitempty"`
	CreatedAt        timestamp  `dynamodbav:"created_at"`
	UpdatedAt        timestamp  `dynamodbav:"updated_at"`
}

func toScheduleItem(sp *models.ScheduledPayment) scheduleItem {
	return scheduleItem{
		ID:               sp.ID,
		UserID:           sp.UserID,
		Name:             sp.Name,
		PaymentType:      string(sp.PaymentType),
		BillID:           optional(sp.BillID),
		PaymentMethodID:  optional(sp.PaymentMethodID),
		BankAccountID:    optional(sp.BankAccountID),
		RecipientName:    sp.RecipientName,
		RecipientAccount: sp.RecipientAccount,
		RecipientBank:    sp.RecipientBank,
		Amount:           money(sp.Amount),
		Currency:         sp.Currency,
		Frequency:        string(sp.Frequency),
		StartDate:        timestamp(sp.StartDate),
		EndDate:          toTimestamp(sp.EndDate),
		NextScheduled:    toTimestamp(sp.NextScheduled),
		LastProcessed:    toTimestamp(sp.LastProcessed),
		TimesProcessed:   sp.TimesProcessed,
		Status:           string(sp.Status),
		Description:      sp.Description,
		CreatedAt:        timestamp(sp.CreatedAt),
		UpdatedAt:        timestamp(sp.UpdatedAt),
	}
}

func (it scheduleItem) model() models.ScheduledPayment {
	return models.ScheduledPayment{
		ID:               it.ID,
		UserID:           it.UserID,
		Name:             it.Name,
		PaymentType:      models.TransactionType(it.PaymentType),
		BillID:           it.BillID,
		PaymentMethodID:  it.PaymentMethodID,
		BankAccountID:    it.BankAccountID,
		RecipientName:    it.RecipientName,
		RecipientAccount: it.RecipientAccount,
		RecipientBank:    it.RecipientBank,
		Amount:           decimal.Decimal(it.Amount),
		Currency:         it.Currency,
		Frequency:        models.Frequency(it.Frequency),
		StartDate:        time.Time(it.StartDate),
		EndDate:          fromTimestamp(it.EndDate),
		NextScheduled:    fromTimestamp(it.NextScheduled),
		LastProcessed:    fromTimestamp(it.LastProcessed),
		TimesProcessed:   it.TimesProcessed,
		Status:           models.ScheduleStatus(it.Status),
		Description:      it.Description,
		CreatedAt:        time.Time(it.CreatedAt),
		UpdatedAt:        time.Time(it.UpdatedAt),
	}
}

type gatewayItem struct {
	Code              string    `dynamodbav:"code"`
	Name              string    `dynamodbav:"name"`
	Description       string    `dynamodbav:"description,omitempty"`
	BaseURL           string    `dynamodbav:"base_url"`
	Credentials       []byte    `dynamodbav:"credentials,omitempty"`
	WebhookURLs       []byte    `dynamodbav:"webhook_urls,omitempty"`
	SupportsRecurring bool      `dynamodbav:"supports_recurring"`
	IsActive          bool      `dynamodbav:"is_active"`
	CreatedAt         timestamp `dynamodbav:"created_at"`
	UpdatedAt         timestamp `dynamodbav:"updated_at"`
}

func toGatewayItem(gw *models.PaymentGateway) gatewayItem {
	return gatewayItem{
		Code:              gw.Code,
		Name:              gw.Name,
		Description:       gw.Description,
		BaseURL:           gw.BaseURL,
		Credentials:       gw.Credentials,
		WebhookURLs:       gw.WebhookURLs,
		SupportsRecurring: gw.SupportsRecurring,
		IsActive:          gw.IsActive,
		CreatedAt:         timestamp(gw.CreatedAt),
		UpdatedAt:         timestamp(gw.UpdatedAt),
	}
}

func (it gatewayItem) model() models.PaymentGateway {
	return models.PaymentGateway{
		Code:              it.Code,
		Name:              it.Name,
		Description:       it.Description,
		BaseURL:           it.BaseURL,
		Credentials:       it.Credentials,
		WebhookURLs:       it.WebhookURLs,
		SupportsRecurring: it.SupportsRecurring,
		IsActive:          it.IsActive,
		CreatedAt:         time.Time(it.CreatedAt),
		UpdatedAt:         time.Time(it.UpdatedAt),
	}
}
