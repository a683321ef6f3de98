// Package bills manages the recurring bills users track and pay.
package bills

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/chris/digital-wallet/pkg/apperr"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store is the storage the bill service needs.
type Store interface {
	storage.BillStore
	GetPaymentMethod(ctx context.Context, id string) (*models.PaymentMethod, error)
	GetBankAccount(ctx context.Context, id string) (*models.BankAccount, error)
}

// Service applies ownership and auto-pay rules on top of the store.
type Service struct {
	store  Store
	logger *logging.Logger
	now    func() time.Time
	newID  func() string
}

// New creates a Service.
func New(store Store, logger *logging.Logger) *Service {
	return &Service{
		store:  store,
		logger: logging.OrGlobal(logger).Named("bills"),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// Input carries bill fields. On update nil fields are left unchanged.
type Input struct {
	Name                   *string
	BillType               *string
	Provider               *string
	AccountNumber          *string
	Amount                 *decimal.Decimal
	MinimumAmount          *decimal.Decimal
	Currency               *string
	Frequency              *models.Frequency
	NextDueDate            *time.Time
	AutoPay                *bool
	DefaultPaymentMethodID *string
	DefaultBankAccountID   *string
	ReminderDays           *int
	IsActive               *bool
	Notes                  *string
}

// Filter narrows a bill listing. Empty fields match everything.
type Filter struct {
	BillType      string
	PaymentStatus models.BillPaymentStatus
	AutoPayOnly   bool
}

// Create validates and stores a new unpaid bill for the caller.
func (s *Service) Create(ctx context.Context, caller models.Caller, in Input) (*models.Bill, error) {
	now := s.now().UTC()
	bill := &models.Bill{
		ID:            s.newID(),
		UserID:        caller.UserID,
		Currency:      models.DefaultCurrency,
		Frequency:     models.FrequencyMonthly,
		PaymentStatus: models.BillUnpaid,
		ReminderDays:  3,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	apply(bill, in)

	fields := validate(bill)
	if in.NextDueDate == nil {
		fields["next_due_date"] = append(fields["next_due_date"], "next due date is required")
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("the given data was invalid", fields)
	}
	if err := s.checkInstruments(ctx, caller, bill); err != nil {
		return nil, err
	}

	if err := s.store.CreateBill(ctx, bill); err != nil {
		return nil, apperr.Persistence("Bill creation failed", err)
	}
	s.logger.Info("bill created", zap.String("bill_id", bill.ID), zap.String("user_id", bill.UserID))
	return bill, nil
}

// Get returns one of the caller's bills.
func (s *Service) Get(ctx context.Context, caller models.Caller, id string) (*models.Bill, error) {
	bill, err := s.store.GetBill(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("bill not found")
		}
		return nil, apperr.Persistence("failed to load bill", err)
	}
	if bill.UserID != caller.UserID {
		return nil, apperr.NotFound("bill not found")
	}
	return bill, nil
}

// List returns the caller's bills ordered by due date.
func (s *Service) List(ctx context.Context, caller models.Caller, f Filter) ([]models.Bill, error) {
	all, err := s.store.ListBills(ctx, caller.UserID)
	if err != nil {
		return nil, apperr.Persistence("failed to list bills", err)
	}
	out := make([]models.Bill, 0, len(all))
	for _, b := range all {
		if f.BillType != "" && b.BillType != f.BillType {
			continue
		}
		if f.PaymentStatus != "" && b.PaymentStatus != f.PaymentStatus {
			continue
		}
		if f.AutoPayOnly && !b.AutoPay {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NextDueDate.Before(out[j].NextDueDate) })
	return out, nil
}

// DueSoon returns the caller's unpaid bills due within the next days days.
func (s *Service) DueSoon(ctx context.Context, caller models.Caller, days int) ([]models.Bill, error) {
	if days <= 0 {
		days = 7
	}
	bills, err := s.List(ctx, caller, Filter{PaymentStatus: models.BillUnpaid})
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	until := now.AddDate(0, 0, days)
	out := bills[:0]
	for _, b := range bills {
		if !b.NextDueDate.Before(now) && !b.NextDueDate.After(until) {
			out = append(out, b)
		}
	}
	return out, nil
}

// Update edits one of the caller's bills.
func (s *Service) Update(ctx context.Context, caller models.Caller, id string, in Input) (*models.Bill, error) {
	bill, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	apply(bill, in)
	if fields := validate(bill); len(fields) > 0 {
		return nil, apperr.Validation("the given data was invalid", fields)
	}
	if err := s.checkInstruments(ctx, caller, bill); err != nil {
		return nil, err
	}
	bill.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateBill(ctx, bill); err != nil {
		return nil, apperr.Persistence("Bill update failed", err)
	}
	return bill, nil
}

// Delete removes one of the caller's bills.
func (s *Service) Delete(ctx context.Context, caller models.Caller, id string) error {
	if _, err := s.Get(ctx, caller, id); err != nil {
		return err
	}
	if err := s.store.DeleteBill(ctx, caller.UserID, id); err != nil {
		return apperr.Persistence("Bill deletion failed", err)
	}
	return nil
}

// ToggleAutoPay turns auto-pay on or off. Enabling it requires a default
// instrument, either given here or already on the bill.
func (s *Service) ToggleAutoPay(ctx context.Context, caller models.Caller, id string, enabled bool, paymentMethodID, bankAccountID *string) (*models.Bill, error) {
	bill, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	bill.AutoPay = enabled
	if paymentMethodID != nil && *paymentMethodID != "" {
		bill.DefaultPaymentMethodID = paymentMethodID
	}
	if bankAccountID != nil && *bankAccountID != "" {
		bill.DefaultBankAccountID = bankAccountID
	}
	if enabled && !bill.HasAutoPayInstrument() {
		return nil, apperr.Field("default_payment_method_id", "A default payment method or bank account is required for auto-pay")
	}
	if err := s.checkInstruments(ctx, caller, bill); err != nil {
		return nil, err
	}
	bill.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateBill(ctx, bill); err != nil {
		return nil, apperr.Persistence("Auto-pay update failed", err)
	}
	return bill, nil
}

func apply(bill *models.Bill, in Input) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&bill.Name, in.Name)
	setStr(&bill.BillType, in.BillType)
	setStr(&bill.Provider, in.Provider)
	setStr(&bill.AccountNumber, in.AccountNumber)
	setStr(&bill.Currency, in.Currency)
	setStr(&bill.Notes, in.Notes)
	if in.Amount != nil {
		bill.Amount = in.Amount
	}
	if in.MinimumAmount != nil {
		bill.MinimumAmount = in.MinimumAmount
	}
	if in.Frequency != nil {
		bill.Frequency = *in.Frequency
	}
	if in.NextDueDate != nil {
		bill.NextDueDate = in.NextDueDate.UTC()
	}
	if in.AutoPay != nil {
		bill.AutoPay = *in.AutoPay
	}
	if in.DefaultPaymentMethodID != nil {
		bill.DefaultPaymentMethodID = in.DefaultPaymentMethodID
	}
	if in.DefaultBankAccountID != nil {
		bill.DefaultBankAccountID = in.DefaultBankAccountID
	}
	if in.ReminderDays != nil {
		bill.ReminderDays = *in.ReminderDays
	}
	if in.IsActive != nil {
		bill.IsActive = *in.IsActive
	}
}

func validate(bill *models.Bill) map[string][]string {
	fields := map[string][]string{}
	if bill.Name == "" {
		fields["name"] = []string{"name is required"}
	}
	if bill.BillType == "" {
		fields["bill_type"] = []string{"bill type is required"}
	}
	if !bill.Frequency.Valid() {
		fields["frequency"] = []string{"frequency must be one of one-time, daily, weekly, monthly, quarterly, yearly"}
	}
	if bill.Amount != nil && bill.Amount.IsNegative() {
		fields["amount"] = []string{"amount must not be negative"}
	}
	if bill.MinimumAmount != nil && bill.MinimumAmount.IsNegative() {
		fields["minimum_amount"] = []string{"minimum amount must not be negative"}
	}
	if bill.ReminderDays < 0 {
		fields["reminder_days"] = []string{"reminder days must not be negative"}
	}
	if bill.AutoPay && !bill.HasAutoPayInstrument() {
		fields["auto_pay"] = []string{"A default payment method or bank account is required for auto-pay"}
	}
	return fields
}

func (s *Service) checkInstruments(ctx context.Context, caller models.Caller, bill *models.Bill) error {
	if id := bill.DefaultPaymentMethodID; id != nil && *id != "" {
		pm, err := s.store.GetPaymentMethod(ctx, *id)
		if errors.Is(err, storage.ErrNotFound) || (err == nil && pm.UserID != caller.UserID) {
			return apperr.Field("default_payment_method_id", "the selected payment method is invalid")
		}
		if err != nil {
			return apperr.Persistence("failed to load payment method", err)
		}
	}
	if id := bill.DefaultBankAccountID; id != nil && *id != "" {
		ba, err := s.store.GetBankAccount(ctx, *id)
		if errors.Is(err, storage.ErrNotFound) || (err == nil && ba.UserID != caller.UserID) {
			return apperr.Field("default_bank_account_id", "the selected bank account is invalid")
		}
		if err != nil {
			return apperr.Persistence("failed to load bank account", err)
		}
	}
	return nil
}
