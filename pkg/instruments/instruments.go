// Package instruments manages the payment methods and bank accounts users pay with.
package instruments

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/chris/digital-wallet/pkg/apperr"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the storage the instrument service needs.
type Store interface {
	storage.InstrumentStore
	GetGateway(ctx context.Context, code string) (*models.PaymentGateway, error)
	BankAccountHasTransactions(ctx context.Context, bankAccountID string) (bool, error)
}

// Service applies ownership and default/primary rules on top of the store.
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
		logger: logging.OrGlobal(logger).Named("instruments"),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// NewPaymentMethod describes a payment method to add. CardNumber is only used
// to derive the last four digits and brand and is never stored.
type NewPaymentMethod struct {
	PaymentGatewayCode string
	Name               string
	Type               models.PaymentMethodType
	Provider           string
	AccountNumber      string
	CardNumber         string
	ExpiryMonth        string
	ExpiryYear         string
	IsDefault          bool
}

var cardBrands = []struct {
	brand   string
	pattern *regexp.Regexp
}{
	{"visa", regexp.MustCompile(`^4`)},
	{"mastercard", regexp.MustCompile(`^5[1-5]`)},
	{"amex", regexp.MustCompile(`^3[47]`)},
	{"discover", regexp.MustCompile(`^6(?:011|5)`)},
}

// CardBrand guesses the card network from the leading digits.
func CardBrand(number string) string {
	for _, b := range cardBrands {
		if b.pattern.MatchString(number) {
			return b.brand
		}
	}
	return "unknown"
}

var digitsOnly = regexp.MustCompile(`^[0-9]{12,19}$`)

// CreatePaymentMethod validates and stores a payment method for the caller.
func (s *Service) CreatePaymentMethod(ctx context.Context, caller models.Caller, req NewPaymentMethod) (*models.PaymentMethod, error) {
	fields := map[string][]string{}
	if req.PaymentGatewayCode == "" {
		fields["payment_gateway_code"] = []string{"payment gateway is required"}
	}
	if !req.Type.Valid() {
		fields["type"] = []string{"type must be one of card, mfs, bank_account, mobile_wallet"}
	}
	card := strings.ReplaceAll(req.CardNumber, " ", "")
	if req.Type == models.MethodCard && !digitsOnly.MatchString(card) {
		fields["card_number"] = []string{"a valid card number is required for cards"}
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("the given data was invalid", fields)
	}

	gw, err := s.store.GetGateway(ctx, req.PaymentGatewayCode)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.Field("payment_gateway_code", "unknown payment gateway")
		}
		return nil, apperr.Persistence("failed to load payment gateway", err)
	}
	if !gw.IsActive {
		return nil, apperr.Field("payment_gateway_code", "payment gateway is not active")
	}

	name := req.Name
	if name == "" {
		name = gw.Name
	}
	now := s.now().UTC()
	pm := &models.PaymentMethod{
		ID:                 s.newID(),
		UserID:             caller.UserID,
		PaymentGatewayCode: gw.Code,
		Name:               name,
		Type:               req.Type,
		Provider:           req.Provider,
		AccountNumber:      req.AccountNumber,
		ExpiryMonth:        req.ExpiryMonth,
		ExpiryYear:         req.ExpiryYear,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if req.Type == models.MethodCard {
		pm.LastFour = card[len(card)-4:]
		pm.CardBrand = CardBrand(card)
	}

	if err := s.store.CreatePaymentMethod(ctx, pm); err != nil {
		return nil, apperr.Persistence("failed to create payment method", err)
	}
	if req.IsDefault && !pm.IsDefault {
		if err := s.store.SetDefaultPaymentMethod(ctx, caller.UserID, pm.ID); err != nil {
			return nil, apperr.Persistence("failed to set default payment method", err)
		}
		pm.IsDefault = true
	}

	s.logger.Info("payment method created",
		zap.String("payment_method_id", pm.ID),
		zap.String("user_id", pm.UserID),
		zap.Bool("default", pm.IsDefault),
	)
	return pm, nil
}

// ListPaymentMethods returns the caller's payment methods.
func (s *Service) ListPaymentMethods(ctx context.Context, caller models.Caller) ([]models.PaymentMethod, error) {
	items, err := s.store.ListPaymentMethods(ctx, caller.UserID)
	if err != nil {
		return nil, apperr.Persistence("failed to list payment methods", err)
	}
	return items, nil
}

// GetPaymentMethod returns one of the caller's payment methods.
func (s *Service) GetPaymentMethod(ctx context.Context, caller models.Caller, id string) (*models.PaymentMethod, error) {
	pm, err := s.store.GetPaymentMethod(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "payment method")
	}
	if pm.UserID != caller.UserID {
		return nil, apperr.Forbidden("payment method does not belong to you")
	}
	return pm, nil
}

// SetDefaultPaymentMethod makes one of the caller's payment methods the default.
func (s *Service) SetDefaultPaymentMethod(ctx context.Context, caller models.Caller, id string) (*models.PaymentMethod, error) {
	pm, err := s.GetPaymentMethod(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetDefaultPaymentMethod(ctx, caller.UserID, id); err != nil {
		if errors.Is(err, storage.ErrInstrumentInactive) {
			return nil, apperr.InvalidState("an inactive payment method cannot be the default")
		}
		return nil, notFoundOr(err, "payment method")
	}
	pm.IsDefault = true
	return pm, nil
}

// DeletePaymentMethod removes one of the caller's payment methods other than the default.
func (s *Service) DeletePaymentMethod(ctx context.Context, caller models.Caller, id string) error {
	pm, err := s.GetPaymentMethod(ctx, caller, id)
	if err != nil {
		return err
	}
	if pm.IsDefault {
		return apperr.InvalidState("Cannot delete the default payment method.")
	}
	if err := s.store.DeletePaymentMethod(ctx, caller.UserID, id); err != nil {
		if errors.Is(err, storage.ErrDefaultInstrument) {
			return apperr.InvalidState("Cannot delete the default payment method.")
		}
		return notFoundOr(err, "payment method")
	}
	return nil
}

var accountTypes = map[string]bool{"savings": true, "current": true, "fixed": true}

// NewBankAccount describes a bank account to add.
type NewBankAccount struct {
	BankName      string
	AccountNumber string
	AccountName   string
	AccountType   string
	BranchName    string
	RoutingNumber string
	SwiftCode     string
	IsPrimary     bool
}

// CreateBankAccount validates and stores a bank account for the caller.
func (s *Service) CreateBankAccount(ctx context.Context, caller models.Caller, req NewBankAccount) (*models.BankAccount, error) {
	fields := map[string][]string{}
	if req.BankName == "" {
		fields["bank_name"] = []string{"bank name is required"}
	}
	if req.AccountNumber == "" {
		fields["account_number"] = []string{"account number is required"}
	}
	if req.AccountName == "" {
		fields["account_name"] = []string{"account name is required"}
	}
	if !accountTypes[req.AccountType] {
		fields["account_type"] = []string{"account type must be one of savings, current, fixed"}
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("Validation error", fields)
	}

	now := s.now().UTC()
	ba := &models.BankAccount{
		ID:            s.newID(),
		UserID:        caller.UserID,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
		AccountType:   req.AccountType,
		BranchName:    req.BranchName,
		RoutingNumber: req.RoutingNumber,
		SwiftCode:     req.SwiftCode,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreateBankAccount(ctx, ba); err != nil {
		return nil, apperr.Persistence("Failed to create bank account", err)
	}
	if req.IsPrimary && !ba.IsPrimary {
		if err := s.store.SetPrimaryBankAccount(ctx, caller.UserID, ba.ID); err != nil {
			return nil, apperr.Persistence("failed to set primary bank account", err)
		}
		ba.IsPrimary = true
	}
	return ba, nil
}

// ListBankAccounts returns the caller's bank accounts.
func (s *Service) ListBankAccounts(ctx context.Context, caller models.Caller) ([]models.BankAccount, error) {
	items, err := s.store.ListBankAccounts(ctx, caller.UserID)
	if err != nil {
		return nil, apperr.Persistence("failed to list bank accounts", err)
	}
	return items, nil
}

// GetBankAccount returns one of the caller's bank accounts.
func (s *Service) GetBankAccount(ctx context.Context, caller models.Caller, id string) (*models.BankAccount, error) {
	ba, err := s.store.GetBankAccount(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "bank account")
	}
	// Other users' accounts are reported as missing.
	if ba.UserID != caller.UserID {
		return nil, apperr.NotFound("bank account not found")
	}
	return ba, nil
}

// BankAccountUpdate holds the editable bank account fields. Nil fields are left unchanged.
type BankAccountUpdate struct {
	BankName      *string
	AccountName   *string
	AccountType   *string
	BranchName    *string
	RoutingNumber *string
	SwiftCode     *string
	IsActive      *bool
	IsPrimary     *bool
}

// UpdateBankAccount edits one of the caller's bank accounts.
func (s *Service) UpdateBankAccount(ctx context.Context, caller models.Caller, id string, req BankAccountUpdate) (*models.BankAccount, error) {
	ba, err := s.GetBankAccount(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	fields := map[string][]string{}
	if req.BankName != nil && *req.BankName == "" {
		fields["bank_name"] = []string{"bank name is required"}
	}
	if req.AccountName != nil && *req.AccountName == "" {
		fields["account_name"] = []string{"account name is required"}
	}
	if req.AccountType != nil && !accountTypes[*req.AccountType] {
		fields["account_type"] = []string{"account type must be one of savings, current, fixed"}
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("Validation error", fields)
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&ba.BankName, req.BankName)
	set(&ba.AccountName, req.AccountName)
	set(&ba.AccountType, req.AccountType)
	set(&ba.BranchName, req.BranchName)
	set(&ba.RoutingNumber, req.RoutingNumber)
	set(&ba.SwiftCode, req.SwiftCode)
	if req.IsActive != nil {
		if ba.IsPrimary && !*req.IsActive {
			return nil, apperr.InvalidState(deactivatePrimaryMsg)
		}
		ba.IsActive = *req.IsActive
	}
	ba.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateBankAccount(ctx, ba); err != nil {
		if errors.Is(err, storage.ErrDefaultInstrument) {
			return nil, apperr.InvalidState(deactivatePrimaryMsg)
		}
		return nil, apperr.Persistence("Failed to update bank account", err)
	}
	if req.IsPrimary != nil && *req.IsPrimary && !ba.IsPrimary {
		return s.SetPrimaryBankAccount(ctx, caller, id)
	}
	return ba, nil
}

const deactivatePrimaryMsg = "Cannot deactivate the primary bank account. Set another account as primary first."

// VerifyBankAccount records that the caller confirmed ownership of the account
// and activates it. Verifying twice keeps the first verification time.
func (s *Service) VerifyBankAccount(ctx context.Context, caller models.Caller, id string) (*models.BankAccount, error) {
	ba, err := s.GetBankAccount(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if ba.VerifiedAt != nil && ba.IsActive {
		return ba, nil
	}

	now := s.now().UTC()
	if ba.VerifiedAt == nil {
		ba.VerifiedAt = &now
		ba.VerificationMethod = models.VerificationManual
	}
	ba.IsActive = true
	ba.UpdatedAt = now

	if err := s.store.UpdateBankAccount(ctx, ba); err != nil {
		return nil, notFoundOr(err, "bank account")
	}
	s.logger.Info("bank account verified",
		zap.String("bank_account_id", ba.ID),
		zap.String("user_id", caller.UserID),
	)
	return ba, nil
}

// SetPrimaryBankAccount makes one of the caller's active bank accounts primary.
func (s *Service) SetPrimaryBankAccount(ctx context.Context, caller models.Caller, id string) (*models.BankAccount, error) {
	ba, err := s.GetBankAccount(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if !ba.IsActive {
		return nil, apperr.InvalidState("Cannot set an inactive account as primary")
	}
	if err := s.store.SetPrimaryBankAccount(ctx, caller.UserID, id); err != nil {
		if errors.Is(err, storage.ErrInstrumentInactive) {
			return nil, apperr.InvalidState("Cannot set an inactive account as primary")
		}
		return nil, notFoundOr(err, "bank account")
	}
	ba.IsPrimary = true
	return ba, nil
}

// DeleteBankAccount removes one of the caller's bank accounts unless transactions reference it.
func (s *Service) DeleteBankAccount(ctx context.Context, caller models.Caller, id string) error {
	if _, err := s.GetBankAccount(ctx, caller, id); err != nil {
		return err
	}
	used, err := s.store.BankAccountHasTransactions(ctx, id)
	if err != nil {
		return apperr.Persistence("failed to check bank account usage", err)
	}
	if used {
		return apperr.InvalidState("Cannot delete a bank account with transactions. Please deactivate it instead.")
	}
	if err := s.store.DeleteBankAccount(ctx, caller.UserID, id); err != nil {
		if errors.Is(err, storage.ErrInstrumentInUse) {
			return apperr.InvalidState("Cannot delete a bank account with transactions. Please deactivate it instead.")
		}
		return notFoundOr(err, "bank account")
	}
	return nil
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound(what + " not found")
	}
	return apperr.Persistence("failed to access "+what, err)
}
