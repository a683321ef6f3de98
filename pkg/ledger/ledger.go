// Package ledger creates transactions. A row is persisted only after the
// payment gateway, when one is involved, accepted the payment.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chris/digital-wallet/pkg/apperr"
	"github.com/chris/digital-wallet/pkg/gateway"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/metrics"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store is the storage the ledger reads instruments and bills from and writes transactions to.
type Store interface {
	storage.TransactionWriter
	storage.BillReader
	GetPaymentMethod(ctx context.Context, id string) (*models.PaymentMethod, error)
	GetBankAccount(ctx context.Context, id string) (*models.BankAccount, error)
}

// Resolver returns the adapter for a gateway code.
type Resolver interface {
	Resolve(ctx context.Context, code string) (gateway.Adapter, error)
}

// CreateRequest describes a payment attempt.
type CreateRequest struct {
	TransactionType    models.TransactionType
	Amount             decimal.Decimal
	Currency           string
	Description        string
	PaymentFor         string
	CategoryID         *string
	BillID             *string
	ScheduledPaymentID *string
	PaymentMethodID    *string
	BankAccountID      *string
	RecipientName      string
	RecipientAccount   string
	RecipientBank      string
}

// PayBillRequest describes a payment towards a bill. When neither instrument is
// given the bill's default instrument is charged.
type PayBillRequest struct {
	Amount          decimal.Decimal
	PaymentMethodID *string
	BankAccountID   *string
}

// Redirect tells the client to continue the payment at the provider.
type Redirect struct {
	URL   string
	Token string
}

// Result is the outcome of a create. Redirect is set when the provider needs
// the user to finish the payment in its own UI.
type Result struct {
	Transaction *models.Transaction
	Redirect    *Redirect
}

// Config holds optional ledger settings.
type Config struct {
	DefaultCurrency string
	Metrics         *metrics.Metrics
	Logger          *logging.Logger
}

// Ledger owns transaction creation.
type Ledger struct {
	store    Store
	gateways Resolver
	currency string
	metrics  *metrics.Metrics
	logger   *logging.Logger
	now      func() time.Time
	newID    func() string
}

// New creates a Ledger.
func New(store Store, gateways Resolver, cfg Config) *Ledger {
	currency := cfg.DefaultCurrency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return &Ledger{
		store:    store,
		gateways: gateways,
		currency: currency,
		metrics:  cfg.Metrics,
		logger:   logging.OrGlobal(cfg.Logger).Named("ledger"),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

func present(id *string) bool {
	return id != nil && *id != ""
}

func validate(req *CreateRequest) error {
	fields := map[string][]string{}

	if !req.TransactionType.Valid() {
		fields["transaction_type"] = append(fields["transaction_type"], "transaction type must be one of payment, transfer, deposit, withdrawal")
	}
	if !req.Amount.IsPositive() {
		fields["amount"] = append(fields["amount"], "amount must be greater than zero")
	} else if req.Amount.Exponent() < -2 && !req.Amount.Equal(req.Amount.Round(2)) {
		fields["amount"] = append(fields["amount"], "amount must have at most two decimal places")
	}

	hasMethod, hasAccount := present(req.PaymentMethodID), present(req.BankAccountID)
	switch {
	case hasMethod && hasAccount:
		fields["payment_method_id"] = append(fields["payment_method_id"], "provide either a payment method or a bank account, not both")
	case !hasMethod && !hasAccount:
		fields["payment_method_id"] = append(fields["payment_method_id"], "a payment method or a bank account is required")
	}

	if req.TransactionType == models.TypeTransfer {
		if req.RecipientName == "" {
			fields["recipient_name"] = append(fields["recipient_name"], "recipient name is required for transfers")
		}
		if req.RecipientAccount == "" {
			fields["recipient_account"] = append(fields["recipient_account"], "recipient account is required for transfers")
		}
	}

	if len(fields) > 0 {
		return apperr.Validation("the given data was invalid", fields)
	}
	return nil
}

// Create validates req, initiates the payment with the instrument's gateway and
// records the pending transaction together with its side effects in one write.
func (l *Ledger) Create(ctx context.Context, caller models.Caller, req CreateRequest) (*Result, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}

	var bill *models.Bill
	if present(req.BillID) {
		var err error
		if bill, err = l.loadBill(ctx, caller, *req.BillID); err != nil {
			return nil, err
		}
	}
	return l.create(ctx, caller, req, bill)
}

func (l *Ledger) create(ctx context.Context, caller models.Caller, req CreateRequest, bill *models.Bill) (*Result, error) {
	if req.Currency == "" {
		req.Currency = l.currency
	}

	opts := storage.CreateOptions{}
	if bill != nil {
		if err := checkMinimum(bill, req.Amount); err != nil {
			return nil, err
		}
		req.PaymentFor = models.PaymentForBill
		if req.Description == "" {
			req.Description = billDescription(bill)
		}
		opts.MarkBillPending = true
	}

	now := l.now().UTC()
	tx := &models.Transaction{
		ID:                 l.newID(),
		TransactionID:      l.newID(),
		UserID:             caller.UserID,
		CategoryID:         req.CategoryID,
		ScheduledPaymentID: req.ScheduledPaymentID,
		BillID:             req.BillID,
		TransactionType:    req.TransactionType,
		PaymentFor:         req.PaymentFor,
		RecipientName:      req.RecipientName,
		RecipientAccount:   req.RecipientAccount,
		RecipientBank:      req.RecipientBank,
		Amount:             req.Amount,
		Fee:                decimal.Zero,
		Currency:           req.Currency,
		Status:             models.StatusPending,
		Description:        req.Description,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	var (
		resp       *gateway.Response
		instrument string
		provider   string
	)
	if present(req.PaymentMethodID) {
		instrument = "payment_method"
		pm, err := l.loadPaymentMethod(ctx, caller, *req.PaymentMethodID)
		if err != nil {
			return nil, err
		}
		tx.PaymentMethodID = &pm.ID
		provider = pm.PaymentGatewayCode

		resp, err = l.initiate(ctx, caller, pm, tx)
		if err != nil {
			return nil, err
		}
		tx.ReferenceID = resp.PaymentID
		tx.ResponseData = rawResponse(resp)
	} else {
		instrument = "bank_account"
		ba, err := l.loadBankAccount(ctx, caller, *req.BankAccountID)
		if err != nil {
			return nil, err
		}
		tx.BankAccountID = &ba.ID
	}

	if err := l.store.CreateTransaction(ctx, tx, opts); err != nil {
		if resp != nil {
			l.logger.Error("CRITICAL: payment initiated at gateway but transaction was not recorded",
				zap.String("provider", provider),
				zap.String("transaction_id", tx.TransactionID),
				zap.String("reference_id", tx.ReferenceID),
				zap.Error(err),
			)
		}
		return nil, apperr.Persistence("failed to record transaction", err)
	}

	l.metrics.RecordTransactionCreated(string(tx.TransactionType), instrument)
	l.logger.Info("transaction created",
		zap.String("transaction_id", tx.TransactionID),
		zap.String("user_id", tx.UserID),
		zap.String("instrument", instrument),
		zap.String("amount", tx.Amount.StringFixed(2)),
	)

	result := &Result{Transaction: tx}
	if resp != nil && resp.RedirectURL != "" {
		result.Redirect = &Redirect{URL: resp.RedirectURL, Token: tx.TransactionID}
	}
	return result, nil
}

// PayBill pays towards one of the caller's bills and marks it pending.
func (l *Ledger) PayBill(ctx context.Context, caller models.Caller, billID string, req PayBillRequest) (*Result, error) {
	bill, err := l.loadBill(ctx, caller, billID)
	if err != nil {
		return nil, err
	}

	amount := req.Amount
	if amount.IsZero() && bill.Amount != nil {
		amount = *bill.Amount
	}

	methodID, accountID := req.PaymentMethodID, req.BankAccountID
	if !present(methodID) && !present(accountID) {
		methodID, accountID = bill.DefaultPaymentMethodID, bill.DefaultBankAccountID
		if present(methodID) {
			accountID = nil
		}
	}

	create := CreateRequest{
		TransactionType: models.TypePayment,
		Amount:          amount,
		Currency:        bill.Currency,
		Description:     billDescription(bill),
		BillID:          &bill.ID,
		PaymentMethodID: methodID,
		BankAccountID:   accountID,
	}
	if err := validate(&create); err != nil {
		return nil, err
	}
	return l.create(ctx, caller, create, bill)
}

func (l *Ledger) initiate(ctx context.Context, caller models.Caller, pm *models.PaymentMethod, tx *models.Transaction) (*gateway.Response, error) {
	adapter, err := l.gateways.Resolve(ctx, pm.PaymentGatewayCode)
	if err != nil {
		l.logger.Error("payment gateway unavailable",
			zap.String("code", pm.PaymentGatewayCode),
			zap.String("payment_method_id", pm.ID),
			zap.Error(err),
		)
		return nil, err
	}

	purpose := tx.Description
	if purpose == "" {
		purpose = string(tx.TransactionType)
	}
	resp, err := adapter.InitiatePayment(ctx, tx.Amount, tx.Currency, gateway.Metadata{
		TransactionToken: tx.TransactionID,
		CustomerName:     caller.Name,
		CustomerEmail:    caller.Email,
		CustomerPhone:    caller.Phone,
		Purpose:          purpose,
	})
	if err != nil {
		var gwErr *gateway.Error
		if errors.As(err, &gwErr) {
			return nil, &gateway.Error{Provider: gwErr.Provider, Kind: gwErr.Kind, Message: "Payment initiation failed: " + gwErr.Message, Err: err}
		}
		return nil, &gateway.Error{Provider: adapter.Code(), Kind: gateway.KindNetwork, Message: "Payment initiation failed: " + err.Error(), Err: err}
	}
	if resp == nil || !resp.Success {
		msg := "unknown error"
		if resp != nil && resp.Message != "" {
			msg = resp.Message
		}
		l.logger.Warn("payment initiation rejected",
			zap.String("provider", adapter.Code()),
			zap.String("transaction_id", tx.TransactionID),
			zap.String("message", msg),
		)
		return nil, gateway.Rejected(adapter.Code(), "Payment initiation failed: "+msg)
	}
	return resp, nil
}

func (l *Ledger) loadPaymentMethod(ctx context.Context, caller models.Caller, id string) (*models.PaymentMethod, error) {
	pm, err := l.store.GetPaymentMethod(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("payment method not found")
		}
		return nil, apperr.Persistence("failed to load payment method", err)
	}
	if pm.UserID != caller.UserID {
		return nil, apperr.Forbidden("payment method does not belong to you")
	}
	if !pm.IsActive {
		return nil, apperr.Field("payment_method_id", "payment method is inactive")
	}
	return pm, nil
}

func (l *Ledger) loadBankAccount(ctx context.Context, caller models.Caller, id string) (*models.BankAccount, error) {
	ba, err := l.store.GetBankAccount(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("bank account not found")
		}
		return nil, apperr.Persistence("failed to load bank account", err)
	}
	if ba.UserID != caller.UserID {
		return nil, apperr.Forbidden("bank account does not belong to you")
	}
	if !ba.IsActive {
		return nil, apperr.Field("bank_account_id", "bank account is inactive")
	}
	return ba, nil
}

func (l *Ledger) loadBill(ctx context.Context, caller models.Caller, id string) (*models.Bill, error) {
	bill, err := l.store.GetBill(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("bill not found")
		}
		return nil, apperr.Persistence("failed to load bill", err)
	}
	// Other users' bills are reported as missing.
	if bill.UserID != caller.UserID {
		return nil, apperr.NotFound("bill not found")
	}
	return bill, nil
}

// checkMinimum applies the bill's minimum only when the bill has a fixed amount.
func checkMinimum(bill *models.Bill, amount decimal.Decimal) error {
	if bill.Amount == nil || bill.MinimumAmount == nil {
		return nil
	}
	if amount.LessThan(*bill.MinimumAmount) {
		return apperr.Field("amount", fmt.Sprintf("payment amount is less than the minimum required amount of %s", bill.MinimumAmount.StringFixed(2)))
	}
	return nil
}

func billDescription(bill *models.Bill) string {
	return fmt.Sprintf("Payment for %s - %s", bill.Name, bill.AccountNumber)
}

// rawResponse keeps the provider's body verbatim, falling back to the normalized response.
func rawResponse(resp *gateway.Response) []byte {
	if len(resp.Raw) > 0 && json.Valid(resp.Raw) {
		return resp.Raw
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return nil
	}
	return b
}
