package instruments

import (
	"context"
	"net/http"

	"github.com/chris/digital-wallet/pkg/api"
	"github.com/chris/digital-wallet/pkg/handlers/respond"
	"github.com/chris/digital-wallet/pkg/instruments"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/mapping"
	"github.com/chris/digital-wallet/pkg/models"
)

// Service is the instrument management the handlers call into.
type Service interface {
	CreatePaymentMethod(ctx context.Context, caller models.Caller, req instruments.NewPaymentMethod) (*models.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, caller models.Caller) ([]models.PaymentMethod, error)
	GetPaymentMethod(ctx context.Context, caller models.Caller, id string) (*models.PaymentMethod, error)
	SetDefaultPaymentMethod(ctx context.Context, caller models.Caller, id string) (*models.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, caller models.Caller, id string) error

	CreateBankAccount(ctx context.Context, caller models.Caller, req instruments.NewBankAccount) (*models.BankAccount, error)
	ListBankAccounts(ctx context.Context, caller models.Caller) ([]models.BankAccount, error)
	GetBankAccount(ctx context.Context, caller models.Caller, id string) (*models.BankAccount, error)
	UpdateBankAccount(ctx context.Context, caller models.Caller, id string, req instruments.BankAccountUpdate) (*models.BankAccount, error)
	SetPrimaryBankAccount(ctx context.Context, caller models.Caller, id string) (*models.BankAccount, error)
	VerifyBankAccount(ctx context.Context, caller models.Caller, id string) (*models.BankAccount, error)
	DeleteBankAccount(ctx context.Context, caller models.Caller, id string) error
}

var _ Service = (*instruments.Service)(nil)

// InstrumentsHandler serves payment methods and bank accounts.
type InstrumentsHandler struct {
	Service Service
	Logger  *logging.Logger
}

// NewInstrumentsHandler creates a new InstrumentsHandler.
func NewInstrumentsHandler(svc Service, logger *logging.Logger) *InstrumentsHandler {
	return &InstrumentsHandler{Service: svc, Logger: logging.OrGlobal(logger).Named("instruments")}
}

// ListPaymentMethods returns the caller's payment methods.
func (h *InstrumentsHandler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	pms, err := h.Service.ListPaymentMethods(r.Context(), caller)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "", mapping.ToApiPaymentMethods(pms))
}

// CreatePaymentMethod adds a payment method for the caller.
func (h *InstrumentsHandler) CreatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	var body api.NewPaymentMethod
	if !respond.Decode(w, r, &body) {
		return
	}
	pm, err := h.Service.CreatePaymentMethod(r.Context(), caller, mapping.ToNewPaymentMethod(&body))
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusCreated, "Payment method added successfully", mapping.ToApiPaymentMethod(pm))
}

// GetPaymentMethod returns one of the caller's payment methods.
func (h *InstrumentsHandler) GetPaymentMethod(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	pm, err := h.Service.GetPaymentMethod(r.Context(), caller, id)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "", mapping.ToApiPaymentMethod(pm))
}

// SetDefaultPaymentMethod makes a payment method the caller's default.
func (h *InstrumentsHandler) SetDefaultPaymentMethod(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	pm, err := h.Service.SetDefaultPaymentMethod(r.Context(), caller, id)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "Default payment method updated", mapping.ToApiPaymentMethod(pm))
}

// DeletePaymentMethod removes a payment method.
func (h *InstrumentsHandler) DeletePaymentMethod(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeletePaymentMethod(r.Context(), caller, id); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Message(w, http.StatusOK, "Payment method deleted successfully")
}

// ListBankAccounts returns the caller's bank accounts.
func (h *InstrumentsHandler) ListBankAccounts(w http.ResponseWriter, r *http.Request) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	accounts, err := h.Service.ListBankAccounts(r.Context(), caller)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "", mapping.ToApiBankAccounts(accounts))
}

// CreateBankAccount adds a bank account for the caller.
func (h *InstrumentsHandler) CreateBankAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	var body api.NewBankAccount
	if !respond.Decode(w, r, &body) {
		return
	}
	ba, err := h.Service.CreateBankAccount(r.Context(), caller, mapping.ToNewBankAccount(&body))
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusCreated, "Bank account added successfully", mapping.ToApiBankAccount(ba))
}

// GetBankAccount returns one of the caller's bank accounts.
func (h *InstrumentsHandler) GetBankAccount(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	ba, err := h.Service.GetBankAccount(r.Context(), caller, id)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "", mapping.ToApiBankAccount(ba))
}

// UpdateBankAccount edits one of the caller's bank accounts.
func (h *InstrumentsHandler) UpdateBankAccount(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	var body api.BankAccountUpdate
	if !respond.Decode(w, r, &body) {
		return
	}
	ba, err := h.Service.UpdateBankAccount(r.Context(), caller, id, mapping.ToBankAccountUpdate(&body))
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "Bank account updated successfully", mapping.ToApiBankAccount(ba))
}

// SetPrimaryBankAccount makes a bank account the caller's primary.
func (h *InstrumentsHandler) SetPrimaryBankAccount(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	ba, err := h.Service.SetPrimaryBankAccount(r.Context(), caller, id)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "Primary bank account updated", mapping.ToApiBankAccount(ba))
}

// VerifyBankAccount marks a bank account verified and active.
func (h *InstrumentsHandler) VerifyBankAccount(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	ba, err := h.Service.VerifyBankAccount(r.Context(), caller, id)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "Bank account verified successfully", mapping.ToApiBankAccount(ba))
}

// DeleteBankAccount removes a bank account no transaction references.
func (h *InstrumentsHandler) DeleteBankAccount(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteBankAccount(r.Context(), caller, id); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Message(w, http.StatusOK, "Bank account deleted successfully")
}
