package bills

import (
	"context"
	"net/http"
	"strconv"

	"github.com/chris/digital-wallet/pkg/api"
	"github.com/chris/digital-wallet/pkg/apperr"
	"github.com/chris/digital-wallet/pkg/bills"
	"github.com/chris/digital-wallet/pkg/handlers/respond"
	"github.com/chris/digital-wallet/pkg/handlers/transactions"
	"github.com/chris/digital-wallet/pkg/ledger"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/mapping"
	"github.com/chris/digital-wallet/pkg/models"
)

// Service is the bill management the handlers call into.
type Service interface {
	Create(ctx context.Context, caller models.Caller, in bills.Input) (*models.Bill, error)
	Get(ctx context.Context, caller models.Caller, id string) (*models.Bill, error)
	List(ctx context.Context, caller models.Caller, f bills.Filter) ([]models.Bill, error)
	DueSoon(ctx context.Context, caller models.Caller, days int) ([]models.Bill, error)
	Update(ctx context.Context, caller models.Caller, id string, in bills.Input) (*models.Bill, error)
	Delete(ctx context.Context, caller models.Caller, id string) error
	ToggleAutoPay(ctx context.Context, caller models.Caller, id string, enabled bool, paymentMethodID, bankAccountID *string) (*models.Bill, error)
}

// Payer pays bills through the ledger.
type Payer interface {
	PayBill(ctx context.Context, caller models.Caller, billID string, req ledger.PayBillRequest) (*ledger.Result, error)
}

var (
	_ Service = (*bills.Service)(nil)
	_ Payer   = (*ledger.Ledger)(nil)
)

// BillsHandler serves bills.
type BillsHandler struct {
	Service Service
	Payer   Payer
	Logger  *logging.Logger
}

// NewBillsHandler creates a new BillsHandler.
func NewBillsHandler(svc Service, payer Payer, logger *logging.Logger) *BillsHandler {
	return &BillsHandler{Service: svc, Payer: payer, Logger: logging.OrGlobal(logger).Named("bills")}
}

// ListBills returns the caller's bills. Supports bill_type, payment_status and auto_pay filters.
func (h *BillsHandler) ListBills(w http.ResponseWriter, r *http.Request) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := bills.Filter{
		BillType:      q.Get("bill_type"),
		PaymentStatus: models.BillPaymentStatus(q.Get("payment_status")),
		AutoPayOnly:   q.Get("auto_pay") == "true" || q.Get("auto_pay") == "1",
	}
	list, err := h.Service.List(r.Context(), caller, filter)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "", mapping.ToApiBills(list))
}

// DueSoon returns unpaid bills due within the days query parameter, 7 by default.
func (h *BillsHandler) DueSoon(w http.ResponseWriter, r *http.Request) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respond.Error(w, h.Logger, apperr.Field("days", "days must be a positive integer"))
			return
		}
		days = n
	}
	list, err := h.Service.DueSoon(r.Context(), caller, days)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "", mapping.ToApiBills(list))
}

// CreateBill adds a bill for the caller.
func (h *BillsHandler) CreateBill(w http.ResponseWriter, r *http.Request) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	var body api.BillInput
	if !respond.Decode(w, r, &body) {
		return
	}
	bill, err := h.Service.Create(r.Context(), caller, mapping.ToBillInput(&body))
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusCreated, "Bill created successfully", mapping.ToApiBill(bill))
}

// GetBill returns one of the caller's bills.
func (h *BillsHandler) GetBill(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	bill, err := h.Service.Get(r.Context(), caller, id)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "", mapping.ToApiBill(bill))
}

// UpdateBill edits one of the caller's bills.
func (h *BillsHandler) UpdateBill(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	var body api.BillInput
	if !respond.Decode(w, r, &body) {
		return
	}
	bill, err := h.Service.Update(r.Context(), caller, id, mapping.ToBillInput(&body))
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "Bill updated successfully", mapping.ToApiBill(bill))
}

// DeleteBill removes one of the caller's bills.
func (h *BillsHandler) DeleteBill(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), caller, id); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Message(w, http.StatusOK, "Bill deleted successfully")
}

// PayBill pays one of the caller's bills.
func (h *BillsHandler) PayBill(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	var body api.PayBill
	if !respond.Decode(w, r, &body) {
		return
	}
	result, err := h.Payer.PayBill(r.Context(), caller, id, mapping.ToPayBillRequest(&body))
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	transactions.WriteResult(w, result)
}

// ToggleAutoPay turns auto-pay on or off for one of the caller's bills.
func (h *BillsHandler) ToggleAutoPay(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	var body api.ToggleAutoPay
	if !respond.Decode(w, r, &body) {
		return
	}
	bill, err := h.Service.ToggleAutoPay(r.Context(), caller, id, body.AutoPay, body.DefaultPaymentMethodId, body.DefaultBankAccountId)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	message := "Auto-pay disabled"
	if bill.AutoPay {
		message = "Auto-pay enabled"
	}
	respond.Data(w, http.StatusOK, message, mapping.ToApiBill(bill))
}
