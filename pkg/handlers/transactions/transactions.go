package transactions

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/chris/digital-wallet/pkg/api"
	"github.com/chris/digital-wallet/pkg/apperr"
	"github.com/chris/digital-wallet/pkg/handlers/respond"
	"github.com/chris/digital-wallet/pkg/ledger"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/mapping"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage"
	"go.uber.org/zap"
)

// Creator creates transactions.
type Creator interface {
	Create(ctx context.Context, caller models.Caller, req ledger.CreateRequest) (*ledger.Result, error)
}

// Reconciler refreshes transaction status from the provider.
type Reconciler interface {
	Poll(ctx context.Context, caller models.Caller, idOrToken string) (*models.Transaction, error)
	HandleCallback(ctx context.Context, code, outcome string, params url.Values) (*models.Transaction, error)
}

// TransactionsHandler holds the dependencies for transaction-related handlers.
type TransactionsHandler struct {
	Store      storage.TransactionReader
	Ledger     Creator
	Reconciler Reconciler
	// StatusPageURL builds where payers land after a provider callback.
	StatusPageURL func(token string) string
	Logger        *logging.Logger
}

// NewTransactionsHandler creates a new TransactionsHandler.
func NewTransactionsHandler(store storage.TransactionReader, l Creator, rec Reconciler, statusPageURL func(string) string, logger *logging.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		Store:         store,
		Ledger:        l,
		Reconciler:    rec,
		StatusPageURL: statusPageURL,
		Logger:        logging.OrGlobal(logger).Named("transactions"),
	}
}

// ListTransactions returns the caller's transactions, optionally filtered by
// type, status and instrument.
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := storage.TransactionFilter{
		Type:            models.TransactionType(q.Get("type")),
		Status:          models.TransactionStatus(q.Get("status")),
		PaymentMethodID: q.Get("payment_method_id"),
		BankAccountID:   q.Get("bank_account_id"),
	}
	fields := map[string][]string{}
	if filter.Type != "" && !filter.Type.Valid() {
		fields["type"] = []string{"the selected type is invalid"}
	}
	if filter.Status != "" && !filter.Status.Valid() {
		fields["status"] = []string{"the selected status is invalid"}
	}
	if len(fields) > 0 {
		respond.Error(w, h.Logger, apperr.Validation("the given data was invalid", fields))
		return
	}

	txs, err := h.Store.ListTransactionsByUserID(r.Context(), caller.UserID, filter)
	if err != nil {
		respond.Error(w, h.Logger, apperr.Persistence("Failed to retrieve transactions", err))
		return
	}
	respond.Data(w, http.StatusOK, "", mapping.ToApiTransactions(txs))
}

// CreateTransaction initiates a payment. Provider checkouts answer with a
// redirect directive, everything else with the created record.
func (h *TransactionsHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	var newTx api.NewTransaction
	if !respond.Decode(w, r, &newTx) {
		return
	}

	result, err := h.Ledger.Create(r.Context(), caller, mapping.ToCreateRequest(&newTx))
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	WriteResult(w, result)
}

// WriteResult answers with a ledger result: 200 with a redirect directive or
// 201 with the created transaction.
func WriteResult(w http.ResponseWriter, result *ledger.Result) {
	if result.Redirect != nil {
		respond.JSON(w, http.StatusOK, api.PaymentRedirect{
			Success:       true,
			Message:       "Transaction initiated",
			RedirectUrl:   result.Redirect.URL,
			TransactionId: result.Redirect.Token,
		})
		return
	}
	respond.Data(w, http.StatusCreated, "Transaction created successfully", mapping.ToApiTransaction(result.Transaction))
}

// GetTransactionById returns one of the caller's transactions by row id or token.
func (h *TransactionsHandler) GetTransactionById(w http.ResponseWriter, r *http.Request, transactionId string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}

	tx, err := h.Store.GetTransaction(r.Context(), transactionId)
	if errors.Is(err, storage.ErrNotFound) {
		tx, err = h.Store.GetTransactionByToken(r.Context(), transactionId)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, h.Logger, apperr.NotFound("transaction not found"))
			return
		}
		respond.Error(w, h.Logger, apperr.Persistence("Failed to retrieve transaction", err))
		return
	}
	if !tx.OwnedBy(caller.UserID) {
		respond.Error(w, h.Logger, apperr.NotFound("transaction not found"))
		return
	}
	respond.Data(w, http.StatusOK, "", mapping.ToApiTransaction(tx))
}

// GetTransactionStatus polls the provider for a pending transaction and
// returns its current status.
func (h *TransactionsHandler) GetTransactionStatus(w http.ResponseWriter, r *http.Request, transactionId string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}

	tx, err := h.Reconciler.Poll(r.Context(), caller, transactionId)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "", mapping.ToTransactionStatusResult(tx))
}

// HandlePaymentCallback processes a provider callback and sends the payer to
// the status page. Parameters may arrive in the query string or a form body.
func (h *TransactionsHandler) HandlePaymentCallback(w http.ResponseWriter, r *http.Request, provider, outcome string) {
	if err := r.ParseForm(); err != nil {
		respond.Error(w, h.Logger, apperr.Validation("invalid callback parameters", nil))
		return
	}

	tx, err := h.Reconciler.HandleCallback(r.Context(), provider, outcome, r.Form)
	if err != nil {
		h.Logger.Warn("payment callback failed",
			zap.String("provider", provider),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
		respond.Error(w, h.Logger, err)
		return
	}

	http.Redirect(w, r, h.StatusPageURL(tx.TransactionID), http.StatusFound)
}
