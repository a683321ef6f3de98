// Package reconcile brings stored transaction statuses in line with what the
// payment providers report, either when a provider calls back or when a client
// or the stale-pending sweep polls.
package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/chris/digital-wallet/pkg/apperr"
	"github.com/chris/digital-wallet/pkg/events"
	"github.com/chris/digital-wallet/pkg/gateway"
	"github.com/chris/digital-wallet/pkg/gateway/bkash"
	"github.com/chris/digital-wallet/pkg/gateway/sslcommerz"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/metrics"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage"
	"go.uber.org/zap"
)

var statusMaps = map[string]map[gateway.Status]models.TransactionStatus{
	bkash.Code: {
		"Completed":  models.StatusCompleted,
		"Processing": models.StatusProcessing,
		"Initiated":  models.StatusPending,
		"Cancelled":  models.StatusFailed,
		"Failed":     models.StatusFailed,
	},
	sslcommerz.Code: {
		"VALID":     models.StatusCompleted,
		"VALIDATED": models.StatusCompleted,
		"PENDING":   models.StatusPending,
		"FAILED":    models.StatusFailed,
		"CANCELLED": models.StatusFailed,
	},
}

// Map translates a provider status token to a canonical status. Anything the
// provider's table does not list maps to pending.
func Map(code string, status gateway.Status) models.TransactionStatus {
	if mapped, ok := statusMaps[code][status]; ok {
		return mapped
	}
	return models.StatusPending
}

// Store is the storage reconciliation reads and conditionally updates.
type Store interface {
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	GetTransactionByToken(ctx context.Context, token string) (*models.Transaction, error)
	GetTransactionByReference(ctx context.Context, referenceID string) (*models.Transaction, error)
	GetStalePendingTransactions(ctx context.Context, maxAge time.Duration) ([]models.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, update storage.StatusUpdate) error
	GetPaymentMethod(ctx context.Context, id string) (*models.PaymentMethod, error)
}

// Resolver returns the adapter for a gateway code.
type Resolver interface {
	Resolve(ctx context.Context, code string) (gateway.Adapter, error)
}

// Reconciler applies provider statuses to stored transactions.
type Reconciler struct {
	store    Store
	gateways Resolver
	events   events.Publisher
	metrics  *metrics.Metrics
	logger   *logging.Logger
	now      func() time.Time
}

// New creates a Reconciler. publisher may be nil.
func New(store Store, gateways Resolver, publisher events.Publisher, m *metrics.Metrics, logger *logging.Logger) *Reconciler {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &Reconciler{
		store:    store,
		gateways: gateways,
		events:   publisher,
		metrics:  m,
		logger:   logging.OrGlobal(logger).Named("reconcile"),
		now:      time.Now,
	}
}

// HandleCallback processes a provider callback and returns the transaction in
// its resulting state. No transaction is ever created here.
func (r *Reconciler) HandleCallback(ctx context.Context, code, outcome string, params url.Values) (*models.Transaction, error) {
	adapter, err := r.gateways.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, gateway.ErrUnsupportedGateway) {
			r.logger.Warn("callback for unsupported gateway", zap.String("code", code))
			return nil, apperr.NotFound("unknown payment gateway")
		}
		r.logger.Error("callback for unavailable gateway", zap.String("code", code), zap.Error(err))
		return nil, err
	}
	parser, ok := adapter.(gateway.CallbackParser)
	if !ok {
		return nil, apperr.Validation(fmt.Sprintf("gateway %s does not accept callbacks", code), nil)
	}

	cb, err := parser.ParseCallback(outcome, params)
	if err != nil {
		r.logger.Warn("invalid callback", zap.String("code", code), zap.Error(err))
		return nil, apperr.Validation(err.Error(), nil)
	}

	var tx *models.Transaction
	switch cb.LookupBy {
	case gateway.LookupByReference:
		tx, err = r.store.GetTransactionByReference(ctx, cb.Key)
	default:
		tx, err = r.store.GetTransactionByToken(ctx, cb.Key)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("callback for unknown transaction", zap.String("code", code), zap.String("key", cb.Key))
			return nil, apperr.NotFound("transaction not found")
		}
		return nil, apperr.Persistence("failed to load transaction", err)
	}

	status := cb.FinalStatus
	if status == "" {
		status, err = adapter.GetPaymentStatus(ctx, cb.PaymentID)
		if err != nil {
			return nil, r.statusCheckFailed(code, tx, err)
		}
	}

	return r.apply(ctx, tx, Map(code, status), cb.GatewayReference, cb.Raw, "callback")
}

// Poll returns the caller's transaction, first asking the provider for news
// when it is still pending with a provider reference. idOrToken may be the row
// id or the public token.
func (r *Reconciler) Poll(ctx context.Context, caller models.Caller, idOrToken string) (*models.Transaction, error) {
	tx, err := r.store.GetTransaction(ctx, idOrToken)
	if errors.Is(err, storage.ErrNotFound) {
		tx, err = r.store.GetTransactionByToken(ctx, idOrToken)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("transaction not found")
		}
		return nil, apperr.Persistence("failed to load transaction", err)
	}
	// Another user's transaction is reported as missing.
	if !tx.OwnedBy(caller.UserID) {
		return nil, apperr.NotFound("transaction not found")
	}
	return r.refresh(ctx, tx, "poll")
}

// SweepResult summarizes a stale-pending sweep.
type SweepResult struct {
	Checked int
	Updated int
	Failed  int
}

// SweepPending polls every pending transaction with a provider reference that
// is older than olderThan. One failure does not stop the sweep.
func (r *Reconciler) SweepPending(ctx context.Context, olderThan time.Duration) (SweepResult, error) {
	var result SweepResult

	stale, err := r.store.GetStalePendingTransactions(ctx, olderThan)
	if err != nil {
		return result, fmt.Errorf("failed to get stale pending transactions: %w", err)
	}

	for i := range stale {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		tx := &stale[i]
		result.Checked++

		updated, err := r.refresh(ctx, tx, "sweep")
		if err != nil {
			result.Failed++
			r.logger.Error("failed to reconcile stale transaction",
				zap.String("transaction_id", tx.TransactionID),
				zap.Error(err),
			)
			continue
		}
		if updated.Status != models.StatusPending {
			result.Updated++
		}
	}

	r.logger.Info("stale pending sweep finished",
		zap.Int("checked", result.Checked),
		zap.Int("updated", result.Updated),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (r *Reconciler) refresh(ctx context.Context, tx *models.Transaction, source string) (*models.Transaction, error) {
	if tx.Status != models.StatusPending || tx.ReferenceID == "" || tx.PaymentMethodID == nil {
		return tx, nil
	}

	pm, err := r.store.GetPaymentMethod(ctx, *tx.PaymentMethodID)
	if err != nil {
		// A deleted method leaves no gateway to ask; the stored status stands.
		if errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("payment method gone, keeping stored status",
				zap.String("transaction_id", tx.TransactionID),
				zap.String("payment_method_id", *tx.PaymentMethodID),
			)
			return tx, nil
		}
		return nil, apperr.Persistence("failed to load payment method", err)
	}

	adapter, err := r.gateways.Resolve(ctx, pm.PaymentGatewayCode)
	if err != nil {
		r.logger.Error("payment gateway unavailable", zap.String("code", pm.PaymentGatewayCode), zap.Error(err))
		return nil, err
	}

	status, err := adapter.GetPaymentStatus(ctx, tx.ReferenceID)
	if err != nil {
		return nil, r.statusCheckFailed(pm.PaymentGatewayCode, tx, err)
	}

	return r.apply(ctx, tx, Map(pm.PaymentGatewayCode, status), "", nil, source)
}

func (r *Reconciler) statusCheckFailed(code string, tx *models.Transaction, err error) error {
	r.logger.Error("provider status check failed",
		zap.String("code", code),
		zap.String("transaction_id", tx.TransactionID),
		zap.Error(err),
	)
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		return &gateway.Error{Provider: gwErr.Provider, Kind: gwErr.Kind, Message: "Status check failed: " + gwErr.Message, Err: err}
	}
	return &gateway.Error{Provider: code, Kind: gateway.KindNetwork, Message: "Status check failed: " + err.Error(), Err: err}
}

// apply moves tx to target if that is a legal forward transition. The write is
// conditional on the status tx was read with; losing that race re-reads the
// row and emits nothing.
func (r *Reconciler) apply(ctx context.Context, tx *models.Transaction, target models.TransactionStatus, gatewayRef string, raw json.RawMessage, source string) (*models.Transaction, error) {
	if target == tx.Status {
		return tx, nil
	}
	if !tx.Status.CanTransitionTo(target) {
		r.logger.Info("ignoring illegal status transition",
			zap.String("transaction_id", tx.TransactionID),
			zap.String("from", string(tx.Status)),
			zap.String("to", string(target)),
			zap.String("source", source),
		)
		return tx, nil
	}

	now := r.now().UTC()
	update := storage.StatusUpdate{
		ID:               tx.ID,
		From:             tx.Status,
		To:               target,
		GatewayReference: gatewayRef,
		ResponseData:     raw,
	}
	if target == models.StatusCompleted {
		update.ProcessedAt = &now
	}

	if err := r.store.UpdateTransactionStatus(ctx, update); err != nil {
		if errors.Is(err, storage.ErrStatusConflict) {
			r.logger.Info("transaction status changed concurrently",
				zap.String("transaction_id", tx.TransactionID),
				zap.String("expected", string(tx.Status)),
			)
			current, err := r.store.GetTransaction(ctx, tx.ID)
			if err != nil {
				return nil, apperr.Persistence("failed to reload transaction", err)
			}
			return current, nil
		}
		return nil, apperr.Persistence("failed to update transaction status", err)
	}

	from := tx.Status
	tx.Status = target
	tx.UpdatedAt = now
	if gatewayRef != "" {
		tx.GatewayReference = gatewayRef
	}
	if len(raw) > 0 {
		tx.ResponseData = []byte(raw)
	}
	if update.ProcessedAt != nil {
		tx.ProcessedAt = update.ProcessedAt
	}

	r.metrics.RecordStatusTransition(string(from), string(target), source)
	r.logger.Info("transaction status updated",
		zap.String("transaction_id", tx.TransactionID),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
		zap.String("source", source),
	)

	if target == models.StatusCompleted {
		r.events.Dispatch(ctx, events.TransactionProcessed{Transaction: *tx, OccurredAt: now})
	}
	return tx, nil
}
