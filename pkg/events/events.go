// Package events carries domain events from the ledger and reconciliation to
// the listeners that react to them.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/models"
	"go.uber.org/zap"
)

// TransactionProcessed is emitted exactly once per transaction, when it first
// reaches completed.
type TransactionProcessed struct {
	Transaction models.Transaction
	OccurredAt  time.Time
}

// Listener reacts to processed transactions.
type Listener interface {
	Name() string
	HandleTransactionProcessed(ctx context.Context, event TransactionProcessed) error
}

// Publisher is what emitters depend on.
type Publisher interface {
	Dispatch(ctx context.Context, event TransactionProcessed)
}

// Dispatcher delivers events to every subscribed listener in order. A listener
// failure is logged and does not stop delivery to the others.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners []Listener
	logger    *logging.Logger
}

var _ Publisher = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with the given listeners.
func NewDispatcher(logger *logging.Logger, listeners ...Listener) *Dispatcher {
	return &Dispatcher{
		listeners: listeners,
		logger:    logging.OrGlobal(logger).Named("events"),
	}
}

// Subscribe adds a listener.
func (d *Dispatcher) Subscribe(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

func (d *Dispatcher) Dispatch(ctx context.Context, event TransactionProcessed) {
	d.mu.RLock()
	listeners := make([]Listener, len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.RUnlock()

	for _, l := range listeners {
		if err := l.HandleTransactionProcessed(ctx, event); err != nil {
			d.logger.Error("event listener failed",
				zap.String("listener", l.Name()),
				zap.String("transaction_id", event.Transaction.TransactionID),
				zap.Error(err),
			)
		}
	}
}

// Discard is a Publisher that drops every event.
type Discard struct{}

func (Discard) Dispatch(context.Context, TransactionProcessed) {}
