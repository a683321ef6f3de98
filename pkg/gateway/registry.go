package gateway

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage"
	"go.uber.org/zap"
)

// Factory builds an adapter from its registry entry. It must fail when the
// entry's credentials are unusable.
type Factory func(entry *models.PaymentGateway) (Adapter, error)

// Registry resolves adapters by gateway code.
type Registry struct {
	entries   storage.GatewayReader
	logger    *logging.Logger
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a Registry that reads entries from the given store.
func NewRegistry(entries storage.GatewayReader, logger *logging.Logger) *Registry {
	return &Registry{
		entries:   entries,
		logger:    logging.OrGlobal(logger).Named("gateway"),
		factories: make(map[string]Factory),
	}
}

// Register binds a factory to a code. Registering the same code twice replaces the factory.
func (r *Registry) Register(code string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[code] = factory
}

// Codes returns the codes with a registered adapter.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.factories))
	for code := range r.factories {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Resolve builds the adapter for code from its current registry entry.
func (r *Registry) Resolve(ctx context.Context, code string) (Adapter, error) {
	r.mu.RLock()
	factory, ok := r.factories[code]
	r.mu.RUnlock()
	if !ok {
		r.logger.Error("no adapter registered for gateway", zap.String("code", code))
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGateway, code)
	}

	entry, err := r.entries.GetGateway(ctx, code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			r.logger.Error("gateway registry entry missing", zap.String("code", code))
			return nil, fmt.Errorf("%w: %s", ErrGatewayNotConfigured, code)
		}
		return nil, fmt.Errorf("failed to load gateway %s: %w", code, err)
	}
	if !entry.IsActive {
		r.logger.Error("gateway registry entry inactive", zap.String("code", code))
		return nil, fmt.Errorf("%w: %s is inactive", ErrGatewayNotConfigured, code)
	}

	adapter, err := factory(entry)
	if err != nil {
		r.logger.Error("gateway adapter construction failed", zap.String("code", code), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %v", ErrGatewayNotConfigured, code, err)
	}
	return adapter, nil
}
