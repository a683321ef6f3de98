package dashboard

import (
	"context"
	"net/http"

	"github.com/chris/digital-wallet/pkg/dashboard"
	"github.com/chris/digital-wallet/pkg/handlers/respond"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/mapping"
	"github.com/chris/digital-wallet/pkg/models"
)

// Service is the dashboard aggregation the handlers call into.
type Service interface {
	Overview(ctx context.Context, caller models.Caller) (*dashboard.Overview, error)
	TransactionsSummary(ctx context.Context, caller models.Caller) (*dashboard.Summary, error)
	UpcomingBills(ctx context.Context, caller models.Caller) ([]models.Bill, error)
	RecentTransactions(ctx context.Context, caller models.Caller) ([]models.Transaction, error)
}

var _ Service = (*dashboard.Service)(nil)

// DashboardHandler serves the read-only dashboard.
type DashboardHandler struct {
	Service Service
	Logger  *logging.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(svc Service, logger *logging.Logger) *DashboardHandler {
	return &DashboardHandler{Service: svc, Logger: logging.OrGlobal(logger).Named("dashboard")}
}

// Index returns the headline figures.
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	o, err := h.Service.Overview(r.Context(), caller)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "", mapping.ToApiDashboardOverview(o))
}

// TransactionsSummary returns the last 30 days of completed transactions grouped by type.
func (h *DashboardHandler) TransactionsSummary(w http.ResponseWriter, r *http.Request) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	s, err := h.Service.TransactionsSummary(r.Context(), caller)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "", mapping.ToApiTransactionsSummary(s))
}

// UpcomingBills returns unpaid bills due within 30 days, overdue ones first.
func (h *DashboardHandler) UpcomingBills(w http.ResponseWriter, r *http.Request) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	list, err := h.Service.UpcomingBills(r.Context(), caller)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "", mapping.ToApiBills(list))
}

// RecentTransactions returns the caller's ten newest transactions.
func (h *DashboardHandler) RecentTransactions(w http.ResponseWriter, r *http.Request) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	txs, err := h.Service.RecentTransactions(r.Context(), caller)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "", mapping.ToApiTransactions(txs))
}
