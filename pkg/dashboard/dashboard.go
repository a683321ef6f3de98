// Package dashboard computes the read-only overview shown on the user's home screen.
package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/chris/digital-wallet/pkg/apperr"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// Window is how far back the summary and the recent count look, and how far
	// ahead upcoming bills are collected.
	Window = 30 * 24 * time.Hour

	// RecentLimit caps the recent transactions list.
	RecentLimit = 10
)

// Store is the storage the dashboard reads from.
type Store interface {
	ListTransactionsByUserID(ctx context.Context, userID string, filter storage.TransactionFilter) ([]models.Transaction, error)
	ListBills(ctx context.Context, userID string) ([]models.Bill, error)
}

// Service aggregates a user's transactions and bills.
type Service struct {
	store  Store
	logger *logging.Logger
	now    func() time.Time
}

// New creates a Service.
func New(store Store, logger *logging.Logger) *Service {
	return &Service{
		store:  store,
		logger: logging.OrGlobal(logger).Named("dashboard"),
		now:    time.Now,
	}
}

// Overview holds the headline figures.
type Overview struct {
	TotalIncome             decimal.Decimal
	TotalExpenses           decimal.Decimal
	UpcomingBillsCount      int
	RecentTransactionsCount int
}

// TypeTotal is the count and sum of one transaction type.
type TypeTotal struct {
	Count int
	Total decimal.Decimal
}

// Summary groups the window's completed transactions by type.
type Summary struct {
	Income   map[models.TransactionType]TypeTotal
	Expenses map[models.TransactionType]TypeTotal
	Start    time.Time
	End      time.Time
}

// IsIncome reports whether t adds money to the user. Everything else is an expense.
func IsIncome(t models.TransactionType) bool {
	return t == models.TypeDeposit
}

// Overview returns all-time completed income and expenses plus the window counts.
func (s *Service) Overview(ctx context.Context, caller models.Caller) (*Overview, error) {
	txs, err := s.transactions(ctx, caller)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.UpcomingBills(ctx, caller)
	if err != nil {
		return nil, err
	}

	since := s.now().UTC().Add(-Window)
	out := &Overview{TotalIncome: decimal.Zero, TotalExpenses: decimal.Zero, UpcomingBillsCount: len(upcoming)}
	for _, tx := range txs {
		if !tx.CreatedAt.Before(since) {
			out.RecentTransactionsCount++
		}
		if tx.Status != models.StatusCompleted {
			continue
		}
		if IsIncome(tx.TransactionType) {
			out.TotalIncome = out.TotalIncome.Add(tx.Amount)
		} else {
			out.TotalExpenses = out.TotalExpenses.Add(tx.Amount)
		}
	}
	s.logger.Debug("dashboard overview computed",
		zap.String("user_id", caller.UserID),
		zap.Int("transactions", len(txs)),
	)
	return out, nil
}

// TransactionsSummary groups the completed transactions of the last window by type.
func (s *Service) TransactionsSummary(ctx context.Context, caller models.Caller) (*Summary, error) {
	txs, err := s.transactions(ctx, caller)
	if err != nil {
		return nil, err
	}

	end := s.now().UTC()
	out := &Summary{
		Income:   map[models.TransactionType]TypeTotal{},
		Expenses: map[models.TransactionType]TypeTotal{},
		Start:    end.Add(-Window),
		End:      end,
	}
	for _, tx := range txs {
		if tx.Status != models.StatusCompleted || tx.CreatedAt.Before(out.Start) {
			continue
		}
		group := out.Expenses
		if IsIncome(tx.TransactionType) {
			group = out.Income
		}
		tt := group[tx.TransactionType]
		tt.Count++
		tt.Total = tt.Total.Add(tx.Amount)
		group[tx.TransactionType] = tt
	}
	return out, nil
}

// UpcomingBills returns the caller's active, not yet paid bills due before the
// end of the window, overdue ones included, soonest first.
func (s *Service) UpcomingBills(ctx context.Context, caller models.Caller) ([]models.Bill, error) {
	bills, err := s.store.ListBills(ctx, caller.UserID)
	if err != nil {
		return nil, apperr.Persistence("failed to list bills", err)
	}
	until := s.now().UTC().Add(Window)
	out := make([]models.Bill, 0, len(bills))
	for _, b := range bills {
		if b.IsActive && b.PaymentStatus != models.BillPaid && !b.NextDueDate.After(until) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NextDueDate.Before(out[j].NextDueDate) })
	return out, nil
}

// RecentTransactions returns the caller's newest transactions of any status.
func (s *Service) RecentTransactions(ctx context.Context, caller models.Caller) ([]models.Transaction, error) {
	txs, err := s.transactions(ctx, caller)
	if err != nil {
		return nil, err
	}
	if len(txs) > RecentLimit {
		txs = txs[:RecentLimit]
	}
	return txs, nil
}

func (s *Service) transactions(ctx context.Context, caller models.Caller) ([]models.Transaction, error) {
	txs, err := s.store.ListTransactionsByUserID(ctx, caller.UserID, storage.TransactionFilter{})
	if err != nil {
		return nil, apperr.Persistence("failed to list transactions", err)
	}
	return txs, nil
}
