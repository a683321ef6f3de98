package events

import (
	"context"
	"fmt"

	"github.com/chris/digital-wallet/pkg/metrics"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/schedule"
	"github.com/chris/digital-wallet/pkg/websockets"
)

// AnalyticsListener counts processed volume per type and currency.
type AnalyticsListener struct {
	metrics *metrics.Metrics
}

func NewAnalyticsListener(m *metrics.Metrics) *AnalyticsListener {
	return &AnalyticsListener{metrics: m}
}

func (l *AnalyticsListener) Name() string { return "analytics" }

func (l *AnalyticsListener) HandleTransactionProcessed(_ context.Context, event TransactionProcessed) error {
	tx := event.Transaction
	l.metrics.RecordTransactionProcessed(string(tx.TransactionType), tx.Currency, tx.Amount)
	return nil
}

// NotificationListener pushes the completed transaction to the owner's open
// websocket connections.
type NotificationListener struct {
	publisher websockets.Publisher
}

// NewNotificationListener creates a NotificationListener. A nil publisher drops every update.
func NewNotificationListener(p websockets.Publisher) *NotificationListener {
	if p == nil {
		p = &websockets.NoOpPublisher{}
	}
	return &NotificationListener{publisher: p}
}

func (l *NotificationListener) Name() string { return "notification" }

func (l *NotificationListener) HandleTransactionProcessed(ctx context.Context, event TransactionProcessed) error {
	msg := websockets.NewTransactionUpdate(&event.Transaction)
	if err := l.publisher.Publish(ctx, event.Transaction.UserID, msg); err != nil {
		return fmt.Errorf("failed to publish transaction update: %w", err)
	}
	return nil
}

// BillStore is the bill access the settlement listener needs.
type BillStore interface {
	GetBill(ctx context.Context, id string) (*models.Bill, error)
	UpdateBill(ctx context.Context, bill *models.Bill) error
}

// BillSettlementListener marks the bill a completed transaction paid for as
// paid and moves its due date to the next cycle.
type BillSettlementListener struct {
	bills BillStore
}

func NewBillSettlementListener(bills BillStore) *BillSettlementListener {
	return &BillSettlementListener{bills: bills}
}

func (l *BillSettlementListener) Name() string { return "bill_settlement" }

func (l *BillSettlementListener) HandleTransactionProcessed(ctx context.Context, event TransactionProcessed) error {
	tx := event.Transaction
	if tx.BillID == nil || *tx.BillID == "" {
		return nil
	}

	bill, err := l.bills.GetBill(ctx, *tx.BillID)
	if err != nil {
		return fmt.Errorf("failed to load bill %s: %w", *tx.BillID, err)
	}
	if bill.PaymentStatus == models.BillPaid {
		return nil
	}

	paidAt := event.OccurredAt
	if tx.ProcessedAt != nil {
		paidAt = *tx.ProcessedAt
	}
	bill.PaymentStatus = models.BillPaid
	bill.LastPaidDate = &paidAt
	bill.NextDueDate = schedule.NextDate(bill.NextDueDate, bill.Frequency)
	bill.UpdatedAt = event.OccurredAt

	if err := l.bills.UpdateBill(ctx, bill); err != nil {
		return fmt.Errorf("failed to settle bill %s: %w", bill.ID, err)
	}
	return nil
}
