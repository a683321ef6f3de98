package storage

import (
	"context"
	"time"

	"github.com/chris/digital-wallet/pkg/models"
)

// BillReader defines read access to bills.
type BillReader interface {
	GetBill(ctx context.Context, id string) (*models.Bill, error)
	ListBills(ctx context.Context, userID string) ([]models.Bill, error)
}

// BillStore manages bills.
type BillStore interface {
	BillReader
	CreateBill(ctx context.Context, bill *models.Bill) error
	UpdateBill(ctx context.Context, bill *models.Bill) error
	DeleteBill(ctx context.Context, userID, id string) error
}

// ScheduleStore manages scheduled payments.
type ScheduleStore interface {
	CreateScheduledPayment(ctx context.Context, sp *models.ScheduledPayment) error
	GetScheduledPayment(ctx context.Context, id string) (*models.ScheduledPayment, error)
	ListScheduledPayments(ctx context.Context, userID string) ([]models.ScheduledPayment, error)
	// UpdateScheduledPayment saves sp while its stored status still equals expected.
	// It returns ErrStatusConflict otherwise.
	UpdateScheduledPayment(ctx context.Context, sp *models.ScheduledPayment, expected models.ScheduleStatus) error
	// UpdateScheduledRun saves sp while its stored status equals expected and its
	// stored next date equals expectedNext. Runners use it to claim one occurrence.
	// It returns ErrStatusConflict otherwise.
	UpdateScheduledRun(ctx context.Context, sp *models.ScheduledPayment, expected models.ScheduleStatus, expectedNext time.Time) error
	// DeleteScheduledPayment removes one of the user's schedules.
	DeleteScheduledPayment(ctx context.Context, userID, id string) error
	// ListDueScheduledPayments returns active schedules whose next date is not after asOf.
	ListDueScheduledPayments(ctx context.Context, asOf time.Time) ([]models.ScheduledPayment, error)
}
