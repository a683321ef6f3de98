package scheduler

import (
	"context"
	"time"
)

// DuePayment is the queue message asking a runner to execute one scheduled payment.
type DuePayment struct {
	ScheduledPaymentID string    `json:"scheduled_payment_id"`
	DueAt              time.Time `json:"due_at"`
}

// Scheduler defines the interface for a component that hands due scheduled payments to a runner.
type Scheduler interface {
	// EnqueueDuePayment enqueues a scheduled payment for asynchronous execution.
	EnqueueDuePayment(ctx context.Context, due DuePayment) error
}
