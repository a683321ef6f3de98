package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/digital-wallet/pkg/apperr"
	"github.com/chris/digital-wallet/pkg/gateway"
	"github.com/chris/digital-wallet/pkg/ledger"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/metrics"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/scheduler"
	"github.com/chris/digital-wallet/pkg/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Run outcomes reported to metrics.
const (
	OutcomeProcessed = "processed"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
	OutcomeError     = "error"
)

// Store is the storage the scheduled payment service needs.
type Store interface {
	storage.ScheduleStore
	GetPaymentMethod(ctx context.Context, id string) (*models.PaymentMethod, error)
	GetBankAccount(ctx context.Context, id string) (*models.BankAccount, error)
	GetBill(ctx context.Context, id string) (*models.Bill, error)
}

// Payer creates the transaction for a due schedule.
type Payer interface {
	Create(ctx context.Context, caller models.Caller, req ledger.CreateRequest) (*ledger.Result, error)
}

// CreateRequest describes a new scheduled payment.
type CreateRequest struct {
	Name             string
	PaymentType      models.TransactionType
	BillID           *string
	PaymentMethodID  *string
	BankAccountID    *string
	RecipientName    string
	RecipientAccount string
	RecipientBank    string
	Amount           decimal.Decimal
	Currency         string
	Frequency        models.Frequency
	StartDate        time.Time
	EndDate          *time.Time
	Description      string
}

// UpdateRequest carries the editable fields of a schedule. Nil fields are left
// unchanged. Frequency, instrument and next date are fixed once created.
type UpdateRequest struct {
	Name             *string
	Amount           *decimal.Decimal
	RecipientName    *string
	RecipientAccount *string
	RecipientBank    *string
	EndDate          *time.Time
	Description      *string
}

// Service manages scheduled payments and runs the due ones.
type Service struct {
	store   Store
	payer   Payer
	metrics *metrics.Metrics
	logger  *logging.Logger
	now     func() time.Time
	newID   func() string
}

// NewService creates a Service.
func NewService(store Store, payer Payer, m *metrics.Metrics, logger *logging.Logger) *Service {
	return &Service{
		store:   store,
		payer:   payer,
		metrics: m,
		logger:  logging.OrGlobal(logger).Named("schedule"),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

func present(id *string) bool {
	return id != nil && *id != ""
}

func validate(req *CreateRequest) error {
	fields := map[string][]string{}
	add := func(name, msg string) { fields[name] = append(fields[name], msg) }

	if req.Name == "" {
		add("name", "name is required")
	}
	if !req.PaymentType.Valid() {
		add("payment_type", "payment type must be one of payment, transfer, deposit, withdrawal")
	}
	if !req.Amount.IsPositive() {
		add("amount", "amount must be greater than zero")
	} else if !req.Amount.Equal(req.Amount.Round(2)) {
		add("amount", "amount must have at most two decimal places")
	}
	if !req.Frequency.Valid() {
		add("frequency", "frequency must be one of one-time, daily, weekly, monthly, quarterly, yearly")
	}
	if req.StartDate.IsZero() {
		add("start_date", "start date is required")
	}
	if req.EndDate != nil && !req.StartDate.IsZero() && req.EndDate.Before(req.StartDate) {
		add("end_date", "end date must not be before the start date")
	}

	hasMethod, hasAccount := present(req.PaymentMethodID), present(req.BankAccountID)
	switch {
	case hasMethod && hasAccount:
		add("payment_method_id", "provide either a payment method or a bank account, not both")
	case !hasMethod && !hasAccount:
		add("payment_method_id", "a payment method or a bank account is required")
	}

	if req.PaymentType == models.TypeTransfer {
		if req.RecipientName == "" {
			add("recipient_name", "recipient name is required for transfers")
		}
		if req.RecipientAccount == "" {
			add("recipient_account", "recipient account is required for transfers")
		}
	}

	if len(fields) > 0 {
		return apperr.Validation("the given data was invalid", fields)
	}
	return nil
}

// Create validates and stores a new active schedule whose first run is its start date.
func (s *Service) Create(ctx context.Context, caller models.Caller, req CreateRequest) (*models.ScheduledPayment, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, caller, &req); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	start := req.StartDate.UTC()
	now := s.now().UTC()
	sp := &models.ScheduledPayment{
		ID:               s.newID(),
		UserID:           caller.UserID,
		Name:             req.Name,
		PaymentType:      req.PaymentType,
		BillID:           req.BillID,
		PaymentMethodID:  req.PaymentMethodID,
		BankAccountID:    req.BankAccountID,
		RecipientName:    req.RecipientName,
		RecipientAccount: req.RecipientAccount,
		RecipientBank:    req.RecipientBank,
		Amount:           req.Amount,
		Currency:         currency,
		Frequency:        req.Frequency,
		StartDate:        start,
		EndDate:          req.EndDate,
		NextScheduled:    &start,
		Status:           models.ScheduleActive,
		Description:      req.Description,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.store.CreateScheduledPayment(ctx, sp); err != nil {
		return nil, apperr.Persistence("failed to create scheduled payment", err)
	}
	s.logger.Info("scheduled payment created",
		zap.String("scheduled_payment_id", sp.ID),
		zap.String("user_id", sp.UserID),
		zap.String("frequency", string(sp.Frequency)),
	)
	return sp, nil
}

func (s *Service) checkReferences(ctx context.Context, caller models.Caller, req *CreateRequest) error {
	if present(req.PaymentMethodID) {
		pm, err := s.store.GetPaymentMethod(ctx, *req.PaymentMethodID)
		if err != nil {
			return notFoundOr(err, "payment method")
		}
		if pm.UserID != caller.UserID {
			return apperr.Forbidden("payment method does not belong to you")
		}
	}
	if present(req.BankAccountID) {
		ba, err := s.store.GetBankAccount(ctx, *req.BankAccountID)
		if err != nil {
			return notFoundOr(err, "bank account")
		}
		if ba.UserID != caller.UserID {
			return apperr.Forbidden("bank account does not belong to you")
		}
	}
	if present(req.BillID) {
		bill, err := s.store.GetBill(ctx, *req.BillID)
		if err != nil {
			return notFoundOr(err, "bill")
		}
		if bill.UserID != caller.UserID {
			return apperr.NotFound("bill not found")
		}
	}
	return nil
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound(what + " not found")
	}
	return apperr.Persistence("failed to load "+what, err)
}

// Get returns one of the caller's schedules.
func (s *Service) Get(ctx context.Context, caller models.Caller, id string) (*models.ScheduledPayment, error) {
	sp, err := s.store.GetScheduledPayment(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "scheduled payment")
	}
	if sp.UserID != caller.UserID {
		return nil, apperr.Forbidden("scheduled payment does not belong to you")
	}
	return sp, nil
}

// List returns the caller's schedules.
func (s *Service) List(ctx context.Context, caller models.Caller) ([]models.ScheduledPayment, error) {
	items, err := s.store.ListScheduledPayments(ctx, caller.UserID)
	if err != nil {
		return nil, apperr.Persistence("failed to list scheduled payments", err)
	}
	return items, nil
}

// Pause stops one of the caller's active schedules.
func (s *Service) Pause(ctx context.Context, caller models.Caller, id string) (*models.ScheduledPayment, error) {
	return s.transition(ctx, caller, id, func(sp *models.ScheduledPayment, _ time.Time) error {
		return Pause(sp)
	})
}

// Resume reactivates one of the caller's paused schedules.
func (s *Service) Resume(ctx context.Context, caller models.Caller, id string) (*models.ScheduledPayment, error) {
	return s.transition(ctx, caller, id, Resume)
}

// Cancel ends one of the caller's active or paused schedules.
func (s *Service) Cancel(ctx context.Context, caller models.Caller, id string) (*models.ScheduledPayment, error) {
	return s.transition(ctx, caller, id, func(sp *models.ScheduledPayment, _ time.Time) error {
		return Cancel(sp)
	})
}

// Update edits one of the caller's active or paused schedules.
func (s *Service) Update(ctx context.Context, caller models.Caller, id string, req UpdateRequest) (*models.ScheduledPayment, error) {
	return s.transition(ctx, caller, id, func(sp *models.ScheduledPayment, _ time.Time) error {
		if sp.Status != models.ScheduleActive && sp.Status != models.SchedulePaused {
			return apperr.InvalidState("only active or paused schedules can be edited")
		}
		applyUpdate(sp, req)
		edited := requestFrom(sp)
		return validate(&edited)
	})
}

func applyUpdate(sp *models.ScheduledPayment, req UpdateRequest) {
	if req.Name != nil {
		sp.Name = *req.Name
	}
	if req.Amount != nil {
		sp.Amount = *req.Amount
	}
	if req.RecipientName != nil {
		sp.RecipientName = *req.RecipientName
	}
	if req.RecipientAccount != nil {
		sp.RecipientAccount = *req.RecipientAccount
	}
	if req.RecipientBank != nil {
		sp.RecipientBank = *req.RecipientBank
	}
	if req.EndDate != nil {
		end := req.EndDate.UTC()
		sp.EndDate = &end
	}
	if req.Description != nil {
		sp.Description = *req.Description
	}
}

func requestFrom(sp *models.ScheduledPayment) CreateRequest {
	return CreateRequest{
		Name:             sp.Name,
		PaymentType:      sp.PaymentType,
		BillID:           sp.BillID,
		PaymentMethodID:  sp.PaymentMethodID,
		BankAccountID:    sp.BankAccountID,
		RecipientName:    sp.RecipientName,
		RecipientAccount: sp.RecipientAccount,
		RecipientBank:    sp.RecipientBank,
		Amount:           sp.Amount,
		Currency:         sp.Currency,
		Frequency:        sp.Frequency,
		StartDate:        sp.StartDate,
		EndDate:          sp.EndDate,
		Description:      sp.Description,
	}
}

// Delete removes one of the caller's schedules. Transactions it already created
// keep their scheduled_payment_id.
func (s *Service) Delete(ctx context.Context, caller models.Caller, id string) error {
	if _, err := s.Get(ctx, caller, id); err != nil {
		return err
	}
	if err := s.store.DeleteScheduledPayment(ctx, caller.UserID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("scheduled payment not found")
		}
		return apperr.Persistence("failed to delete scheduled payment", err)
	}
	s.logger.Info("scheduled payment deleted",
		zap.String("scheduled_payment_id", id),
		zap.String("user_id", caller.UserID),
	)
	return nil
}

func (s *Service) transition(ctx context.Context, caller models.Caller, id string, apply func(*models.ScheduledPayment, time.Time) error) (*models.ScheduledPayment, error) {
	sp, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	from := sp.Status
	var fromNext *time.Time
	if sp.NextScheduled != nil {
		next := *sp.NextScheduled
		fromNext = &next
	}
	if err := apply(sp, now); err != nil {
		return nil, err
	}
	sp.UpdatedAt = now

	if err := s.save(ctx, sp, from, fromNext); err != nil {
		if errors.Is(err, storage.ErrStatusConflict) {
			return nil, apperr.InvalidState("scheduled payment was modified concurrently")
		}
		return nil, apperr.Persistence("failed to update scheduled payment", err)
	}
	s.logger.Info("scheduled payment changed",
		zap.String("scheduled_payment_id", sp.ID),
		zap.String("from", string(from)),
		zap.String("to", string(sp.Status)),
	)
	return sp, nil
}

// save writes sp while the stored row keeps the status and next date it was
// loaded with, so edits never undo a runner's claim.
func (s *Service) save(ctx context.Context, sp *models.ScheduledPayment, status models.ScheduleStatus, next *time.Time) error {
	if next == nil {
		return s.store.UpdateScheduledPayment(ctx, sp, status)
	}
	return s.store.UpdateScheduledRun(ctx, sp, status, *next)
}

// RunSummary counts the outcomes of a RunDue pass.
type RunSummary struct {
	Processed int
	Failed    int
	Skipped   int
	Errors    int
}

// RunDue runs every schedule due at asOf. An error on one schedule does not stop the pass.
func (s *Service) RunDue(ctx context.Context, asOf time.Time) (RunSummary, error) {
	var summary RunSummary

	due, err := s.store.ListDueScheduledPayments(ctx, asOf)
	if err != nil {
		return summary, fmt.Errorf("failed to list due scheduled payments: %w", err)
	}

	for i := range due {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		outcome, err := s.run(ctx, &due[i], asOf)
		switch outcome {
		case OutcomeProcessed:
			summary.Processed++
		case OutcomeFailed:
			summary.Failed++
		case OutcomeSkipped:
			summary.Skipped++
		default:
			summary.Errors++
			s.logger.Error("scheduled payment run failed",
				zap.String("scheduled_payment_id", due[i].ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("due scheduled payments run",
		zap.Int("processed", summary.Processed),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errors", summary.Errors),
	)
	return summary, nil
}

// Run executes a single schedule if it is still due. It is the entry point of
// the queue consumer, which may see a message more than once.
func (s *Service) Run(ctx context.Context, id string) (string, error) {
	sp, err := s.store.GetScheduledPayment(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("due scheduled payment no longer exists", zap.String("scheduled_payment_id", id))
			return OutcomeSkipped, nil
		}
		return OutcomeError, fmt.Errorf("failed to load scheduled payment %s: %w", id, err)
	}
	return s.run(ctx, sp, s.now().UTC())
}

func (s *Service) run(ctx context.Context, sp *models.ScheduledPayment, asOf time.Time) (string, error) {
	if sp.Status != models.ScheduleActive || sp.NextScheduled == nil || sp.NextScheduled.After(asOf) {
		s.metrics.RecordScheduledRun(OutcomeSkipped)
		return OutcomeSkipped, nil
	}
	if sp.Ended(asOf) {
		sp.Status = models.ScheduleCompleted
		sp.UpdatedAt = s.now().UTC()
		if err := s.store.UpdateScheduledPayment(ctx, sp, models.ScheduleActive); err != nil && !errors.Is(err, storage.ErrStatusConflict) {
			s.metrics.RecordScheduledRun(OutcomeError)
			return OutcomeError, fmt.Errorf("failed to complete ended schedule: %w", err)
		}
		s.metrics.RecordScheduledRun(OutcomeSkipped)
		return OutcomeSkipped, nil
	}

	// Claim the occurrence before paying so a second runner holding the same
	// row loses the conditional write instead of charging again.
	observed := *sp.NextScheduled
	now := s.now().UTC()
	claimed := *sp
	Advance(&claimed, now)
	claimed.UpdatedAt = now
	if err := s.store.UpdateScheduledRun(ctx, &claimed, models.ScheduleActive, observed); err != nil {
		if errors.Is(err, storage.ErrStatusConflict) {
			s.logger.Info("scheduled payment occurrence already claimed",
				zap.String("scheduled_payment_id", sp.ID),
				zap.Time("next_scheduled", observed),
			)
			s.metrics.RecordScheduledRun(OutcomeSkipped)
			return OutcomeSkipped, nil
		}
		s.metrics.RecordScheduledRun(OutcomeError)
		return OutcomeError, fmt.Errorf("failed to claim scheduled payment %s: %w", sp.ID, err)
	}

	description := sp.Description
	if description == "" {
		description = "Scheduled payment: " + sp.Name
	}
	_, err := s.payer.Create(ctx, models.Caller{UserID: sp.UserID}, ledger.CreateRequest{
		TransactionType:    sp.PaymentType,
		Amount:             sp.Amount,
		Currency:           sp.Currency,
		Description:        description,
		PaymentFor:         models.PaymentForScheduled,
		BillID:             sp.BillID,
		ScheduledPaymentID: &sp.ID,
		PaymentMethodID:    sp.PaymentMethodID,
		BankAccountID:      sp.BankAccountID,
		RecipientName:      sp.RecipientName,
		RecipientAccount:   sp.RecipientAccount,
		RecipientBank:      sp.RecipientBank,
	})

	if err == nil {
		*sp = claimed
		s.metrics.RecordScheduledRun(OutcomeProcessed)
		s.logger.Info("scheduled payment run",
			zap.String("scheduled_payment_id", sp.ID),
			zap.String("outcome", OutcomeProcessed),
			zap.String("status", string(sp.Status)),
		)
		return OutcomeProcessed, nil
	}

	// The payment did not happen: undo the claim. A permanent error also fails
	// the schedule, anything else leaves it due for the next pass.
	restored := *sp
	restored.UpdatedAt = s.now().UTC()
	outcome := OutcomeError
	if permanent(err) {
		outcome = OutcomeFailed
		restored.Status = models.ScheduleFailed
		s.logger.Warn("scheduled payment rejected, marking schedule failed",
			zap.String("scheduled_payment_id", sp.ID),
			zap.Error(err),
		)
	}
	if uerr := s.store.UpdateScheduledRun(ctx, &restored, claimed.Status, *claimed.NextScheduled); uerr != nil {
		s.logger.Error("failed to release scheduled payment occurrence",
			zap.String("scheduled_payment_id", sp.ID),
			zap.Error(uerr),
		)
		s.metrics.RecordScheduledRun(OutcomeError)
		return OutcomeError, errors.Join(err, fmt.Errorf("failed to save scheduled payment %s: %w", sp.ID, uerr))
	}
	*sp = restored

	s.metrics.RecordScheduledRun(outcome)
	if outcome == OutcomeError {
		return OutcomeError, err
	}
	return OutcomeFailed, nil
}

// permanent reports whether a ledger error will recur on every retry.
func permanent(err error) bool {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindForbidden, apperr.KindNotFound, apperr.KindInvalidState:
		return true
	}
	var gwErr *gateway.Error
	return errors.As(err, &gwErr) && gwErr.Kind == gateway.KindRejected
}

// DispatchDue enqueues every schedule due at asOf for an asynchronous runner
// and returns how many were enqueued.
func (s *Service) DispatchDue(ctx context.Context, asOf time.Time, queue scheduler.Scheduler) (int, error) {
	due, err := s.store.ListDueScheduledPayments(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to list due scheduled payments: %w", err)
	}

	var errs []error
	sent := 0
	for _, sp := range due {
		if sp.NextScheduled == nil {
			continue
		}
		if err := queue.EnqueueDuePayment(ctx, scheduler.DuePayment{ScheduledPaymentID: sp.ID, DueAt: *sp.NextScheduled}); err != nil {
			errs = append(errs, fmt.Errorf("scheduled payment %s: %w", sp.ID, err))
			continue
		}
		sent++
	}

	s.logger.Info("due scheduled payments dispatched", zap.Int("due", len(due)), zap.Int("sent", sent))
	return sent, errors.Join(errs...)
}
