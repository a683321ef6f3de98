package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chris/digital-wallet/pkg/apperr"
	"github.com/chris/digital-wallet/pkg/gateway"
	"github.com/chris/digital-wallet/pkg/ledger"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/scheduler"
	scheduler_mocks "github.com/chris/digital-wallet/pkg/scheduler/mocks"
	"github.com/chris/digital-wallet/pkg/storage"
	storage_mocks "github.com/chris/digital-wallet/pkg/storage/mocks"
	"github.com/chris/digital-wallet/pkg/storage/sqlstore"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	caller = models.Caller{UserID: "user-1"}
	now    = time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC)
)

type fakePayer struct {
	calls []ledger.CreateRequest
	users []string
	err   error
}

func (p *fakePayer) Create(_ context.Context, c models.Caller, req ledger.CreateRequest) (*ledger.Result, error) {
	p.calls = append(p.calls, req)
	p.users = append(p.users, c.UserID)
	if p.err != nil {
		return nil, p.err
	}
	return &ledger.Result{Transaction: &models.Transaction{ID: "tx-1", Status: models.StatusPending}}, nil
}

func strPtr(s string) *string { return &s }

func sameTime(want time.Time) interface{} {
	return mock.MatchedBy(func(got time.Time) bool { return got.Equal(want) })
}

func newTestService(store Store, payer Payer) *Service {
	s := NewService(store, payer, nil, nil)
	s.now = func() time.Time { return now }
	s.newID = func() string { return "sp-1" }
	return s
}

func monthlySchedule() *models.ScheduledPayment {
	return &models.ScheduledPayment{
		ID:               "sp-1",
		UserID:           "user-1",
		Name:             "Rent",
		PaymentType:      models.TypeTransfer,
		BankAccountID:    strPtr("ba-1"),
		RecipientName:    "Landlord",
		RecipientAccount: "0123",
		Amount:           decimal.NewFromInt(15000),
		Currency:         "BDT",
		Frequency:        models.FrequencyMonthly,
		StartDate:        date(2025, 1, 31),
		NextScheduled:    timePtr(date(2025, 1, 31)),
		Status:           models.ScheduleActive,
	}
}

func TestService_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})

		store.On("GetBankAccount", mock.Anything, "ba-1").Return(&models.BankAccount{ID: "ba-1", UserID: "user-1"}, nil)
		store.On("CreateScheduledPayment", mock.Anything, mock.MatchedBy(func(sp *models.ScheduledPayment) bool {
			return sp.ID == "sp-1" && sp.Status == models.ScheduleActive && sp.NextScheduled.Equal(date(2025, 4, 1)) && sp.Currency == "BDT"
		})).Return(nil)

		sp, err := s.Create(context.Background(), caller, CreateRequest{
			Name:             "Rent",
			PaymentType:      models.TypeTransfer,
			BankAccountID:    strPtr("ba-1"),
			RecipientName:    "Landlord",
			RecipientAccount: "0123",
			Amount:           decimal.NewFromInt(15000),
			Frequency:        models.FrequencyMonthly,
			StartDate:        date(2025, 4, 1),
		})

		require.NoError(t, err)
		assert.Equal(t, "user-1", sp.UserID)
		store.AssertExpectations(t)
	})

	t.Run("Validation", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})

		_, err := s.Create(context.Background(), caller, CreateRequest{
			PaymentType: models.TypeTransfer,
			Amount:      decimal.RequireFromString("10.005"),
			Frequency:   "fortnightly",
			StartDate:   date(2025, 4, 1),
			EndDate:     timePtr(date(2025, 3, 1)),
		})

		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindValidation, appErr.Kind)
		for _, field := range []string{"name", "amount", "frequency", "end_date", "payment_method_id", "recipient_name", "recipient_account"} {
			assert.Contains(t, appErr.Fields, field)
		}
		store.AssertNotCalled(t, "CreateScheduledPayment", mock.Anything, mock.Anything)
	})

	t.Run("Foreign payment method", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})

		store.On("GetPaymentMethod", mock.Anything, "pm-9").Return(&models.PaymentMethod{ID: "pm-9", UserID: "user-2"}, nil)

		_, err := s.Create(context.Background(), caller, CreateRequest{
			Name:            "Internet",
			PaymentType:     models.TypePayment,
			PaymentMethodID: strPtr("pm-9"),
			Amount:          decimal.NewFromInt(1200),
			Frequency:       models.FrequencyMonthly,
			StartDate:       date(2025, 4, 1),
		})

		assert.True(t, apperr.Is(err, apperr.KindForbidden))
		store.AssertNotCalled(t, "CreateScheduledPayment", mock.Anything, mock.Anything)
	})

	t.Run("Foreign bill", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})

		store.On("GetBankAccount", mock.Anything, "ba-1").Return(&models.BankAccount{ID: "ba-1", UserID: "user-1", IsActive: true}, nil)
		store.On("GetBill", mock.Anything, "bill-9").Return(&models.Bill{ID: "bill-9", UserID: "user-2"}, nil)

		_, err := s.Create(context.Background(), caller, CreateRequest{
			Name:          "Electricity",
			PaymentType:   models.TypePayment,
			BillID:        strPtr("bill-9"),
			BankAccountID: strPtr("ba-1"),
			Amount:        decimal.NewFromInt(1200),
			Frequency:     models.FrequencyMonthly,
			StartDate:     date(2025, 4, 1),
		})

		assert.True(t, apperr.Is(err, apperr.KindNotFound))
		store.AssertNotCalled(t, "CreateScheduledPayment", mock.Anything, mock.Anything)
	})
}

func TestService_PauseResume(t *testing.T) {
	t.Run("Pause", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})

		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(monthlySchedule(), nil)
		store.On("UpdateScheduledRun", mock.Anything, mock.MatchedBy(func(sp *models.ScheduledPayment) bool {
			return sp.Status == models.SchedulePaused
		}), models.ScheduleActive, sameTime(date(2025, 1, 31))).Return(nil)

		sp, err := s.Pause(context.Background(), caller, "sp-1")

		require.NoError(t, err)
		assert.Equal(t, models.SchedulePaused, sp.Status)
		store.AssertExpectations(t)
	})

	t.Run("Resume", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})
		paused := monthlySchedule()
		paused.Status = models.SchedulePaused

		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(paused, nil)
		store.On("UpdateScheduledRun", mock.Anything, mock.Anything, models.SchedulePaused, sameTime(date(2025, 1, 31))).Return(nil)

		sp, err := s.Resume(context.Background(), caller, "sp-1")

		require.NoError(t, err)
		assert.Equal(t, models.ScheduleActive, sp.Status)
		assert.Equal(t, time.Date(2025, 4, 15, 8, 0, 0, 0, time.UTC), *sp.NextScheduled)
	})

	t.Run("Resume after end date", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})
		paused := monthlySchedule()
		paused.Status = models.SchedulePaused
		paused.EndDate = timePtr(date(2025, 3, 1))

		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(paused, nil)

		_, err := s.Resume(context.Background(), caller, "sp-1")

		assert.True(t, apperr.Is(err, apperr.KindInvalidState))
		assert.Equal(t, date(2025, 1, 31), *paused.NextScheduled)
		store.AssertNotCalled(t, "UpdateScheduledRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Concurrent change", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})

		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(monthlySchedule(), nil)
		store.On("UpdateScheduledRun", mock.Anything, mock.Anything, models.ScheduleActive, mock.Anything).Return(storage.ErrStatusConflict)

		_, err := s.Pause(context.Background(), caller, "sp-1")

		assert.True(t, apperr.Is(err, apperr.KindInvalidState))
	})

	t.Run("Foreign schedule", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})

		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(monthlySchedule(), nil)

		_, err := s.Pause(context.Background(), models.Caller{UserID: "user-2"}, "sp-1")

		assert.True(t, apperr.Is(err, apperr.KindForbidden))
	})

	t.Run("Missing schedule", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})

		store.On("GetScheduledPayment", mock.Anything, "sp-9").Return(nil, storage.ErrNotFound)

		_, err := s.Resume(context.Background(), caller, "sp-9")

		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})
}

func TestService_Update(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})
		amount := decimal.RequireFromString("16500.00")
		end := date(2025, 12, 31)

		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(monthlySchedule(), nil)
		store.On("UpdateScheduledRun", mock.Anything, mock.MatchedBy(func(sp *models.ScheduledPayment) bool {
			return sp.Amount.Equal(amount) &&
				sp.Name == "New rent" &&
				sp.EndDate.Equal(end) &&
				sp.NextScheduled.Equal(date(2025, 1, 31)) &&
				sp.Frequency == models.FrequencyMonthly
		}), models.ScheduleActive, sameTime(date(2025, 1, 31))).Return(nil)

		sp, err := s.Update(context.Background(), caller, "sp-1", UpdateRequest{
			Name:    strPtr("New rent"),
			Amount:  &amount,
			EndDate: &end,
		})

		require.NoError(t, err)
		assert.Equal(t, "New rent", sp.Name)
		store.AssertExpectations(t)
	})

	t.Run("Validation", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})
		zero := decimal.Zero

		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(monthlySchedule(), nil)

		_, err := s.Update(context.Background(), caller, "sp-1", UpdateRequest{
			Amount:        &zero,
			EndDate:       timePtr(date(2024, 12, 1)),
			RecipientName: strPtr(""),
		})

		require.Error(t, err)
		var appErr *apperr.Error
		require.True(t, errors.As(err, &appErr))
		assert.Contains(t, appErr.Fields, "amount")
		assert.Contains(t, appErr.Fields, "end_date")
		assert.Contains(t, appErr.Fields, "recipient_name")
		store.AssertNotCalled(t, "UpdateScheduledRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Completed schedule", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})
		done := monthlySchedule()
		done.Status = models.ScheduleCompleted

		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(done, nil)

		_, err := s.Update(context.Background(), caller, "sp-1", UpdateRequest{Name: strPtr("Rent")})

		assert.True(t, apperr.Is(err, apperr.KindInvalidState))
	})

	t.Run("Runner claimed the occurrence", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})

		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(monthlySchedule(), nil)
		store.On("UpdateScheduledRun", mock.Anything, mock.Anything, models.ScheduleActive, sameTime(date(2025, 1, 31))).Return(storage.ErrStatusConflict)

		_, err := s.Update(context.Background(), caller, "sp-1", UpdateRequest{Name: strPtr("Rent")})

		assert.True(t, apperr.Is(err, apperr.KindInvalidState))
	})
}

func TestService_Cancel(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})
		paused := monthlySchedule()
		paused.Status = models.SchedulePaused

		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(paused, nil)
		store.On("UpdateScheduledRun", mock.Anything, mock.MatchedBy(func(sp *models.ScheduledPayment) bool {
			return sp.Status == models.ScheduleCancelled
		}), models.SchedulePaused, sameTime(date(2025, 1, 31))).Return(nil)

		sp, err := s.Cancel(context.Background(), caller, "sp-1")

		require.NoError(t, err)
		assert.Equal(t, models.ScheduleCancelled, sp.Status)
		store.AssertExpectations(t)
	})

	t.Run("Already cancelled", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})
		cancelled := monthlySchedule()
		cancelled.Status = models.ScheduleCancelled

		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(cancelled, nil)

		_, err := s.Cancel(context.Background(), caller, "sp-1")

		assert.True(t, apperr.Is(err, apperr.KindInvalidState))
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})

		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(monthlySchedule(), nil)
		store.On("DeleteScheduledPayment", mock.Anything, "user-1", "sp-1").Return(nil)

		require.NoError(t, s.Delete(context.Background(), caller, "sp-1"))
		store.AssertExpectations(t)
	})

	t.Run("Foreign schedule", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})

		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(monthlySchedule(), nil)

		err := s.Delete(context.Background(), models.Caller{UserID: "user-2"}, "sp-1")

		assert.True(t, apperr.Is(err, apperr.KindForbidden))
		store.AssertNotCalled(t, "DeleteScheduledPayment", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_RunDue(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		payer := &fakePayer{}
		s := newTestService(store, payer)

		store.On("ListDueScheduledPayments", mock.Anything, now).Return([]models.ScheduledPayment{*monthlySchedule()}, nil)
		store.On("UpdateScheduledRun", mock.Anything, mock.MatchedBy(func(sp *models.ScheduledPayment) bool {
			return sp.Status == models.ScheduleActive &&
				sp.NextScheduled.Equal(date(2025, 2, 28)) &&
				sp.TimesProcessed == 1 &&
				sp.LastProcessed.Equal(now)
		}), models.ScheduleActive, sameTime(date(2025, 1, 31))).Return(nil).Once()

		summary, err := s.RunDue(context.Background(), now)

		require.NoError(t, err)
		assert.Equal(t, RunSummary{Processed: 1}, summary)
		require.Len(t, payer.calls, 1)
		assert.Equal(t, "user-1", payer.users[0])
		assert.Equal(t, "sp-1", *payer.calls[0].ScheduledPaymentID)
		assert.Equal(t, models.PaymentForScheduled, payer.calls[0].PaymentFor)
		assert.Equal(t, "Landlord", payer.calls[0].RecipientName)
		assert.Equal(t, "Scheduled payment: Rent", payer.calls[0].Description)
		store.AssertExpectations(t)
	})

	t.Run("Rejected payment fails the schedule", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{err: gateway.Rejected("bkash", "Payment initiation failed: insufficient balance")})

		store.On("ListDueScheduledPayments", mock.Anything, now).Return([]models.ScheduledPayment{*monthlySchedule()}, nil)
		store.On("UpdateScheduledRun", mock.Anything, mock.MatchedBy(func(sp *models.ScheduledPayment) bool {
			return sp.Status == models.ScheduleActive && sp.TimesProcessed == 1
		}), models.ScheduleActive, sameTime(date(2025, 1, 31))).Return(nil).Once()
		store.On("UpdateScheduledRun", mock.Anything, mock.MatchedBy(func(sp *models.ScheduledPayment) bool {
			return sp.Status == models.ScheduleFailed &&
				sp.TimesProcessed == 0 &&
				sp.NextScheduled.Equal(date(2025, 1, 31))
		}), models.ScheduleActive, sameTime(date(2025, 2, 28))).Return(nil).Once()

		summary, err := s.RunDue(context.Background(), now)

		require.NoError(t, err)
		assert.Equal(t, RunSummary{Failed: 1}, summary)
		store.AssertExpectations(t)
	})

	t.Run("Transient error leaves the schedule active", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{err: apperr.Persistence("failed to record transaction", errors.New("timeout"))})

		store.On("ListDueScheduledPayments", mock.Anything, now).Return([]models.ScheduledPayment{*monthlySchedule()}, nil)
		store.On("UpdateScheduledRun", mock.Anything, mock.Anything, models.ScheduleActive, sameTime(date(2025, 1, 31))).Return(nil).Once()
		store.On("UpdateScheduledRun", mock.Anything, mock.MatchedBy(func(sp *models.ScheduledPayment) bool {
			return sp.Status == models.ScheduleActive &&
				sp.NextScheduled.Equal(date(2025, 1, 31)) &&
				sp.TimesProcessed == 0
		}), models.ScheduleActive, sameTime(date(2025, 2, 28))).Return(nil).Once()

		summary, err := s.RunDue(context.Background(), now)

		require.NoError(t, err)
		assert.Equal(t, RunSummary{Errors: 1}, summary)
		store.AssertExpectations(t)
	})

	t.Run("Occurrence already claimed", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		payer := &fakePayer{}
		s := newTestService(store, payer)

		store.On("ListDueScheduledPayments", mock.Anything, now).Return([]models.ScheduledPayment{*monthlySchedule()}, nil)
		store.On("UpdateScheduledRun", mock.Anything, mock.Anything, models.ScheduleActive, sameTime(date(2025, 1, 31))).Return(storage.ErrStatusConflict)

		summary, err := s.RunDue(context.Background(), now)

		require.NoError(t, err)
		assert.Equal(t, RunSummary{Skipped: 1}, summary)
		assert.Empty(t, payer.calls)
	})

	t.Run("Claim failure", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		payer := &fakePayer{}
		s := newTestService(store, payer)

		store.On("ListDueScheduledPayments", mock.Anything, now).Return([]models.ScheduledPayment{*monthlySchedule()}, nil)
		store.On("UpdateScheduledRun", mock.Anything, mock.Anything, models.ScheduleActive, mock.Anything).Return(errors.New("connection refused"))

		summary, err := s.RunDue(context.Background(), now)

		require.NoError(t, err)
		assert.Equal(t, RunSummary{Errors: 1}, summary)
		assert.Empty(t, payer.calls)
	})

	t.Run("Ended schedule completes without paying", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		payer := &fakePayer{}
		s := newTestService(store, payer)
		ended := monthlySchedule()
		ended.EndDate = timePtr(date(2025, 3, 1))

		store.On("ListDueScheduledPayments", mock.Anything, now).Return([]models.ScheduledPayment{*ended}, nil)
		store.On("UpdateScheduledPayment", mock.Anything, mock.MatchedBy(func(sp *models.ScheduledPayment) bool {
			return sp.Status == models.ScheduleCompleted
		}), models.ScheduleActive).Return(nil)

		summary, err := s.RunDue(context.Background(), now)

		require.NoError(t, err)
		assert.Equal(t, RunSummary{Skipped: 1}, summary)
		assert.Empty(t, payer.calls)
	})

	t.Run("List failure", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})

		store.On("ListDueScheduledPayments", mock.Anything, now).Return(nil, errors.New("connection refused"))

		_, err := s.RunDue(context.Background(), now)

		assert.Error(t, err)
	})
}

func TestService_Run(t *testing.T) {
	t.Run("Not yet due", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		payer := &fakePayer{}
		s := newTestService(store, payer)
		future := monthlySchedule()
		future.NextScheduled = timePtr(date(2025, 4, 1))

		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(future, nil)

		outcome, err := s.Run(context.Background(), "sp-1")

		require.NoError(t, err)
		assert.Equal(t, OutcomeSkipped, outcome)
		assert.Empty(t, payer.calls)
	})

	t.Run("Paused", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		payer := &fakePayer{}
		s := newTestService(store, payer)
		paused := monthlySchedule()
		paused.Status = models.SchedulePaused

		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(paused, nil)

		outcome, err := s.Run(context.Background(), "sp-1")

		require.NoError(t, err)
		assert.Equal(t, OutcomeSkipped, outcome)
		assert.Empty(t, payer.calls)
	})

	t.Run("Deleted", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})

		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(nil, storage.ErrNotFound)

		outcome, err := s.Run(context.Background(), "sp-1")

		require.NoError(t, err)
		assert.Equal(t, OutcomeSkipped, outcome)
	})

	t.Run("One-time completes", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store, &fakePayer{})
		once := monthlySchedule()
		once.Frequency = models.FrequencyOneTime

		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(once, nil)
		store.On("UpdateScheduledRun", mock.Anything, mock.MatchedBy(func(sp *models.ScheduledPayment) bool {
			return sp.Status == models.ScheduleCompleted && sp.TimesProcessed == 1
		}), models.ScheduleActive, sameTime(date(2025, 1, 31))).Return(nil)

		outcome, err := s.Run(context.Background(), "sp-1")

		require.NoError(t, err)
		assert.Equal(t, OutcomeProcessed, outcome)
		store.AssertExpectations(t)
	})
}

func TestService_RunSameOccurrenceTwice(t *testing.T) {
	ctx := context.Background()
	store, err := sqlstore.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared", logging.NewNoOpLogger())
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.CreateScheduledPayment(ctx, monthlySchedule()))

	payer := &fakePayer{}
	s := newTestService(store, payer)

	first, err := store.GetScheduledPayment(ctx, "sp-1")
	require.NoError(t, err)
	second, err := store.GetScheduledPayment(ctx, "sp-1")
	require.NoError(t, err)

	firstOutcome, err := s.run(ctx, first, now)
	require.NoError(t, err)
	secondOutcome, err := s.run(ctx, second, now)
	require.NoError(t, err)

	assert.Equal(t, OutcomeProcessed, firstOutcome)
	assert.Equal(t, OutcomeSkipped, secondOutcome)
	assert.Len(t, payer.calls, 1)

	stored, err := store.GetScheduledPayment(ctx, "sp-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TimesProcessed)
	assert.True(t, stored.NextScheduled.Equal(date(2025, 2, 28)))
}

func TestService_DispatchDue(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		queue := new(scheduler_mocks.Scheduler)
		s := newTestService(store, &fakePayer{})

		second := monthlySchedule()
		second.ID = "sp-2"
		store.On("ListDueScheduledPayments", mock.Anything, now).Return([]models.ScheduledPayment{*monthlySchedule(), *second}, nil)
		queue.On("EnqueueDuePayment", mock.Anything, scheduler.DuePayment{ScheduledPaymentID: "sp-1", DueAt: date(2025, 1, 31)}).Return(nil)
		queue.On("EnqueueDuePayment", mock.Anything, scheduler.DuePayment{ScheduledPaymentID: "sp-2", DueAt: date(2025, 1, 31)}).Return(nil)

		sent, err := s.DispatchDue(context.Background(), now, queue)

		require.NoError(t, err)
		assert.Equal(t, 2, sent)
		queue.AssertExpectations(t)
	})

	t.Run("Partial failure", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		queue := new(scheduler_mocks.Scheduler)
		s := newTestService(store, &fakePayer{})

		second := monthlySchedule()
		second.ID = "sp-2"
		store.On("ListDueScheduledPayments", mock.Anything, now).Return([]models.ScheduledPayment{*monthlySchedule(), *second}, nil)
		queue.On("EnqueueDuePayment", mock.Anything, mock.MatchedBy(func(d scheduler.DuePayment) bool { return d.ScheduledPaymentID == "sp-1" })).Return(errors.New("throttled"))
		queue.On("EnqueueDuePayment", mock.Anything, mock.MatchedBy(func(d scheduler.DuePayment) bool { return d.ScheduledPaymentID == "sp-2" })).Return(nil)

		sent, err := s.DispatchDue(context.Background(), now, queue)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "sp-1")
		assert.Equal(t, 1, sent)
	})
}
