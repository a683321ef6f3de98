package schedules

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chris/digital-wallet/pkg/api"
	"github.com/chris/digital-wallet/pkg/middleware"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/schedule"
	"github.com/chris/digital-wallet/pkg/storage"
	storage_mocks "github.com/chris/digital-wallet/pkg/storage/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var caller = models.Caller{UserID: "user-1"}

func newHandler() (*SchedulesHandler, *storage_mocks.ApiStore) {
	store := new(storage_mocks.ApiStore)
	return NewSchedulesHandler(schedule.NewService(store, nil, nil, nil), nil), store
}

func authed(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithCaller(req.Context(), caller))
}

func decodeSchedule(t *testing.T, rr *httptest.ResponseRecorder) api.ScheduledPayment {
	t.Helper()
	var env struct {
		Data api.ScheduledPayment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env.Data
}

func TestCreateScheduledPayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		h, store := newHandler()
		store.On("GetBankAccount", mock.Anything, "ba-1").Return(&models.BankAccount{ID: "ba-1", UserID: "user-1"}, nil)
		store.On("CreateScheduledPayment", mock.Anything, mock.AnythingOfType("*models.ScheduledPayment")).Return(nil)

		body := `{"name":"Rent","payment_type":"transfer","bank_account_id":"ba-1","recipient_name":"Landlord","recipient_account":"998877","amount":"15000","frequency":"monthly","start_date":"2025-01-31"}`
		rr := httptest.NewRecorder()

		// Act
		h.CreateScheduledPayment(rr, authed(httptest.NewRequest(http.MethodPost, "/scheduled-payments", strings.NewReader(body))))

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		sp := decodeSchedule(t, rr)
		assert.Equal(t, "active", sp.Status)
		require.NotNil(t, sp.NextScheduled)
		assert.Equal(t, "2025-01-31", sp.NextScheduled.String())
		assert.True(t, sp.Amount.Equal(decimal.NewFromInt(15000)))
		store.AssertExpectations(t)
	})

	t.Run("Transfer without recipient", func(t *testing.T) {
		h, store := newHandler()

		body := `{"name":"Rent","payment_type":"transfer","bank_account_id":"ba-1","amount":"15000","frequency":"monthly","start_date":"2025-01-31"}`
		rr := httptest.NewRecorder()
		h.CreateScheduledPayment(rr, authed(httptest.NewRequest(http.MethodPost, "/scheduled-payments", strings.NewReader(body))))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "recipient_name")
		store.AssertNotCalled(t, "CreateScheduledPayment", mock.Anything, mock.Anything)
	})
}

func TestResumeScheduledPayment(t *testing.T) {
	t.Run("Ended schedule", func(t *testing.T) {
		h, store := newHandler()
		end := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		next := time.Date(2019, 12, 1, 0, 0, 0, 0, time.UTC)
		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(&models.ScheduledPayment{
			ID:            "sp-1",
			UserID:        "user-1",
			Status:        models.SchedulePaused,
			Frequency:     models.FrequencyMonthly,
			EndDate:       &end,
			NextScheduled: &next,
		}, nil)

		rr := httptest.NewRecorder()
		h.ResumeScheduledPayment(rr, authed(httptest.NewRequest(http.MethodPost, "/scheduled-payments/sp-1/resume", nil)), "sp-1")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "schedule ended")
		store.AssertNotCalled(t, "UpdateScheduledRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPauseScheduledPayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h, store := newHandler()
		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(&models.ScheduledPayment{ID: "sp-1", UserID: "user-1", Status: models.ScheduleActive}, nil)
		store.On("UpdateScheduledPayment", mock.Anything, mock.Anything, models.ScheduleActive).Return(nil)

		rr := httptest.NewRecorder()
		h.PauseScheduledPayment(rr, authed(httptest.NewRequest(http.MethodPost, "/scheduled-payments/sp-1/pause", nil)), "sp-1")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "paused", decodeSchedule(t, rr).Status)
	})

	t.Run("Missing", func(t *testing.T) {
		h, store := newHandler()
		store.On("GetScheduledPayment", mock.Anything, "sp-9").Return(nil, storage.ErrNotFound)

		rr := httptest.NewRecorder()
		h.PauseScheduledPayment(rr, authed(httptest.NewRequest(http.MethodPost, "/scheduled-payments/sp-9/pause", nil)), "sp-9")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Other user", func(t *testing.T) {
		h, store := newHandler()
		store.On("GetScheduledPayment", mock.Anything, "sp-2").Return(&models.ScheduledPayment{ID: "sp-2", UserID: "user-2", Status: models.ScheduleActive}, nil)

		rr := httptest.NewRecorder()
		h.PauseScheduledPayment(rr, authed(httptest.NewRequest(http.MethodPost, "/scheduled-payments/sp-2/pause", nil)), "sp-2")

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestListScheduledPayments(t *testing.T) {
	h, store := newHandler()
	store.On("ListScheduledPayments", mock.Anything, "user-1").Return([]models.ScheduledPayment{{ID: "sp-1", UserID: "user-1", Status: models.ScheduleActive}}, nil)

	rr := httptest.NewRecorder()
	h.ListScheduledPayments(rr, authed(httptest.NewRequest(http.MethodGet, "/scheduled-payments", nil)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":"sp-1"`)
}

func TestUpdateScheduledPayment(t *testing.T) {
	next := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	rent := func() *models.ScheduledPayment {
		return &models.ScheduledPayment{
			ID: "sp-1", UserID: "user-1", Name: "Rent", PaymentType: models.TypePayment,
			PaymentMethodID: strPtr("pm-1"), Amount: decimal.NewFromInt(15000), Currency: "BDT",
			Frequency: models.FrequencyMonthly, StartDate: next, NextScheduled: &next, Status: models.ScheduleActive,
		}
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		h, store := newHandler()
		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(rent(), nil)
		store.On("UpdateScheduledRun", mock.Anything, mock.MatchedBy(func(sp *models.ScheduledPayment) bool {
			return sp.Amount.Equal(decimal.NewFromInt(16000)) && sp.EndDate != nil
		}), models.ScheduleActive, next).Return(nil)

		body := `{"amount":"16000","end_date":"2025-12-31"}`
		rr := httptest.NewRecorder()

		// Act
		h.UpdateScheduledPayment(rr, authed(httptest.NewRequest(http.MethodPut, "/scheduled-payments/sp-1", strings.NewReader(body))), "sp-1")

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		sp := decodeSchedule(t, rr)
		require.NotNil(t, sp.EndDate)
		assert.Equal(t, "2025-12-31", sp.EndDate.String())
		store.AssertExpectations(t)
	})

	t.Run("Invalid amount", func(t *testing.T) {
		h, store := newHandler()
		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(rent(), nil)

		rr := httptest.NewRecorder()
		h.UpdateScheduledPayment(rr, authed(httptest.NewRequest(http.MethodPut, "/scheduled-payments/sp-1", strings.NewReader(`{"amount":"-5"}`))), "sp-1")

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "amount")
	})
}

func TestCancelScheduledPayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h, store := newHandler()
		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(&models.ScheduledPayment{ID: "sp-1", UserID: "user-1", Status: models.SchedulePaused}, nil)
		store.On("UpdateScheduledPayment", mock.Anything, mock.Anything, models.SchedulePaused).Return(nil)

		rr := httptest.NewRecorder()
		h.CancelScheduledPayment(rr, authed(httptest.NewRequest(http.MethodPost, "/scheduled-payments/sp-1/cancel", nil)), "sp-1")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "cancelled", decodeSchedule(t, rr).Status)
	})
}

func TestDeleteScheduledPayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h, store := newHandler()
		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(&models.ScheduledPayment{ID: "sp-1", UserID: "user-1", Status: models.ScheduleActive}, nil)
		store.On("DeleteScheduledPayment", mock.Anything, "user-1", "sp-1").Return(nil)

		rr := httptest.NewRecorder()
		h.DeleteScheduledPayment(rr, authed(httptest.NewRequest(http.MethodDelete, "/scheduled-payments/sp-1", nil)), "sp-1")

		assert.Equal(t, http.StatusOK, rr.Code)
		store.AssertExpectations(t)
	})

	t.Run("Other user", func(t *testing.T) {
		h, store := newHandler()
		store.On("GetScheduledPayment", mock.Anything, "sp-1").Return(&models.ScheduledPayment{ID: "sp-1", UserID: "user-2"}, nil)

		rr := httptest.NewRecorder()
		h.DeleteScheduledPayment(rr, authed(httptest.NewRequest(http.MethodDelete, "/scheduled-payments/sp-1", nil)), "sp-1")

		assert.Equal(t, http.StatusForbidden, rr.Code)
		store.AssertNotCalled(t, "DeleteScheduledPayment", mock.Anything, mock.Anything, mock.Anything)
	})
}

func strPtr(s string) *string { return &s }
