package bills

import (
	"context"
	"testing"
	"time"

	"github.com/chris/digital-wallet/pkg/apperr"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage"
	storage_mocks "github.com/chris/digital-wallet/pkg/storage/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	caller = models.Caller{UserID: "user-1"}
	today  = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
)

func newTestService(store Store) *Service {
	s := New(store, nil)
	s.now = func() time.Time { return today }
	s.newID = func() string { return "bill-1" }
	return s
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestService_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store)
		due := today.AddDate(0, 0, 10)
		amount := decimal.NewFromInt(1500)

		store.On("CreateBill", mock.Anything, mock.MatchedBy(func(b *models.Bill) bool {
			return b.ID == "bill-1" && b.PaymentStatus == models.BillUnpaid && b.Currency == "BDT" && b.IsActive
		})).Return(nil)

		bill, err := s.Create(context.Background(), caller, Input{
			Name:          strPtr("Electricity"),
			BillType:      strPtr("electricity"),
			AccountNumber: strPtr("1234"),
			Amount:        &amount,
			NextDueDate:   &due,
		})

		require.NoError(t, err)
		assert.Equal(t, models.FrequencyMonthly, bill.Frequency)
		store.AssertExpectations(t)
	})

	t.Run("Auto-pay needs an instrument", func(t *testing.T) {
		s := newTestService(new(storage_mocks.ApiStore))
		due := today

		_, err := s.Create(context.Background(), caller, Input{
			Name:        strPtr("Water"),
			BillType:    strPtr("water"),
			NextDueDate: &due,
			AutoPay:     boolPtr(true),
		})

		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Fields, "auto_pay")
	})

	t.Run("Foreign default instrument", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store)
		due := today

		store.On("GetPaymentMethod", mock.Anything, "pm-9").Return(&models.PaymentMethod{ID: "pm-9", UserID: "user-2"}, nil)

		_, err := s.Create(context.Background(), caller, Input{
			Name:                   strPtr("Gas"),
			BillType:               strPtr("gas"),
			NextDueDate:            &due,
			DefaultPaymentMethodID: strPtr("pm-9"),
		})

		assert.True(t, apperr.Is(err, apperr.KindValidation))
		store.AssertNotCalled(t, "CreateBill", mock.Anything, mock.Anything)
	})
}

func TestService_ToggleAutoPay(t *testing.T) {
	t.Run("Enable with instrument", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store)

		store.On("GetBill", mock.Anything, "bill-1").Return(&models.Bill{ID: "bill-1", UserID: "user-1", Frequency: models.FrequencyMonthly}, nil)
		store.On("GetBankAccount", mock.Anything, "ba-1").Return(&models.BankAccount{ID: "ba-1", UserID: "user-1"}, nil)
		store.On("UpdateBill", mock.Anything, mock.MatchedBy(func(b *models.Bill) bool {
			return b.AutoPay && *b.DefaultBankAccountID == "ba-1"
		})).Return(nil)

		bill, err := s.ToggleAutoPay(context.Background(), caller, "bill-1", true, nil, strPtr("ba-1"))

		require.NoError(t, err)
		assert.True(t, bill.AutoPay)
		store.AssertExpectations(t)
	})

	t.Run("Enable without instrument", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store)

		store.On("GetBill", mock.Anything, "bill-1").Return(&models.Bill{ID: "bill-1", UserID: "user-1"}, nil)

		_, err := s.ToggleAutoPay(context.Background(), caller, "bill-1", true, nil, nil)

		assert.True(t, apperr.Is(err, apperr.KindValidation))
		store.AssertNotCalled(t, "UpdateBill", mock.Anything, mock.Anything)
	})

	t.Run("Disable", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store)

		store.On("GetBill", mock.Anything, "bill-1").Return(&models.Bill{ID: "bill-1", UserID: "user-1", AutoPay: true}, nil)
		store.On("UpdateBill", mock.Anything, mock.Anything).Return(nil)

		bill, err := s.ToggleAutoPay(context.Background(), caller, "bill-1", false, nil, nil)

		require.NoError(t, err)
		assert.False(t, bill.AutoPay)
	})
}

func TestService_ListAndDueSoon(t *testing.T) {
	store := new(storage_mocks.ApiStore)
	s := newTestService(store)

	store.On("ListBills", mock.Anything, "user-1").Return([]models.Bill{
		{ID: "late", BillType: "water", PaymentStatus: models.BillUnpaid, NextDueDate: today.AddDate(0, 0, 20)},
		{ID: "soon", BillType: "electricity", PaymentStatus: models.BillUnpaid, NextDueDate: today.AddDate(0, 0, 3)},
		{ID: "paid", BillType: "electricity", PaymentStatus: models.BillPaid, NextDueDate: today.AddDate(0, 0, 1)},
		{ID: "overdue", BillType: "gas", PaymentStatus: models.BillUnpaid, NextDueDate: today.AddDate(0, 0, -1)},
	}, nil)

	t.Run("List sorts by due date", func(t *testing.T) {
		bills, err := s.List(context.Background(), caller, Filter{})

		require.NoError(t, err)
		require.Len(t, bills, 4)
		assert.Equal(t, "overdue", bills[0].ID)
		assert.Equal(t, "late", bills[3].ID)
	})

	t.Run("List filters by type", func(t *testing.T) {
		bills, err := s.List(context.Background(), caller, Filter{BillType: "electricity"})

		require.NoError(t, err)
		assert.Len(t, bills, 2)
	})

	t.Run("Due soon", func(t *testing.T) {
		bills, err := s.DueSoon(context.Background(), caller, 7)

		require.NoError(t, err)
		require.Len(t, bills, 1)
		assert.Equal(t, "soon", bills[0].ID)
	})
}

func TestService_Get_Foreign(t *testing.T) {
	store := new(storage_mocks.ApiStore)
	s := newTestService(store)

	store.On("GetBill", mock.Anything, "bill-1").Return(&models.Bill{ID: "bill-1", UserID: "user-2"}, nil)
	store.On("GetBill", mock.Anything, "bill-2").Return(nil, storage.ErrNotFound)

	_, err := s.Get(context.Background(), caller, "bill-1")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	err = s.Delete(context.Background(), caller, "bill-2")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
