package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/chris/digital-wallet/pkg/apperr"
	"github.com/chris/digital-wallet/pkg/models"
	storage_mocks "github.com/chris/digital-wallet/pkg/storage/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	caller = models.Caller{UserID: "user-1"}
	now    = time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC)
)

func newTestService(store Store) *Service {
	s := New(store, nil)
	s.now = func() time.Time { return now }
	return s
}

func tx(typ models.TransactionType, status models.TransactionStatus, amount int64, age time.Duration) models.Transaction {
	return models.Transaction{
		UserID:          "user-1",
		TransactionType: typ,
		Status:          status,
		Amount:          decimal.NewFromInt(amount),
		CreatedAt:       now.Add(-age),
	}
}

func history() []models.Transaction {
	day := 24 * time.Hour
	return []models.Transaction{
		tx(models.TypeDeposit, models.StatusCompleted, 5000, day),
		tx(models.TypePayment, models.StatusCompleted, 1200, 2*day),
		tx(models.TypeTransfer, models.StatusCompleted, 300, 3*day),
		tx(models.TypePayment, models.StatusPending, 999, 4*day),
		tx(models.TypePayment, models.StatusCompleted, 800, 45*day),
		tx(models.TypeDeposit, models.StatusFailed, 700, 50*day),
	}
}

func bill(id string, due time.Time, status models.BillPaymentStatus, active bool) models.Bill {
	return models.Bill{ID: id, UserID: "user-1", NextDueDate: due, PaymentStatus: status, IsActive: active}
}

func TestService_Overview(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store)

		store.On("ListTransactionsByUserID", mock.Anything, "user-1", mock.Anything).Return(history(), nil)
		store.On("ListBills", mock.Anything, "user-1").Return([]models.Bill{
			bill("bill-1", now.AddDate(0, 0, 5), models.BillUnpaid, true),
			bill("bill-2", now.AddDate(0, 0, 60), models.BillUnpaid, true),
		}, nil)

		got, err := s.Overview(context.Background(), caller)

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(5000).Equal(got.TotalIncome))
		assert.True(t, decimal.NewFromInt(2300).Equal(got.TotalExpenses))
		assert.Equal(t, 1, got.UpcomingBillsCount)
		assert.Equal(t, 4, got.RecentTransactionsCount)
	})

	t.Run("Store failure", func(t *testing.T) {
		store := new(storage_mocks.ApiStore)
		s := newTestService(store)

		store.On("ListTransactionsByUserID", mock.Anything, "user-1", mock.Anything).Return(nil, errors.New("connection reset"))

		_, err := s.Overview(context.Background(), caller)

		assert.True(t, apperr.Is(err, apperr.KindPersistence))
	})
}

func TestService_TransactionsSummary(t *testing.T) {
	store := new(storage_mocks.ApiStore)
	s := newTestService(store)

	store.On("ListTransactionsByUserID", mock.Anything, "user-1", mock.Anything).Return(history(), nil)

	got, err := s.TransactionsSummary(context.Background(), caller)

	require.NoError(t, err)
	assert.Equal(t, now.Add(-Window), got.Start)
	assert.Equal(t, now, got.End)
	require.Len(t, got.Income, 1)
	assert.Equal(t, 1, got.Income[models.TypeDeposit].Count)
	require.Len(t, got.Expenses, 2)
	payments := got.Expenses[models.TypePayment]
	assert.Equal(t, 1, payments.Count)
	assert.True(t, decimal.NewFromInt(1200).Equal(payments.Total))
	assert.True(t, decimal.NewFromInt(300).Equal(got.Expenses[models.TypeTransfer].Total))
}

func TestService_UpcomingBills(t *testing.T) {
	store := new(storage_mocks.ApiStore)
	s := newTestService(store)

	store.On("ListBills", mock.Anything, "user-1").Return([]models.Bill{
		bill("later", now.AddDate(0, 0, 20), models.BillUnpaid, true),
		bill("overdue", now.AddDate(0, 0, -2), models.BillPending, true),
		bill("paid", now.AddDate(0, 0, 3), models.BillPaid, true),
		bill("inactive", now.AddDate(0, 0, 3), models.BillUnpaid, false),
		bill("far", now.AddDate(0, 0, 45), models.BillUnpaid, true),
	}, nil)

	got, err := s.UpcomingBills(context.Background(), caller)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "overdue", got[0].ID)
	assert.Equal(t, "later", got[1].ID)
}

func TestService_RecentTransactions(t *testing.T) {
	store := new(storage_mocks.ApiStore)
	s := newTestService(store)

	txs := make([]models.Transaction, 15)
	for i := range txs {
		txs[i] = tx(models.TypePayment, models.StatusCompleted, 100, time.Duration(i)*time.Hour)
		txs[i].ID = fmt.Sprintf("tx-%d", i)
	}
	store.On("ListTransactionsByUserID", mock.Anything, "user-1", mock.Anything).Return(txs, nil)

	got, err := s.RecentTransactions(context.Background(), caller)

	require.NoError(t, err)
	require.Len(t, got, RecentLimit)
	assert.Equal(t, "tx-0", got[0].ID)
}
