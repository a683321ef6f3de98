package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("file:"+uuid.NewString()+"?mode=memory&cache=shared", logging.NewNoOpLogger())
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	store.now = func() time.Time { return base }
	t.Cleanup(store.Close)
	return store
}

func strPtr(s string) *string { return &s }

func method(id, userID string, created time.Time) *models.PaymentMethod {
	return &models.PaymentMethod{
		ID: id, UserID: userID, PaymentGatewayCode: "bkash", Name: "bKash " + id,
		Type: models.MethodMFS, IsActive: true, CreatedAt: created, UpdatedAt: created,
	}
}

func account(id, userID string, created time.Time) *models.BankAccount {
	return &models.BankAccount{
		ID: id, UserID: userID, BankName: "City Bank", AccountNumber: "0011" + id,
		AccountName: "Rahim", AccountType: "savings", IsActive: true, CreatedAt: created, UpdatedAt: created,
	}
}

func countDefaults(t *testing.T, store *Store, userID string) int {
	methods, err := store.ListPaymentMethods(context.Background(), userID)
	require.NoError(t, err)
	n := 0
	for _, pm := range methods {
		if pm.IsDefault {
			n++
		}
	}
	return n
}

func TestPaymentMethods(t *testing.T) {
	ctx := context.Background()

	t.Run("First becomes default", func(t *testing.T) {
		store := newTestStore(t)

		first := method("pm-1", "user-1", base)
		second := method("pm-2", "user-1", base.Add(time.Minute))
		require.NoError(t, store.CreatePaymentMethod(ctx, first))
		require.NoError(t, store.CreatePaymentMethod(ctx, second))

		assert.True(t, first.IsDefault)
		assert.False(t, second.IsDefault)
		assert.Equal(t, 1, countDefaults(t, store, "user-1"))
	})

	t.Run("Set default keeps exactly one", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.CreatePaymentMethod(ctx, method("pm-1", "user-1", base)))
		require.NoError(t, store.CreatePaymentMethod(ctx, method("pm-2", "user-1", base.Add(time.Minute))))
		require.NoError(t, store.CreatePaymentMethod(ctx, method("pm-3", "user-2", base)))

		require.NoError(t, store.SetDefaultPaymentMethod(ctx, "user-1", "pm-2"))

		methods, err := store.ListPaymentMethods(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, methods, 2)
		assert.Equal(t, "pm-2", methods[0].ID)
		assert.True(t, methods[0].IsDefault)
		assert.Equal(t, 1, countDefaults(t, store, "user-1"))
		assert.Equal(t, 1, countDefaults(t, store, "user-2"))
	})

	t.Run("Set default of another user", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.CreatePaymentMethod(ctx, method("pm-1", "user-1", base)))

		err := store.SetDefaultPaymentMethod(ctx, "user-2", "pm-1")

		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Set default inactive", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.CreatePaymentMethod(ctx, method("pm-1", "user-1", base)))
		inactive := method("pm-2", "user-1", base)
		inactive.IsActive = false
		require.NoError(t, store.CreatePaymentMethod(ctx, inactive))

		err := store.SetDefaultPaymentMethod(ctx, "user-1", "pm-2")

		assert.ErrorIs(t, err, storage.ErrInstrumentInactive)
	})

	t.Run("Delete default refused", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.CreatePaymentMethod(ctx, method("pm-1", "user-1", base)))
		require.NoError(t, store.CreatePaymentMethod(ctx, method("pm-2", "user-1", base)))

		assert.ErrorIs(t, store.DeletePaymentMethod(ctx, "user-1", "pm-1"), storage.ErrDefaultInstrument)
		require.NoError(t, store.DeletePaymentMethod(ctx, "user-1", "pm-2"))

		_, err := store.GetPaymentMethod(ctx, "pm-2")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestBankAccounts(t *testing.T) {
	ctx := context.Background()

	t.Run("Delete primary promotes oldest active", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.CreateBankAccount(ctx, account("ba-1", "user-1", base)))
		inactive := account("ba-2", "user-1", base.Add(time.Minute))
		inactive.IsActive = false
		require.NoError(t, store.CreateBankAccount(ctx, inactive))
		require.NoError(t, store.CreateBankAccount(ctx, account("ba-3", "user-1", base.Add(2*time.Minute))))

		require.NoError(t, store.DeleteBankAccount(ctx, "user-1", "ba-1"))

		promoted, err := store.GetBankAccount(ctx, "ba-3")
		require.NoError(t, err)
		assert.True(t, promoted.IsPrimary)
		skipped, err := store.GetBankAccount(ctx, "ba-2")
		require.NoError(t, err)
		assert.False(t, skipped.IsPrimary)
	})

	t.Run("Delete referenced account refused", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.CreateBankAccount(ctx, account("ba-1", "user-1", base)))
		tx := transaction("tx-1", "user-1", base)
		tx.BankAccountID = strPtr("ba-1")
		require.NoError(t, store.CreateTransaction(ctx, tx, storage.CreateOptions{}))

		err := store.DeleteBankAccount(ctx, "user-1", "ba-1")

		assert.ErrorIs(t, err, storage.ErrInstrumentInUse)
	})

	t.Run("Set primary and update", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.CreateBankAccount(ctx, account("ba-1", "user-1", base)))
		second := account("ba-2", "user-1", base.Add(time.Minute))
		require.NoError(t, store.CreateBankAccount(ctx, second))
		assert.False(t, second.IsPrimary)

		require.NoError(t, store.SetPrimaryBankAccount(ctx, "user-1", "ba-2"))
		second.BankName = "BRAC Bank"
		require.NoError(t, store.UpdateBankAccount(ctx, second))

		accounts, err := store.ListBankAccounts(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, "ba-2", accounts[0].ID)
		assert.True(t, accounts[0].IsPrimary)
		assert.Equal(t, "BRAC Bank", accounts[0].BankName)
		assert.False(t, accounts[1].IsPrimary)
	})

	t.Run("Update foreign account", func(t *testing.T) {
		store := newTestStore(t)
		ba := account("ba-1", "user-1", base)
		require.NoError(t, store.CreateBankAccount(ctx, ba))

		ba.UserID = "user-2"
		assert.ErrorIs(t, store.UpdateBankAccount(ctx, ba), storage.ErrNotFound)
	})

	t.Run("Deactivate primary refused", func(t *testing.T) {
		store := newTestStore(t)
		primary := account("ba-1", "user-1", base)
		require.NoError(t, store.CreateBankAccount(ctx, primary))
		second := account("ba-2", "user-1", base.Add(time.Minute))
		require.NoError(t, store.CreateBankAccount(ctx, second))

		primary.IsActive = false
		assert.ErrorIs(t, store.UpdateBankAccount(ctx, primary), storage.ErrDefaultInstrument)

		second.IsActive = false
		require.NoError(t, store.UpdateBankAccount(ctx, second))

		got, err := store.GetBankAccount(ctx, "ba-1")
		require.NoError(t, err)
		assert.True(t, got.IsActive)
		got, err = store.GetBankAccount(ctx, "ba-2")
		require.NoError(t, err)
		assert.False(t, got.IsActive)
	})

	t.Run("Deactivate missing", func(t *testing.T) {
		store := newTestStore(t)
		ba := account("ba-9", "user-1", base)
		ba.IsActive = false

		assert.ErrorIs(t, store.UpdateBankAccount(ctx, ba), storage.ErrNotFound)
	})

	t.Run("Verification is stored", func(t *testing.T) {
		store := newTestStore(t)
		ba := account("ba-1", "user-1", base)
		require.NoError(t, store.CreateBankAccount(ctx, ba))

		verified := base.Add(time.Hour)
		ba.VerifiedAt = &verified
		ba.VerificationMethod = models.VerificationManual
		require.NoError(t, store.UpdateBankAccount(ctx, ba))

		got, err := store.GetBankAccount(ctx, "ba-1")
		require.NoError(t, err)
		require.NotNil(t, got.VerifiedAt)
		assert.True(t, verified.Equal(*got.VerifiedAt))
		assert.Equal(t, models.VerificationManual, got.VerificationMethod)
	})
}

func transaction(id, userID string, created time.Time) *models.Transaction {
	return &models.Transaction{
		ID: id, TransactionID: "tok-" + id, UserID: userID,
		TransactionType: models.TypePayment, Amount: decimal.RequireFromString("150.50"),
		Currency: "BDT", Status: models.StatusPending, CreatedAt: created, UpdatedAt: created,
	}
}

func TestTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("Create marks bill pending", func(t *testing.T) {
		store := newTestStore(t)
		bill := &models.Bill{ID: "bill-1", UserID: "user-1", Name: "Electricity", BillType: "utility", Currency: "BDT",
			Frequency: models.FrequencyMonthly, NextDueDate: base, PaymentStatus: models.BillUnpaid, IsActive: true}
		require.NoError(t, store.CreateBill(ctx, bill))

		tx := transaction("tx-1", "user-1", base)
		tx.BillID = strPtr("bill-1")
		require.NoError(t, store.CreateTransaction(ctx, tx, storage.CreateOptions{MarkBillPending: true}))

		got, err := store.GetBill(ctx, "bill-1")
		require.NoError(t, err)
		assert.Equal(t, models.BillPending, got.PaymentStatus)

		stored, err := store.GetTransactionByToken(ctx, "tok-tx-1")
		require.NoError(t, err)
		assert.True(t, stored.Amount.Equal(decimal.RequireFromString("150.50")))
	})

	t.Run("Create with missing bill rolls back", func(t *testing.T) {
		store := newTestStore(t)
		tx := transaction("tx-1", "user-1", base)
		tx.BillID = strPtr("missing")

		err := store.CreateTransaction(ctx, tx, storage.CreateOptions{MarkBillPending: true})

		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = store.GetTransaction(ctx, "tx-1")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Duplicate token", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.CreateTransaction(ctx, transaction("tx-1", "user-1", base), storage.CreateOptions{}))
		dup := transaction("tx-2", "user-1", base)
		dup.TransactionID = "tok-tx-1"

		assert.ErrorIs(t, store.CreateTransaction(ctx, dup, storage.CreateOptions{}), storage.ErrDuplicate)
	})

	t.Run("Conditional status update", func(t *testing.T) {
		store := newTestStore(t)
		tx := transaction("tx-1", "user-1", base)
		tx.ReferenceID = "ref-1"
		require.NoError(t, store.CreateTransaction(ctx, tx, storage.CreateOptions{}))
		processed := base.Add(time.Minute)

		err := store.UpdateTransactionStatus(ctx, storage.StatusUpdate{
			ID: "tx-1", From: models.StatusPending, To: models.StatusCompleted,
			GatewayReference: "trx-9", ResponseData: []byte(`{"ok":true}`), ProcessedAt: &processed,
		})
		require.NoError(t, err)

		err = store.UpdateTransactionStatus(ctx, storage.StatusUpdate{ID: "tx-1", From: models.StatusPending, To: models.StatusFailed})
		assert.ErrorIs(t, err, storage.ErrStatusConflict)

		got, err := store.GetTransactionByReference(ctx, "ref-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, got.Status)
		assert.Equal(t, "trx-9", got.GatewayReference)
		assert.JSONEq(t, `{"ok":true}`, string(got.ResponseData))
		require.NotNil(t, got.ProcessedAt)
		assert.True(t, processed.Equal(*got.ProcessedAt))
	})

	t.Run("List filters newest first", func(t *testing.T) {
		store := newTestStore(t)
		older := transaction("tx-1", "user-1", base)
		newer := transaction("tx-2", "user-1", base.Add(time.Hour))
		failed := transaction("tx-3", "user-1", base.Add(2*time.Hour))
		failed.Status = models.StatusFailed
		for _, tx := range []*models.Transaction{older, newer, failed, transaction("tx-4", "user-2", base)} {
			require.NoError(t, store.CreateTransaction(ctx, tx, storage.CreateOptions{}))
		}

		txs, err := store.ListTransactionsByUserID(ctx, "user-1", storage.TransactionFilter{Status: models.StatusPending})

		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, "tx-2", txs[0].ID)
		assert.Equal(t, "tx-1", txs[1].ID)
	})

	t.Run("Stale pending", func(t *testing.T) {
		store := newTestStore(t)
		stale := transaction("tx-1", "user-1", base.Add(-2*time.Hour))
		stale.ReferenceID = "ref-1"
		fresh := transaction("tx-2", "user-1", base.Add(-time.Minute))
		fresh.ReferenceID = "ref-2"
		unreferenced := transaction("tx-3", "user-1", base.Add(-2*time.Hour))
		for _, tx := range []*models.Transaction{stale, fresh, unreferenced} {
			require.NoError(t, store.CreateTransaction(ctx, tx, storage.CreateOptions{}))
		}

		txs, err := store.GetStalePendingTransactions(ctx, 30*time.Minute)

		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "tx-1", txs[0].ID)
	})
}

func TestScheduledPayments(t *testing.T) {
	ctx := context.Background()
	next := func(d time.Duration) *time.Time { at := base.Add(d); return &at }

	store := newTestStore(t)
	due := &models.ScheduledPayment{ID: "sp-1", UserID: "user-1", Name: "Rent", PaymentType: models.TypeTransfer,
		Amount: decimal.NewFromInt(5000), Currency: "BDT", Frequency: models.FrequencyMonthly, StartDate: base,
		NextScheduled: next(-time.Hour), Status: models.ScheduleActive, CreatedAt: base, UpdatedAt: base}
	later := *due
	later.ID, later.NextScheduled = "sp-2", next(24*time.Hour)
	paused := *due
	paused.ID, paused.Status = "sp-3", models.SchedulePaused
	for _, sp := range []*models.ScheduledPayment{due, &later, &paused} {
		require.NoError(t, store.CreateScheduledPayment(ctx, sp))
	}

	t.Run("List due", func(t *testing.T) {
		schedules, err := store.ListDueScheduledPayments(ctx, base)

		require.NoError(t, err)
		require.Len(t, schedules, 1)
		assert.Equal(t, "sp-1", schedules[0].ID)
	})

	t.Run("Update guarded by status", func(t *testing.T) {
		due.TimesProcessed = 1
		due.NextScheduled = next(30 * 24 * time.Hour)

		require.NoError(t, store.UpdateScheduledPayment(ctx, due, models.ScheduleActive))
		assert.ErrorIs(t, store.UpdateScheduledPayment(ctx, due, models.SchedulePaused), storage.ErrStatusConflict)

		got, err := store.GetScheduledPayment(ctx, "sp-1")
		require.NoError(t, err)
		assert.Equal(t, 1, got.TimesProcessed)
		assert.True(t, due.NextScheduled.Equal(*got.NextScheduled))
		assert.True(t, base.Equal(got.CreatedAt))
	})

	t.Run("Run guarded by next date", func(t *testing.T) {
		loaded, err := store.GetScheduledPayment(ctx, "sp-2")
		require.NoError(t, err)
		observed := *loaded.NextScheduled
		claimed := *loaded
		claimed.TimesProcessed++
		claimed.NextScheduled = next(31 * 24 * time.Hour)

		require.NoError(t, store.UpdateScheduledRun(ctx, &claimed, models.ScheduleActive, observed))
		assert.ErrorIs(t, store.UpdateScheduledRun(ctx, &claimed, models.ScheduleActive, observed), storage.ErrStatusConflict)

		got, err := store.GetScheduledPayment(ctx, "sp-2")
		require.NoError(t, err)
		assert.Equal(t, 1, got.TimesProcessed)
		assert.True(t, claimed.NextScheduled.Equal(*got.NextScheduled))
	})
}

func TestGatewaysAndConnections(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	t.Run("Upsert gateway", func(t *testing.T) {
		gw := &models.PaymentGateway{Code: "bkash", Name: "bKash", BaseURL: "https://sandbox", IsActive: true,
			Credentials: datatypes.JSON(`{"app_key":"k"}`)}
		require.NoError(t, store.UpsertGateway(ctx, gw))
		require.NoError(t, store.UpsertGateway(ctx, &models.PaymentGateway{Code: "sslcommerz", Name: "SSLCommerz", BaseURL: "https://ssl"}))

		gw.BaseURL = "https://live"
		require.NoError(t, store.UpsertGateway(ctx, gw))

		got, err := store.GetGateway(ctx, "bkash")
		require.NoError(t, err)
		assert.Equal(t, "https://live", got.BaseURL)

		active, err := store.ListGateways(ctx, true)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "bkash", active[0].Code)
	})

	t.Run("Connections", func(t *testing.T) {
		require.NoError(t, store.AddConnection(ctx, "user-1", "conn-1"))
		require.NoError(t, store.AddConnection(ctx, "user-1", "conn-2"))
		require.NoError(t, store.RemoveConnection(ctx, "conn-1"))
		require.NoError(t, store.RemoveConnection(ctx, "unknown"))

		ids, err := store.GetConnections(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"conn-2"}, ids)
	})
}
