package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransactionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to TransactionStatus
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusFailed, true},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusFailed, true},
		{StatusCompleted, StatusRefunded, true},
		{StatusProcessing, StatusPending, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusFailed, false},
		{StatusFailed, StatusCompleted, false},
		{StatusPending, StatusRefunded, false},
		{StatusPending, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTransactionStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
}

func TestScheduledPayment_Ended(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	assert.False(t, (&ScheduledPayment{}).Ended(now))
	assert.True(t, (&ScheduledPayment{EndDate: &past}).Ended(now))
	assert.False(t, (&ScheduledPayment{EndDate: &future}).Ended(now))
}

func TestBill_HasAutoPayInstrument(t *testing.T) {
	empty := ""
	pm := "pm-1"

	assert.False(t, (&Bill{}).HasAutoPayInstrument())
	assert.False(t, (&Bill{DefaultPaymentMethodID: &empty}).HasAutoPayInstrument())
	assert.True(t, (&Bill{DefaultPaymentMethodID: &pm}).HasAutoPayInstrument())
	assert.True(t, (&Bill{DefaultBankAccountID: &pm}).HasAutoPayInstrument())
}
