package discord

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/chris/digital-wallet/pkg/events"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	channel string
	content string
	err     error
}

func (s *fakeSender) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.channel, s.content = channelID, content
	if s.err != nil {
		return nil, s.err
	}
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func event() events.TransactionProcessed {
	return events.TransactionProcessed{
		Transaction: models.Transaction{
			TransactionID:    "tok-1",
			UserID:           "user-1",
			TransactionType:  models.TypePayment,
			Amount:           decimal.RequireFromString("250.5"),
			Currency:         "BDT",
			GatewayReference: "TRX9",
			Description:      "Payment for Electricity - 1234",
		},
		OccurredAt: time.Now(),
	}
}

func TestNotifier_HandleTransactionProcessed(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		sender := &fakeSender{}
		n := NewWithSender(sender, "chan-1")

		require.NoError(t, n.HandleTransactionProcessed(context.Background(), event()))

		assert.Equal(t, "chan-1", sender.channel)
		assert.Contains(t, sender.content, "BDT 250.50")
		assert.Contains(t, sender.content, "tok-1")
		assert.Contains(t, sender.content, "TRX9")
		assert.Contains(t, sender.content, "Payment for Electricity - 1234")
	})

	t.Run("Send failure", func(t *testing.T) {
		n := NewWithSender(&fakeSender{err: errors.New("rate limited")}, "chan-1")

		err := n.HandleTransactionProcessed(context.Background(), event())

		assert.ErrorContains(t, err, "rate limited")
	})
}

func TestNew_RequiresSettings(t *testing.T) {
	_, err := New("", "chan-1")
	assert.Error(t, err)
}
