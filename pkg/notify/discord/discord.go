// Package discord posts completed transactions to an operations channel.
package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/chris/digital-wallet/pkg/events"
)

// Sender is the part of *discordgo.Session the notifier uses.
type Sender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier is an events.Listener that announces completed transactions.
type Notifier struct {
	sender    Sender
	channelID string
}

// New creates a Notifier backed by a bot session. The session is only used
// for REST calls, so no gateway connection is opened.
func New(botToken, channelID string) (*Notifier, error) {
	if botToken == "" || channelID == "" {
		return nil, errors.New("discord bot token and channel id are required")
	}
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return NewWithSender(session, channelID), nil
}

// NewWithSender creates a Notifier around an existing sender.
func NewWithSender(sender Sender, channelID string) *Notifier {
	return &Notifier{sender: sender, channelID: channelID}
}

func (n *Notifier) Name() string { return "discord" }

func (n *Notifier) HandleTransactionProcessed(ctx context.Context, event events.TransactionProcessed) error {
	if _, err := n.sender.ChannelMessageSend(n.channelID, Format(event), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send Discord message: %w", err)
	}
	return nil
}

// Format renders the channel message for a completed transaction.
func Format(event events.TransactionProcessed) string {
	tx := event.Transaction
	msg := fmt.Sprintf("Payment completed: **%s %s** (%s) by user %s\nTransaction: %s",
		tx.Currency, tx.Amount.StringFixed(2), tx.TransactionType, tx.UserID, tx.TransactionID)
	if tx.GatewayReference != "" {
		msg += "\nGateway reference: " + tx.GatewayReference
	}
	if tx.Description != "" {
		msg += "\n" + tx.Description
	}
	return msg
}
