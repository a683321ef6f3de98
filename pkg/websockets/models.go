package websockets

import (
	"time"

	"github.com/chris/digital-wallet/pkg/models"
)

// MessageType defines the type of a WebSocket message.
type MessageType string

const (
	// MessageTypeTransactionUpdate is sent when a transaction reaches a new status.
	MessageTypeTransactionUpdate MessageType = "transactionUpdate"
)

// Message represents a generic WebSocket message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// TransactionUpdatePayload is the payload for a transactionUpdate message.
type TransactionUpdatePayload struct {
	ID            string     `json:"id"`
	TransactionID string     `json:"transaction_id"`
	Status        string     `json:"status"`
	Amount        string     `json:"amount"`
	Currency      string     `json:"currency"`
	Description   string     `json:"description,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}

// NewTransactionUpdate builds the message announcing tx's current status.
func NewTransactionUpdate(tx *models.Transaction) Message {
	return Message{
		Type: MessageTypeTransactionUpdate,
		Payload: TransactionUpdatePayload{
			ID:            tx.ID,
			TransactionID: tx.TransactionID,
			Status:        string(tx.Status),
			Amount:        tx.Amount.StringFixed(2),
			Currency:      tx.Currency,
			Description:   tx.Description,
			ProcessedAt:   tx.ProcessedAt,
		},
	}
}
