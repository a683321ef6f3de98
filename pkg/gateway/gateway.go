// Package gateway defines the contract every payment provider integration
// implements, and the registry the ledger resolves providers through.
package gateway

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/shopspring/decimal"
)

// Status is a provider's native status token, e.g. "Completed" or "VALID".
type Status string

// StatusUnknown is returned when a provider response carries no status token.
const StatusUnknown Status = "UNKNOWN"

// Metadata travels with a payment initiation.
type Metadata struct {
	// TransactionToken is the transaction's public token, used as the merchant invoice id.
	TransactionToken string
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	Purpose          string
}

// Response is the normalized result of a provider call.
type Response struct {
	Success bool `json:"success"`
	// PaymentID is the provider-assigned id later echoed by callbacks, if any.
	PaymentID   string `json:"payment_id,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Status      Status `json:"status,omitempty"`
	Message     string `json:"message,omitempty"`
	// Raw is the provider's response body, kept verbatim for audit.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// Adapter wraps one external payment provider.
type Adapter interface {
	// Code returns the registry code the adapter serves.
	Code() string

	InitiatePayment(ctx context.Context, amount decimal.Decimal, currency string, md Metadata) (*Response, error)

	// ExecutePayment finalizes a payment. Providers that settle in their hosted UI return success.
	ExecutePayment(ctx context.Context, paymentID string, data map[string]string) (*Response, error)

	VerifyPayment(ctx context.Context, paymentID string) (*Response, error)

	// RefundPayment does not check amount against the captured amount; callers must.
	RefundPayment(ctx context.Context, paymentID string, amount decimal.Decimal, reason string) (*Response, error)

	// GetPaymentStatus returns the provider status token, or StatusUnknown.
	GetPaymentStatus(ctx context.Context, paymentID string) (Status, error)
}

// LookupKey says which transaction field a callback's correlation key matches.
type LookupKey int

const (
	// LookupByReference matches Transaction.ReferenceID.
	LookupByReference LookupKey = iota
	// LookupByToken matches Transaction.TransactionID.
	LookupByToken
)

// Callback is a provider notification reduced to what reconciliation needs.
type Callback struct {
	LookupBy LookupKey
	Key      string
	// PaymentID is the id to query the provider's status with.
	PaymentID        string
	GatewayReference string
	// FinalStatus is set when the callback itself settles the outcome.
	FinalStatus Status
	Raw         json.RawMessage
}

// CallbackParser is implemented by adapters whose provider calls back into the service.
type CallbackParser interface {
	ParseCallback(outcome string, params url.Values) (*Callback, error)
}

// RawParams encodes callback parameters as a flat JSON object for audit storage.
func RawParams(params url.Values) json.RawMessage {
	flat := make(map[string]string, len(params))
	for k := range params {
		flat[k] = params.Get(k)
	}
	b, err := json.Marshal(flat)
	if err != nil {
		return nil
	}
	return b
}
