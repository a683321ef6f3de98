package gateway

import (
	"errors"
	"fmt"
)

// ErrUnsupportedGateway is returned for codes with no registered adapter.
var ErrUnsupportedGateway = errors.New("unsupported payment gateway")

// ErrGatewayNotConfigured is returned when a supported provider has no usable
// active registry entry.
var ErrGatewayNotConfigured = errors.New("payment gateway not configured")

// ErrorKind classifies provider failures.
type ErrorKind string

const (
	KindNetwork  ErrorKind = "network"
	KindAuth     ErrorKind = "auth"
	KindRejected ErrorKind = "rejected"
)

// Error is the uniform failure value of adapter calls.
type Error struct {
	Provider string
	Kind     ErrorKind
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s error: %s: %v", e.Provider, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s error: %s", e.Provider, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Rejected builds the error for a response the provider declined.
func Rejected(provider, message string) *Error {
	return &Error{Provider: provider, Kind: KindRejected, Message: message}
}

// IsConfigError reports whether err is a registry misconfiguration.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrUnsupportedGateway) || errors.Is(err, ErrGatewayNotConfigured)
}

// ErrInvalidCallback is returned by callback parsers when the provider
// parameters lack the correlation key.
var ErrInvalidCallback = errors.New("invalid payment callback")
