// Package respond writes the JSON envelope every handler answers with and
// translates service errors into status codes.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chris/digital-wallet/pkg/api"
	"github.com/chris/digital-wallet/pkg/apperr"
	"github.com/chris/digital-wallet/pkg/gateway"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/middleware"
	"github.com/chris/digital-wallet/pkg/models"
	"go.uber.org/zap"
)

// JSON writes body with the given status.
func JSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.L().Error("failed to write response", zap.Error(err))
	}
}

// Data writes a successful envelope.
func Data(w http.ResponseWriter, status int, message string, data interface{}) {
	JSON(w, status, api.Envelope{Success: true, Message: message, Data: data})
}

// Message writes a successful envelope without data.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, api.Envelope{Success: true, Message: message})
}

// Decode reads a JSON request body into v. A malformed body is a validation
// error: it answers 422 and returns false.
func Decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		JSON(w, http.StatusUnprocessableEntity, api.Envelope{
			Success: false,
			Message: "Validation error",
			Errors:  map[string][]string{"body": {"invalid request body: " + err.Error()}},
		})
		return false
	}
	return true
}

// Caller returns the request's caller. Routes are mounted behind
// middleware.Identity, so a missing caller answers 401.
func Caller(w http.ResponseWriter, r *http.Request) (models.Caller, bool) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		JSON(w, http.StatusUnauthorized, api.Envelope{Success: false, Message: "Unauthenticated."})
	}
	return caller, ok
}

// Status maps an application error kind to an HTTP status.
func Status(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidState:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Error writes the envelope for err. 500-class responses carry a summary and
// the full error goes to the log.
func Error(w http.ResponseWriter, logger *logging.Logger, err error) {
	logger = logging.OrGlobal(logger)

	var appErr *apperr.Error
	var gwErr *gateway.Error
	switch {
	case errors.As(err, &appErr):
		status := Status(appErr.Kind)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", zap.Error(err))
		}
		JSON(w, status, api.Envelope{Success: false, Message: appErr.Message, Errors: appErr.Fields})
	case errors.As(err, &gwErr):
		logger.Error("payment gateway error",
			zap.String("provider", gwErr.Provider),
			zap.String("kind", string(gwErr.Kind)),
			zap.Error(err),
		)
		JSON(w, http.StatusInternalServerError, api.Envelope{Success: false, Message: gwErr.Message})
	case gateway.IsConfigError(err):
		logger.Error("payment gateway misconfigured", zap.Error(err))
		JSON(w, http.StatusInternalServerError, api.Envelope{Success: false, Message: "Payment gateway is not available: " + err.Error()})
	default:
		logger.Error("unexpected error", zap.Error(err))
		JSON(w, http.StatusInternalServerError, api.Envelope{Success: false, Message: "Internal server error"})
	}
}
