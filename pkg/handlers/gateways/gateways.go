package gateways

import (
	"errors"
	"net/http"

	"github.com/chris/digital-wallet/pkg/apperr"
	"github.com/chris/digital-wallet/pkg/handlers/respond"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/mapping"
	"github.com/chris/digital-wallet/pkg/storage"
)

// GatewaysHandler exposes the payment gateway registry without credentials.
type GatewaysHandler struct {
	Store  storage.GatewayReader
	Logger *logging.Logger
}

// NewGatewaysHandler creates a new GatewaysHandler.
func NewGatewaysHandler(store storage.GatewayReader, logger *logging.Logger) *GatewaysHandler {
	return &GatewaysHandler{Store: store, Logger: logging.OrGlobal(logger).Named("gateways")}
}

// ListPaymentGateways returns the active gateways.
func (h *GatewaysHandler) ListPaymentGateways(w http.ResponseWriter, r *http.Request) {
	gws, err := h.Store.ListGateways(r.Context(), true)
	if err != nil {
		respond.Error(w, h.Logger, apperr.Persistence("Failed to retrieve payment gateways", err))
		return
	}
	respond.Data(w, http.StatusOK, "", mapping.ToApiPaymentGateways(gws))
}

// GetPaymentGateway returns an active gateway by code.
func (h *GatewaysHandler) GetPaymentGateway(w http.ResponseWriter, r *http.Request, code string) {
	gw, err := h.Store.GetGateway(r.Context(), code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, h.Logger, apperr.NotFound("payment gateway not found"))
			return
		}
		respond.Error(w, h.Logger, apperr.Persistence("Failed to retrieve payment gateway", err))
		return
	}
	if !gw.IsActive {
		respond.Error(w, h.Logger, apperr.NotFound("payment gateway not found"))
		return
	}
	respond.Data(w, http.StatusOK, "", mapping.ToApiPaymentGateway(gw))
}
