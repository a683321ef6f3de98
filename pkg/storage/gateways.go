package storage

import (
	"context"

	"github.com/chris/digital-wallet/pkg/models"
)

// GatewayReader looks up payment gateway registry entries.
type GatewayReader interface {
	GetGateway(ctx context.Context, code string) (*models.PaymentGateway, error)
	ListGateways(ctx context.Context, activeOnly bool) ([]models.PaymentGateway, error)
}

// GatewayStore adds registry maintenance, used by seeding.
type GatewayStore interface {
	GatewayReader
	UpsertGateway(ctx context.Context, gw *models.PaymentGateway) error
}
