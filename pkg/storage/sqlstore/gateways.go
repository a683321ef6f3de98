package sqlstore

import (
	"context"
	"fmt"

	"github.com/chris/digital-wallet/pkg/models"
	"gorm.io/gorm/clause"
)

// GetGateway retrieves a registry entry by code.
func (s *Store) GetGateway(ctx context.Context, code string) (*models.PaymentGateway, error) {
	var gw models.PaymentGateway
	if err := s.db.WithContext(ctx).First(&gw, "code = ?", code).Error; err != nil {
		return nil, translate(err)
	}
	return &gw, nil
}

// ListGateways returns registry entries ordered by name.
func (s *Store) ListGateways(ctx context.Context, activeOnly bool) ([]models.PaymentGateway, error) {
	q := s.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var gateways []models.PaymentGateway
	if err := q.Order("name").Find(&gateways).Error; err != nil {
		return nil, fmt.Errorf("failed to list gateways: %w", err)
	}
	return gateways, nil
}

// UpsertGateway inserts gw or overwrites the existing entry with the same code,
// keeping its original created_at.
func (s *Store) UpsertGateway(ctx context.Context, gw *models.PaymentGateway) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "base_url", "credentials", "webhook_urls",
			"supports_recurring", "is_active", "updated_at",
		}),
	}).Create(gw).Error
	if err != nil {
		return fmt.Errorf("failed to upsert gateway %s: %w", gw.Code, err)
	}
	return nil
}
