package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentGateway is a registry entry describing how to reach a payment provider.
// Credentials never leave the process.
type PaymentGateway struct {
	Code              string         `json:"code" gorm:"primaryKey;size:50"`
	Name              string         `json:"name" gorm:"not null"`
	Description       string         `json:"description,omitempty"`
	BaseURL           string         `json:"base_url" gorm:"not null"`
	Credentials       datatypes.JSON `json:"-"`
	WebhookURLs       datatypes.JSON `json:"webhook_urls,omitempty"`
	SupportsRecurring bool           `json:"supports_recurring" gorm:"not null;default:false"`
	IsActive          bool           `json:"is_active" gorm:"not null"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}
