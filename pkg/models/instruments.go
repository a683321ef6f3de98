package models

import "time"

// PaymentMethodType is the kind of instrument a payment method wraps.
type PaymentMethodType string

const (
	MethodCard         PaymentMethodType = "card"
	MethodMFS          PaymentMethodType = "mfs"
	MethodBankAccount  PaymentMethodType = "bank_account"
	MethodMobileWallet PaymentMethodType = "mobile_wallet"
)

// Valid reports whether t is a known payment method type.
func (t PaymentMethodType) Valid() bool {
	switch t {
	case MethodCard, MethodMFS, MethodBankAccount, MethodMobileWallet:
		return true
	}
	return false
}

// PaymentMethod is a gateway-backed instrument owned by a user.
type PaymentMethod struct {
	ID                 string            `json:"id" gorm:"primaryKey;size:36"`
	UserID             string            `json:"user_id" gorm:"index;size:64;not null"`
	PaymentGatewayCode string            `json:"payment_gateway_code" gorm:"size:50;not null"`
	Name               string            `json:"name" gorm:"not null"`
	Type               PaymentMethodType `json:"type" gorm:"size:20;not null"`
	Provider           string            `json:"provider,omitempty"`
	AccountNumber      string            `json:"account_number,omitempty"`
	LastFour           string            `json:"last_four,omitempty" gorm:"size:4"`
	CardBrand          string            `json:"card_brand,omitempty" gorm:"size:20"`
	ExpiryMonth        string            `json:"expiry_month,omitempty" gorm:"size:2"`
	ExpiryYear         string            `json:"expiry_year,omitempty" gorm:"size:4"`
	IsDefault          bool              `json:"is_default" gorm:"not null;default:false"`
	IsActive           bool              `json:"is_active" gorm:"not null"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// VerificationManual marks an account verified by its holder through the API.
const VerificationManual = "manual"

// BankAccount is a locally settled instrument owned by a user.
type BankAccount struct {
	ID                 string     `json:"id" gorm:"primaryKey;size:36"`
	UserID             string     `json:"user_id" gorm:"index;size:64;not null"`
	BankName           string     `json:"bank_name" gorm:"not null"`
	AccountNumber      string     `json:"account_number" gorm:"not null"`
	AccountName        string     `json:"account_name" gorm:"not null"`
	AccountType        string     `json:"account_type" gorm:"size:20;not null"`
	BranchName         string     `json:"branch_name,omitempty"`
	RoutingNumber      string     `json:"routing_number,omitempty"`
	SwiftCode          string     `json:"swift_code,omitempty"`
	IsActive           bool       `json:"is_active" gorm:"not null"`
	IsPrimary          bool       `json:"is_primary" gorm:"not null;default:false"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`
	VerificationMethod string     `json:"verification_method,omitempty" gorm:"size:20"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
