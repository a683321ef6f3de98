package sqlstore

import (
	"context"
	"fmt"

	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockUser reads the user's rows of model with a row lock so concurrent
// default changes serialize. SQLite ignores the lock and serializes writers itself.
func lockUser(db *gorm.DB, model interface{}, userID string) error {
	return db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).Find(model).Error
}

// CreatePaymentMethod persists pm. The user's first payment method becomes the default.
func (s *Store) CreatePaymentMethod(ctx context.Context, pm *models.PaymentMethod) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		var existing []models.PaymentMethod
		if err := lockUser(db, &existing, pm.UserID); err != nil {
			return fmt.Errorf("failed to lock payment methods: %w", err)
		}
		pm.IsDefault = true
		for _, other := range existing {
			if other.IsDefault {
				pm.IsDefault = false
				break
			}
		}
		if err := db.Create(pm).Error; err != nil {
			return fmt.Errorf("failed to insert payment method: %w", translate(err))
		}
		return nil
	})
}

// GetPaymentMethod retrieves a payment method by id.
func (s *Store) GetPaymentMethod(ctx context.Context, id string) (*models.PaymentMethod, error) {
	var pm models.PaymentMethod
	if err := s.db.WithContext(ctx).First(&pm, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &pm, nil
}

// ListPaymentMethods returns the user's payment methods, default first.
func (s *Store) ListPaymentMethods(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("is_default DESC").Order("created_at").Find(&methods).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return methods, nil
}

// SetDefaultPaymentMethod makes id the user's only default payment method.
func (s *Store) SetDefaultPaymentMethod(ctx context.Context, userID, id string) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		var methods []models.PaymentMethod
		if err := lockUser(db, &methods, userID); err != nil {
			return fmt.Errorf("failed to lock payment methods: %w", err)
		}
		target := findMethod(methods, id)
		if target == nil {
			return storage.ErrNotFound
		}
		if !target.IsActive {
			return storage.ErrInstrumentInactive
		}
		return switchFlag(db, &models.PaymentMethod{}, "is_default", userID, id)
	})
}

// DeletePaymentMethod removes a payment method unless it is the user's default.
func (s *Store) DeletePaymentMethod(ctx context.Context, userID, id string) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		var methods []models.PaymentMethod
		if err := lockUser(db, &methods, userID); err != nil {
			return fmt.Errorf("failed to lock payment methods: %w", err)
		}
		target := findMethod(methods, id)
		if target == nil {
			return storage.ErrNotFound
		}
		if target.IsDefault {
			return storage.ErrDefaultInstrument
		}
		if err := db.Delete(&models.PaymentMethod{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete payment method: %w", err)
		}
		return nil
	})
}

func findMethod(methods []models.PaymentMethod, id string) *models.PaymentMethod {
	for i := range methods {
		if methods[i].ID == id {
			return &methods[i]
		}
	}
	return nil
}

// switchFlag clears column on every row of the user and then sets it on id.
// The clear runs first so the one-per-user unique index is never violated.
func switchFlag(db *gorm.DB, model interface{}, column, userID, id string) error {
	if err := db.Model(model).Where("user_id = ? AND "+column+" = ?", userID, true).Update(column, false).Error; err != nil {
		return fmt.Errorf("failed to clear %s: %w", column, err)
	}
	if err := db.Model(model).Where("id = ? AND user_id = ?", id, userID).Update(column, true).Error; err != nil {
		return fmt.Errorf("failed to set %s: %w", column, err)
	}
	return nil
}

// CreateBankAccount persists ba. The user's first bank account becomes primary.
func (s *Store) CreateBankAccount(ctx context.Context, ba *models.BankAccount) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		var existing []models.BankAccount
		if err := lockUser(db, &existing, ba.UserID); err != nil {
			return fmt.Errorf("failed to lock bank accounts: %w", err)
		}
		ba.IsPrimary = true
		for _, other := range existing {
			if other.IsPrimary {
				ba.IsPrimary = false
				break
			}
		}
		if err := db.Create(ba).Error; err != nil {
			return fmt.Errorf("failed to insert bank account: %w", translate(err))
		}
		return nil
	})
}

// GetBankAccount retrieves a bank account by id.
func (s *Store) GetBankAccount(ctx context.Context, id string) (*models.BankAccount, error) {
	var ba models.BankAccount
	if err := s.db.WithContext(ctx).First(&ba, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &ba, nil
}

// ListBankAccounts returns the user's bank accounts, primary first.
func (s *Store) ListBankAccounts(ctx context.Context, userID string) ([]models.BankAccount, error) {
	var accounts []models.BankAccount
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("is_primary DESC").Order("created_at").Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	return accounts, nil
}

// UpdateBankAccount saves the editable fields of ba. The primary flag is not touched
// and the primary account cannot be deactivated.
func (s *Store) UpdateBankAccount(ctx context.Context, ba *models.BankAccount) error {
	q := s.db.WithContext(ctx).Model(&models.BankAccount{}).
		Where("id = ? AND user_id = ?", ba.ID, ba.UserID)
	if !ba.IsActive {
		q = q.Where("is_primary = ?", false)
	}
	res := q.Updates(map[string]interface{}{
		"bank_name":           ba.BankName,
		"account_number":      ba.AccountNumber,
		"account_name":        ba.AccountName,
		"account_type":        ba.AccountType,
		"branch_name":         ba.BranchName,
		"routing_number":      ba.RoutingNumber,
		"swift_code":          ba.SwiftCode,
		"is_active":           ba.IsActive,
		"verified_at":         ba.VerifiedAt,
		"verification_method": ba.VerificationMethod,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update bank account: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if ba.IsActive {
		return storage.ErrNotFound
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.BankAccount{}).
		Where("id = ? AND user_id = ?", ba.ID, ba.UserID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up bank account: %w", err)
	}
	if count > 0 {
		return storage.ErrDefaultInstrument
	}
	return storage.ErrNotFound
}

// SetPrimaryBankAccount makes id the user's only primary account.
func (s *Store) SetPrimaryBankAccount(ctx context.Context, userID, id string) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		var accounts []models.BankAccount
		if err := lockUser(db, &accounts, userID); err != nil {
			return fmt.Errorf("failed to lock bank accounts: %w", err)
		}
		target := findAccount(accounts, id)
		if target == nil {
			return storage.ErrNotFound
		}
		if !target.IsActive {
			return storage.ErrInstrumentInactive
		}
		return switchFlag(db, &models.BankAccount{}, "is_primary", userID, id)
	})
}

// DeleteBankAccount removes an account unless transactions reference it.
// Deleting the primary promotes the oldest remaining active account.
func (s *Store) DeleteBankAccount(ctx context.Context, userID, id string) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		var accounts []models.BankAccount
		if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).Order("created_at").Find(&accounts).Error; err != nil {
			return fmt.Errorf("failed to lock bank accounts: %w", err)
		}
		target := findAccount(accounts, id)
		if target == nil {
			return storage.ErrNotFound
		}

		var refs int64
		if err := db.Model(&models.Transaction{}).Where("bank_account_id = ?", id).Count(&refs).Error; err != nil {
			return fmt.Errorf("failed to count transactions: %w", err)
		}
		if refs > 0 {
			return storage.ErrInstrumentInUse
		}

		if err := db.Delete(&models.BankAccount{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete bank account: %w", err)
		}
		if !target.IsPrimary {
			return nil
		}
		for _, other := range accounts {
			if other.ID != id && other.IsActive {
				return db.Model(&models.BankAccount{}).Where("id = ?", other.ID).Update("is_primary", true).Error
			}
		}
		return nil
	})
}

func findAccount(accounts []models.BankAccount, id string) *models.BankAccount {
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i]
		}
	}
	return nil
}
