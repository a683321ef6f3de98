// Package sqlstore implements the storage interfaces on a relational database
// through gorm. SQLite is the bundled dialect.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Store implements the Storage interface with gorm.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Make sure we conform to the interfaces
var (
	_ storage.Storage  = (*Store)(nil)
	_ storage.Migrator = (*Store)(nil)
)

// Open connects to the SQLite database at dsn.
func Open(dsn string, logger *logging.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         newGormLogger(logger, 200*time.Millisecond),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return New(db), nil
}

// New wraps an open gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Close closes the underlying connection pool.
func (s *Store) Close() {
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// connection is a websocket connection served by this process or its peers.
type connection struct {
	ConnectionID string `gorm:"primaryKey;size:128"`
	UserID       string `gorm:"index;size:64;not null"`
	CreatedAt    time.Time
}

func (connection) TableName() string { return "websocket_connections" }

// Migrate creates or updates the schema. The partial unique indexes keep at
// most one default payment method and one primary bank account per user.
func (s *Store) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(
		&models.Transaction{},
		&models.PaymentMethod{},
		&models.BankAccount{},
		&models.Bill{},
		&models.ScheduledPayment{},
		&models.PaymentGateway{},
		&connection{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	for _, stmt := range []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_payment_methods_one_default ON payment_methods(user_id) WHERE is_default",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_bank_accounts_one_primary ON bank_accounts(user_id) WHERE is_primary",
	} {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// translate maps gorm errors onto the storage sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return storage.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return storage.ErrDuplicate
	}
	return err
}
