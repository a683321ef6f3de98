package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage"
)

// CreateBill inserts a bill.
func (s *Store) CreateBill(ctx context.Context, bill *models.Bill) error {
	if err := s.db.WithContext(ctx).Create(bill).Error; err != nil {
		return fmt.Errorf("failed to insert bill: %w", translate(err))
	}
	return nil
}

// GetBill retrieves a bill by id.
func (s *Store) GetBill(ctx context.Context, id string) (*models.Bill, error) {
	var bill models.Bill
	if err := s.db.WithContext(ctx).First(&bill, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &bill, nil
}

// ListBills returns the user's bills ordered by due date.
func (s *Store) ListBills(ctx context.Context, userID string) ([]models.Bill, error) {
	var bills []models.Bill
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("next_due_date").Find(&bills).Error; err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

// UpdateBill overwrites every column of an existing bill except created_at.
func (s *Store) UpdateBill(ctx context.Context, bill *models.Bill) error {
	res := s.db.WithContext(ctx).Model(bill).Select("*").Omit("id", "created_at").Updates(bill)
	if res.Error != nil {
		return fmt.Errorf("failed to update bill: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteBill removes one of the user's bills.
func (s *Store) DeleteBill(ctx context.Context, userID, id string) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Bill{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete bill: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateScheduledPayment inserts a schedule.
func (s *Store) CreateScheduledPayment(ctx context.Context, sp *models.ScheduledPayment) error {
	if err := s.db.WithContext(ctx).Create(sp).Error; err != nil {
		return fmt.Errorf("failed to insert scheduled payment: %w", translate(err))
	}
	return nil
}

// GetScheduledPayment retrieves a schedule by id.
func (s *Store) GetScheduledPayment(ctx context.Context, id string) (*models.ScheduledPayment, error) {
	var sp models.ScheduledPayment
	if err := s.db.WithContext(ctx).First(&sp, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &sp, nil
}

// ListScheduledPayments returns the user's schedules, newest first.
func (s *Store) ListScheduledPayments(ctx context.Context, userID string) ([]models.ScheduledPayment, error) {
	var schedules []models.ScheduledPayment
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("failed to list scheduled payments: %w", err)
	}
	return schedules, nil
}

// UpdateScheduledPayment saves sp while its stored status still equals expected.
func (s *Store) UpdateScheduledPayment(ctx context.Context, sp *models.ScheduledPayment, expected models.ScheduleStatus) error {
	res := s.db.WithContext(ctx).Model(&models.ScheduledPayment{}).
		Where("id = ? AND status = ?", sp.ID, expected).
		Select("*").Omit("id", "created_at").
		Updates(sp)
	if res.Error != nil {
		return fmt.Errorf("failed to update scheduled payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrStatusConflict
	}
	return nil
}

// DeleteScheduledPayment removes one of the user's schedules.
func (s *Store) DeleteScheduledPayment(ctx context.Context, userID, id string) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.ScheduledPayment{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete scheduled payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// UpdateScheduledRun saves sp while its stored status and next date still equal
// expected and expectedNext.
func (s *Store) UpdateScheduledRun(ctx context.Context, sp *models.ScheduledPayment, expected models.ScheduleStatus, expectedNext time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.ScheduledPayment{}).
		Where("id = ? AND status = ? AND next_scheduled = ?", sp.ID, expected, expectedNext.UTC()).
		Select("*").Omit("id", "created_at").
		Updates(sp)
	if res.Error != nil {
		return fmt.Errorf("failed to update scheduled run: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return storage.ErrStatusConflict
	}
	return nil
}

// ListDueScheduledPayments returns active schedules whose next date is not after asOf.
func (s *Store) ListDueScheduledPayments(ctx context.Context, asOf time.Time) ([]models.ScheduledPayment, error) {
	var schedules []models.ScheduledPayment
	err := s.db.WithContext(ctx).
		Where("status = ? AND next_scheduled IS NOT NULL AND next_scheduled <= ?", models.ScheduleActive, asOf.UTC()).
		Order("next_scheduled").
		Find(&schedules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list due scheduled payments: %w", err)
	}
	return schedules, nil
}
