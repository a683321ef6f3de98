package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage"
)

// CreateBill persists a new bill.
func (s *Store) CreateBill(ctx context.Context, bill *models.Bill) error {
	return s.putBill(ctx, bill, "attribute_not_exists(id)", storage.ErrDuplicate)
}

// UpdateBill replaces a stored bill.
func (s *Store) UpdateBill(ctx context.Context, bill *models.Bill) error {
	return s.putBill(ctx, bill, "attribute_exists(id)", storage.ErrNotFound)
}

func (s *Store) putBill(ctx context.Context, bill *models.Bill, condition string, conflict error) error {
	item, err := attributevalue.MarshalMap(toBillItem(bill))
	if err != nil {
		return fmt.Errorf("failed to marshal bill: %w", err)
	}
	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Bills),
		Item:                item,
		ConditionExpression: aws.String(condition),
	})
	if err != nil {
		if isConditionFailed(err) {
			return conflict
		}
		return fmt.Errorf("failed to put bill: %w", err)
	}
	return nil
}

// GetBill retrieves a bill by id.
func (s *Store) GetBill(ctx context.Context, id string) (*models.Bill, error) {
	var item billItem
	if err := s.getItem(ctx, s.Tables.Bills, key("id", id), &item); err != nil {
		return nil, err
	}
	bill := item.model()
	return &bill, nil
}

// ListBills returns the user's bills ordered by due date.
func (s *Store) ListBills(ctx context.Context, userID string) ([]models.Bill, error) {
	var items []billItem
	err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.Tables.Bills),
		IndexName:                 aws.String(userIndex),
		KeyConditionExpression:    aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":uid": str(userID)},
	}, &items)
	if err != nil {
		return nil, err
	}

	bills := make([]models.Bill, len(items))
	for i, item := range items {
		bills[i] = item.model()
	}
	sort.SliceStable(bills, func(i, j int) bool { return bills[i].NextDueDate.Before(bills[j].NextDueDate) })
	return bills, nil
}

// DeleteBill removes one of the user's bills.
func (s *Store) DeleteBill(ctx context.Context, userID, id string) error {
	_, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(s.Tables.Bills),
		Key:                       key("id", id),
		ConditionExpression:       aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":uid": str(userID)},
	})
	if err != nil {
		if isConditionFailed(err) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return nil
}

// CreateScheduledPayment persists a new schedule.
func (s *Store) CreateScheduledPayment(ctx context.Context, sp *models.ScheduledPayment) error {
	item, err := attributevalue.MarshalMap(toScheduleItem(sp))
	if err != nil {
		return fmt.Errorf("failed to marshal scheduled payment: %w", err)
	}
	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.ScheduledPayments),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("failed to put scheduled payment: %w", err)
	}
	return nil
}

// GetScheduledPayment retrieves a schedule by id.
func (s *Store) GetScheduledPayment(ctx context.Context, id string) (*models.ScheduledPayment, error) {
	var item scheduleItem
	if err := s.getItem(ctx, s.Tables.ScheduledPayments, key("id", id), &item); err != nil {
		return nil, err
	}
	sp := item.model()
	return &sp, nil
}

// ListScheduledPayments returns the user's schedules, newest first.
func (s *Store) ListScheduledPayments(ctx context.Context, userID string) ([]models.ScheduledPayment, error) {
	var items []scheduleItem
	err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.Tables.ScheduledPayments),
		IndexName:                 aws.String(userIndex),
		KeyConditionExpression:    aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":uid": str(userID)},
	}, &items)
	if err != nil {
		return nil, err
	}
	return schedules(items, func(a, b *models.ScheduledPayment) bool { return a.CreatedAt.After(b.CreatedAt) }), nil
}

// UpdateScheduledPayment saves sp while the stored status still equals expected.
func (s *Store) UpdateScheduledPayment(ctx context.Context, sp *models.ScheduledPayment, expected models.ScheduleStatus) error {
	item, err := attributevalue.MarshalMap(toScheduleItem(sp))
	if err != nil {
		return fmt.Errorf("failed to marshal scheduled payment: %w", err)
	}
	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(s.Tables.ScheduledPayments),
		Item:                      item,
		ConditionExpression:       aws.String("#status = :expected"),
		ExpressionAttributeNames:  map[string]string{"#status": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":expected": str(string(expected))},
	})
	if err != nil {
		if isConditionFailed(err) {
			return storage.ErrStatusConflict
		}
		return fmt.Errorf("failed to update scheduled payment: %w", err)
	}
	return nil
}

// DeleteScheduledPayment removes one of the user's schedules.
func (s *Store) DeleteScheduledPayment(ctx context.Context, userID, id string) error {
	_, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(s.Tables.ScheduledPayments),
		Key:                       key("id", id),
		ConditionExpression:       aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":uid": str(userID)},
	})
	if err != nil {
		if isConditionFailed(err) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("failed to delete scheduled payment: %w", err)
	}
	return nil
}

// UpdateScheduledRun saves sp while the stored status and next date still equal
// expected and expectedNext.
func (s *Store) UpdateScheduledRun(ctx context.Context, sp *models.ScheduledPayment, expected models.ScheduleStatus, expectedNext time.Time) error {
	item, err := attributevalue.MarshalMap(toScheduleItem(sp))
	if err != nil {
		return fmt.Errorf("failed to marshal scheduled payment: %w", err)
	}
	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.Tables.ScheduledPayments),
		Item:                     item,
		ConditionExpression:      aws.String("#status = :expected AND next_scheduled = :next"),
		ExpressionAttributeNames: map[string]string{"#status": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": str(string(expected)),
			":next":     str(formatTime(expectedNext)),
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return storage.ErrStatusConflict
		}
		return fmt.Errorf("failed to update scheduled run: %w", err)
	}
	return nil
}

// ListDueScheduledPayments returns active schedules whose next date is not after asOf.
func (s *Store) ListDueScheduledPayments(ctx context.Context, asOf time.Time) ([]models.ScheduledPayment, error) {
	var items []scheduleItem
	err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.ScheduledPayments),
		IndexName:              aws.String(statusNextRunIndex),
		KeyConditionExpression: aws.String("#status = :active AND next_scheduled <= :asOf"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active": str(string(models.ScheduleActive)),
			":asOf":   str(formatTime(asOf)),
		},
	}, &items)
	if err != nil {
		return nil, err
	}
	return schedules(items, func(a, b *models.ScheduledPayment) bool { return a.NextScheduled.Before(*b.NextScheduled) }), nil
}

func schedules(items []scheduleItem, less func(a, b *models.ScheduledPayment) bool) []models.ScheduledPayment {
	out := make([]models.ScheduledPayment, len(items))
	for i, item := range items {
		out[i] = item.model()
	}
	sort.SliceStable(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	return out
}
