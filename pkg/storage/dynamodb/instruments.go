package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/storage"
)

const (
	defaultMethodAttr = "default_payment_method_id"
	primaryBankAttr   = "primary_bank_account_id"
)

func (s *Store) defaults(ctx context.Context, userID string) (instrumentDefaults, error) {
	var d instrumentDefaults
	err := s.getItem(ctx, s.Tables.InstrumentDefaults, key("user_id", userID), &d)
	if errors.Is(err, storage.ErrNotFound) {
		return instrumentDefaults{UserID: userID}, nil
	}
	return d, err
}

// claimIfUnset sets attr to id unless the user already has one.
func (s *Store) claimIfUnset(userID, attr, id string) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:                 aws.String(s.Tables.InstrumentDefaults),
			Key:                       key("user_id", userID),
			UpdateExpression:          aws.String("SET #attr = if_not_exists(#attr, :id)"),
			ExpressionAttributeNames:  map[string]string{"#attr": attr},
			ExpressionAttributeValues: map[string]types.AttributeValue{":id": str(id)},
		},
	}
}

// setChoice points attr at id provided the instrument still belongs to the
// user and is active.
func (s *Store) setChoice(ctx context.Context, table, userID, attr, id string) error {
	_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				ConditionCheck: &types.ConditionCheck{
					TableName:           aws.String(table),
					Key:                 key("id", id),
					ConditionExpression: aws.String("user_id = :uid AND is_active = :true"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":uid":  str(userID),
						":true": &types.AttributeValueMemberBOOL{Value: true},
					},
				},
			},
			{
				Update: &types.Update{
					TableName:                 aws.String(s.Tables.InstrumentDefaults),
					Key:                       key("user_id", userID),
					UpdateExpression:          aws.String("SET #attr = :id"),
					ExpressionAttributeNames:  map[string]string{"#attr": attr},
					ExpressionAttributeValues: map[string]types.AttributeValue{":id": str(id)},
				},
			},
		},
	})
	if err != nil {
		if failedCondition(err) == 0 {
			return storage.ErrStatusConflict
		}
		return fmt.Errorf("failed to update instrument defaults: %w", err)
	}
	return nil
}

// CreatePaymentMethod persists pm. The user's first payment method becomes the default.
func (s *Store) CreatePaymentMethod(ctx context.Context, pm *models.PaymentMethod) error {
	item, err := attributevalue.MarshalMap(toPaymentMethodItem(pm))
	if err != nil {
		return fmt.Errorf("failed to marshal payment method: %w", err)
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(s.Tables.PaymentMethods),
					Item:                item,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			s.claimIfUnset(pm.UserID, defaultMethodAttr, pm.ID),
		},
	})
	if err != nil {
		if failedCondition(err) == 0 {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("failed to create payment method: %w", err)
	}

	d, err := s.defaults(ctx, pm.UserID)
	if err != nil {
		return err
	}
	pm.IsDefault = d.DefaultPaymentMethodID == pm.ID
	return nil
}

// GetPaymentMethod retrieves a payment method by id.
func (s *Store) GetPaymentMethod(ctx context.Context, id string) (*models.PaymentMethod, error) {
	var item paymentMethodItem
	if err := s.getItem(ctx, s.Tables.PaymentMethods, key("id", id), &item); err != nil {
		return nil, err
	}
	d, err := s.defaults(ctx, item.UserID)
	if err != nil {
		return nil, err
	}
	pm := item.model(d)
	return &pm, nil
}

// ListPaymentMethods returns the user's payment methods, default first.
func (s *Store) ListPaymentMethods(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	var items []paymentMethodItem
	err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.Tables.PaymentMethods),
		IndexName:                 aws.String(userIndex),
		KeyConditionExpression:    aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":uid": str(userID)},
	}, &items)
	if err != nil {
		return nil, err
	}
	d, err := s.defaults(ctx, userID)
	if err != nil {
		return nil, err
	}

	methods := make([]models.PaymentMethod, len(items))
	for i, item := range items {
		methods[i] = item.model(d)
	}
	sort.SliceStable(methods, func(i, j int) bool {
		if methods[i].IsDefault != methods[j].IsDefault {
			return methods[i].IsDefault
		}
		return methods[i].CreatedAt.Before(methods[j].CreatedAt)
	})
	return methods, nil
}

// SetDefaultPaymentMethod makes id the user's only default payment method.
func (s *Store) SetDefaultPaymentMethod(ctx context.Context, userID, id string) error {
	pm, err := s.GetPaymentMethod(ctx, id)
	if err != nil {
		return err
	}
	if pm.UserID != userID {
		return storage.ErrNotFound
	}
	if !pm.IsActive {
		return storage.ErrInstrumentInactive
	}
	return s.setChoice(ctx, s.Tables.PaymentMethods, userID, defaultMethodAttr, id)
}

// DeletePaymentMethod removes a payment method unless it is the user's default.
func (s *Store) DeletePaymentMethod(ctx context.Context, userID, id string) error {
	_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				ConditionCheck: &types.ConditionCheck{
					TableName:                 aws.String(s.Tables.InstrumentDefaults),
					Key:                       key("user_id", userID),
					ConditionExpression:       aws.String("attribute_not_exists(#attr) OR #attr <> :id"),
					ExpressionAttributeNames:  map[string]string{"#attr": defaultMethodAttr},
					ExpressionAttributeValues: map[string]types.AttributeValue{":id": str(id)},
				},
			},
			{
				Delete: &types.Delete{
					TableName:                 aws.String(s.Tables.PaymentMethods),
					Key:                       key("id", id),
					ConditionExpression:       aws.String("user_id = :uid"),
					ExpressionAttributeValues: map[string]types.AttributeValue{":uid": str(userID)},
				},
			},
		},
	})
	if err != nil {
		switch failedCondition(err) {
		case 0:
			return storage.ErrDefaultInstrument
		case 1:
			return storage.ErrNotFound
		}
		return fmt.Errorf("failed to delete payment method: %w", err)
	}
	return nil
}

// CreateBankAccount persists ba. The user's first bank account becomes primary.
func (s *Store) CreateBankAccount(ctx context.Context, ba *models.BankAccount) error {
	item, err := attributevalue.MarshalMap(toBankAccountItem(ba))
	if err != nil {
		return fmt.Errorf("failed to marshal bank account: %w", err)
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(s.Tables.BankAccounts),
					Item:                item,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			s.claimIfUnset(ba.UserID, primaryBankAttr, ba.ID),
		},
	})
	if err != nil {
		if failedCondition(err) == 0 {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("failed to create bank account: %w", err)
	}

	d, err := s.defaults(ctx, ba.UserID)
	if err != nil {
		return err
	}
	ba.IsPrimary = d.PrimaryBankAccountID == ba.ID
	return nil
}

// GetBankAccount retrieves a bank account by id.
func (s *Store) GetBankAccount(ctx context.Context, id string) (*models.BankAccount, error) {
	var item bankAccountItem
	if err := s.getItem(ctx, s.Tables.BankAccounts, key("id", id), &item); err != nil {
		return nil, err
	}
	d, err := s.defaults(ctx, item.UserID)
	if err != nil {
		return nil, err
	}
	ba := item.model(d)
	return &ba, nil
}

// ListBankAccounts returns the user's bank accounts, primary first.
func (s *Store) ListBankAccounts(ctx context.Context, userID string) ([]models.BankAccount, error) {
	var items []bankAccountItem
	err := s.queryAll(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.Tables.BankAccounts),
		IndexName:                 aws.String(userIndex),
		KeyConditionExpression:    aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":uid": str(userID)},
	}, &items)
	if err != nil {
		return nil, err
	}
	d, err := s.defaults(ctx, userID)
	if err != nil {
		return nil, err
	}

	accounts := make([]models.BankAccount, len(items))
	for i, item := range items {
		accounts[i] = item.model(d)
	}
	sort.SliceStable(accounts, func(i, j int) bool {
		if accounts[i].IsPrimary != accounts[j].IsPrimary {
			return accounts[i].IsPrimary
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

// UpdateBankAccount saves the editable fields of ba. Deactivation is checked
// against the defaults item so the primary account stays active.
func (s *Store) UpdateBankAccount(ctx context.Context, ba *models.BankAccount) error {
	expr := "SET bank_name = :bank, account_number = :number, account_name = :name, " +
		"account_type = :type, branch_name = :branch, routing_number = :routing, swift_code = :swift, " +
		"is_active = :active, updated_at = :now"
	values := map[string]types.AttributeValue{
		":bank":    str(ba.BankName),
		":number":  str(ba.AccountNumber),
		":name":    str(ba.AccountName),
		":type":    str(ba.AccountType),
		":branch":  str(ba.BranchName),
		":routing": str(ba.RoutingNumber),
		":swift":   str(ba.SwiftCode),
		":active":  &types.AttributeValueMemberBOOL{Value: ba.IsActive},
		":now":     str(formatTime(ba.UpdatedAt)),
		":uid":     str(ba.UserID),
	}
	if ba.VerifiedAt != nil {
		expr += ", verified_at = :verified, verification_method = :method"
		values[":verified"] = str(formatTime(*ba.VerifiedAt))
		values[":method"] = str(ba.VerificationMethod)
	}

	if ba.IsActive {
		_, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 aws.String(s.Tables.BankAccounts),
			Key:                       key("id", ba.ID),
			UpdateExpression:          aws.String(expr),
			ConditionExpression:       aws.String("attribute_exists(id) AND user_id = :uid"),
			ExpressionAttributeValues: values,
		})
		if err != nil {
			if isConditionFailed(err) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("failed to update bank account: %w", err)
		}
		return nil
	}

	_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName:                 aws.String(s.Tables.BankAccounts),
					Key:                       key("id", ba.ID),
					UpdateExpression:          aws.String(expr),
					ConditionExpression:       aws.String("attribute_exists(id) AND user_id = :uid"),
					ExpressionAttributeValues: values,
				},
			},
			{
				ConditionCheck: &types.ConditionCheck{
					TableName:                 aws.String(s.Tables.InstrumentDefaults),
					Key:                       key("user_id", ba.UserID),
					ConditionExpression:       aws.String("attribute_not_exists(#attr) OR #attr <> :id"),
					ExpressionAttributeNames:  map[string]string{"#attr": primaryBankAttr},
					ExpressionAttributeValues: map[string]types.AttributeValue{":id": str(ba.ID)},
				},
			},
		},
	})
	if err != nil {
		switch failedCondition(err) {
		case 0:
			return storage.ErrNotFound
		case 1:
			return storage.ErrDefaultInstrument
		}
		return fmt.Errorf("failed to update bank account: %w", err)
	}
	return nil
}

// SetPrimaryBankAccount makes id the user's only primary account.
func (s *Store) SetPrimaryBankAccount(ctx context.Context, userID, id string) error {
	ba, err := s.GetBankAccount(ctx, id)
	if err != nil {
		return err
	}
	if ba.UserID != userID {
		return storage.ErrNotFound
	}
	if !ba.IsActive {
		return storage.ErrInstrumentInactive
	}
	return s.setChoice(ctx, s.Tables.BankAccounts, userID, primaryBankAttr, id)
}

// DeleteBankAccount removes an account unless transactions reference it.
// Deleting the primary promotes the oldest remaining active account.
func (s *Store) DeleteBankAccount(ctx context.Context, userID, id string) error {
	inUse, err := s.BankAccountHasTransactions(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return storage.ErrInstrumentInUse
	}

	accounts, err := s.ListBankAccounts(ctx, userID)
	if err != nil {
		return err
	}
	var target *models.BankAccount
	successor := ""
	for i := range accounts {
		switch {
		case accounts[i].ID == id:
			target = &accounts[i]
		case successor == "" && accounts[i].IsActive:
			successor = accounts[i].ID
		}
	}
	if target == nil {
		return storage.ErrNotFound
	}

	del := types.TransactWriteItem{
		Delete: &types.Delete{
			TableName:                 aws.String(s.Tables.BankAccounts),
			Key:                       key("id", id),
			ConditionExpression:       aws.String("user_id = :uid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{":uid": str(userID)},
		},
	}
	guard := types.TransactWriteItem{}
	names := map[string]string{"#attr": primaryBankAttr}
	if target.IsPrimary {
		update := &types.Update{
			TableName:                 aws.String(s.Tables.InstrumentDefaults),
			Key:                       key("user_id", userID),
			ConditionExpression:       aws.String("#attr = :id"),
			UpdateExpression:          aws.String("REMOVE #attr"),
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: map[string]types.AttributeValue{":id": str(id)},
		}
		if successor != "" {
			update.UpdateExpression = aws.String("SET #attr = :next")
			update.ExpressionAttributeValues[":next"] = str(successor)
		}
		guard.Update = update
	} else {
		// Fails if the account was made primary since it was listed.
		guard.ConditionCheck = &types.ConditionCheck{
			TableName:                 aws.String(s.Tables.InstrumentDefaults),
			Key:                       key("user_id", userID),
			ConditionExpression:       aws.String("attribute_not_exists(#attr) OR #attr <> :id"),
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: map[string]types.AttributeValue{":id": str(id)},
		}
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{del, guard},
	})
	if err != nil {
		switch failedCondition(err) {
		case 0:
			return storage.ErrNotFound
		case 1:
			return storage.ErrStatusConflict
		}
		return fmt.Errorf("failed to delete bank account: %w", err)
	}
	return nil
}
