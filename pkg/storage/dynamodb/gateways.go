package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/digital-wallet/pkg/models"
)

// GetGateway retrieves a registry entry by code.
func (s *Store) GetGateway(ctx context.Context, code string) (*models.PaymentGateway, error) {
	var item gatewayItem
	if err := s.getItem(ctx, s.Tables.Gateways, key("code", code), &item); err != nil {
		return nil, err
	}
	gw := item.model()
	return &gw, nil
}

// ListGateways returns registry entries ordered by name. The registry is a
// handful of rows, so it is scanned.
func (s *Store) ListGateways(ctx context.Context, activeOnly bool) ([]models.PaymentGateway, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(s.Tables.Gateways)}
	if activeOnly {
		input.FilterExpression = aws.String("is_active = :true")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":true": &types.AttributeValueMemberBOOL{Value: true},
		}
	}

	var items []gatewayItem
	for {
		page, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment gateways: %w", err)
		}
		var batch []gatewayItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payment gateways: %w", err)
		}
		items = append(items, batch...)
		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = page.LastEvaluatedKey
	}

	gateways := make([]models.PaymentGateway, len(items))
	for i, item := range items {
		gateways[i] = item.model()
	}
	sort.Slice(gateways, func(i, j int) bool { return gateways[i].Name < gateways[j].Name })
	return gateways, nil
}

// UpsertGateway creates or replaces a registry entry, keeping the original creation time.
func (s *Store) UpsertGateway(ctx context.Context, gw *models.PaymentGateway) error {
	now := s.clock()
	gw.UpdatedAt = now
	if existing, err := s.GetGateway(ctx, gw.Code); err == nil {
		gw.CreatedAt = existing.CreatedAt
	} else if gw.CreatedAt.IsZero() {
		gw.CreatedAt = now
	}

	item, err := attributevalue.MarshalMap(toGatewayItem(gw))
	if err != nil {
		return fmt.Errorf("failed to marshal payment gateway: %w", err)
	}
	if _, err := s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.Tables.Gateways),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("failed to put payment gateway: %w", err)
	}
	return nil
}
