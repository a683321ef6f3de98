package websockets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/chris/digital-wallet/pkg/logging"
	"go.uber.org/zap"
)

// ConnectionPoster is the subset of the API Gateway management client the publisher uses.
type ConnectionPoster interface {
	PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error)
}

// ConnectionStore is what the publisher needs from storage.
type ConnectionStore interface {
	ConnectionManager
	ConnectionLister
}

// DefaultPublisher pushes messages through API Gateway to a user's connections.
type DefaultPublisher struct {
	store  ConnectionStore
	client ConnectionPoster
	logger *logging.Logger
}

// NewPublisher creates a new DefaultPublisher for the given API Gateway endpoint.
func NewPublisher(ctx context.Context, store ConnectionStore, apiEndpoint string, logger *logging.Logger) (*DefaultPublisher, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	apiGwClient := apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(apiEndpoint)
	})

	return NewPublisherWithClient(store, apiGwClient, logger), nil
}

// NewPublisherWithClient creates a DefaultPublisher around an existing client.
func NewPublisherWithClient(store ConnectionStore, client ConnectionPoster, logger *logging.Logger) *DefaultPublisher {
	return &DefaultPublisher{
		store:  store,
		client: client,
		logger: logging.OrGlobal(logger).Named("websockets"),
	}
}

// Publish sends a message to every connection userID holds. Connections API
// Gateway reports as gone are removed.
func (p *DefaultPublisher) Publish(ctx context.Context, userID string, message Message) error {
	connectionIDs, err := p.store.GetConnections(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get connections: %w", err)
	}
	if len(connectionIDs) == 0 {
		return nil
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	for _, connectionID := range connectionIDs {
		_, err := p.client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(connectionID),
			Data:         payload,
		})
		if err == nil {
			continue
		}

		var goneErr *apigwtypes.GoneException
		if errors.As(err, &goneErr) {
			p.logger.Info("stale connection found, deleting", zap.String("connection_id", connectionID))
			if err := p.store.RemoveConnection(ctx, connectionID); err != nil {
				p.logger.Error("failed to delete stale connection", zap.String("connection_id", connectionID), zap.Error(err))
			}
		} else {
			p.logger.Error("failed to post to connection", zap.String("connection_id", connectionID), zap.Error(err))
		}
	}

	return nil
}
