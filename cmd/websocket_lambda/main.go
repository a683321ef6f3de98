package main

import (
	"context"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/digital-wallet/pkg/bootstrap"
	"github.com/chris/digital-wallet/pkg/config"
	wshandler "github.com/chris/digital-wallet/pkg/handlers/websockets"
	"github.com/chris/digital-wallet/pkg/logging"
	"go.uber.org/zap"
)

var handler *wshandler.Handler

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := logging.NewLoggerFromEnv()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	logging.SetGlobal(logger)

	store, _, err := bootstrap.OpenStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	handler = wshandler.NewHandler(store, nil, logger)
}

// HandleRequest routes API Gateway websocket events by route key.
func HandleRequest(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch request.RequestContext.RouteKey {
	case "$connect":
		return handler.HandleConnect(ctx, request)
	case "$disconnect":
		return handler.HandleDisconnect(ctx, request)
	case "$default":
		return handler.HandleDefault(ctx, request)
	}
	return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest}, nil
}

func main() {
	lambda.Start(HandleRequest)
}
