package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/digital-wallet/pkg/bootstrap"
	"github.com/chris/digital-wallet/pkg/config"
	"github.com/chris/digital-wallet/pkg/logging"
	"go.uber.org/zap"
)

var app *bootstrap.App

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

	app, err = bootstrap.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize", zap.Error(err))
	}
}

// HandleRequest is triggered by an EventBridge Schedule. It polls the provider
// for every pending transaction older than STALE_PENDING_AFTER.
func HandleRequest(ctx context.Context) error {
	result, err := app.Reconciler.SweepPending(ctx, app.Config.StalePendingAfter)
	if err != nil {
		app.Logger.Error("stale pending sweep failed", zap.Error(err))
		return err
	}
	if result.Checked == 0 {
		app.Logger.Info("no stale pending transactions found")
	}
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
