package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/digital-wallet/pkg/bootstrap"
	"github.com/chris/digital-wallet/pkg/config"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/scheduler"
	"go.uber.org/zap"
)

var (
	app   *bootstrap.App
	queue scheduler.Scheduler
)

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

	ctx := context.Background()
	app, err = bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize", zap.Error(err))
	}
	queue, err = app.Queue(ctx)
	if err != nil {
		logger.Fatal("failed to initialize queue", zap.Error(err))
	}
}

// HandleRequest is triggered by an EventBridge Schedule. It hands every due
// scheduled payment to the runner queue.
func HandleRequest(ctx context.Context) error {
	sent, err := app.Schedules.DispatchDue(ctx, time.Now().UTC(), queue)
	if err != nil {
		// Some messages failed; the next tick picks the schedules up again.
		app.Logger.Error("failed to dispatch some scheduled payments", zap.Int("sent", sent), zap.Error(err))
		return err
	}
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
