package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/digital-wallet/pkg/bootstrap"
	"github.com/chris/digital-wallet/pkg/config"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/scheduler"
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

// HandleRequest runs the scheduled payment named by each SQS message. Messages
// that fail are reported back so SQS retries only those.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse

	for _, message := range sqsEvent.Records {
		due, err := scheduler.ParseDuePayment(message.Body)
		if err != nil {
			// A malformed message never succeeds; drop it.
			app.Logger.Error("discarding malformed message", zap.String("message_id", message.MessageId), zap.Error(err))
			continue
		}

		outcome, err := app.Schedules.Run(ctx, due.ScheduledPaymentID)
		if err != nil {
			app.Logger.Error("scheduled payment run failed",
				zap.String("message_id", message.MessageId),
				zap.String("scheduled_payment_id", due.ScheduledPaymentID),
				zap.Error(err),
			)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
			continue
		}
		app.Logger.Info("scheduled payment run",
			zap.String("scheduled_payment_id", due.ScheduledPaymentID),
			zap.String("outcome", outcome),
		)
	}

	return resp, nil
}

func main() {
	lambda.Start(HandleRequest)
}
