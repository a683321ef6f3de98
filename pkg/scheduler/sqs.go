package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSAPI is the subset of the SQS client the scheduler uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSScheduler implements the Scheduler interface using AWS SQS.
type SQSScheduler struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSScheduler creates a new SQSScheduler.
func NewSQSScheduler(client SQSAPI, queueURL string) *SQSScheduler {
	return &SQSScheduler{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Scheduler = (*SQSScheduler)(nil)

// EnqueueDuePayment sends the due payment to the SQS queue. The deduplication id
// keeps a schedule from being enqueued twice for the same due date on FIFO queues.
func (s *SQSScheduler) EnqueueDuePayment(ctx context.Context, due DuePayment) error {
	body, err := json.Marshal(due)
	if err != nil {
		return fmt.Errorf("failed to marshal due payment for SQS: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.QueueURL),
		MessageBody: aws.String(string(body)),
	}
	if isFIFO(s.QueueURL) {
		input.MessageGroupId = aws.String(due.ScheduledPaymentID)
		input.MessageDeduplicationId = aws.String(fmt.Sprintf("%s-%d", due.ScheduledPaymentID, due.DueAt.Unix()))
	}

	if _, err := s.Client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}

func isFIFO(queueURL string) bool {
	return strings.HasSuffix(queueURL, ".fifo")
}

// ParseDuePayment decodes a queue message body.
func ParseDuePayment(body string) (DuePayment, error) {
	var due DuePayment
	if err := json.Unmarshal([]byte(body), &due); err != nil {
		return due, fmt.Errorf("failed to unmarshal due payment: %w", err)
	}
	if due.ScheduledPaymentID == "" {
		return due, fmt.Errorf("due payment message without scheduled_payment_id")
	}
	return due, nil
}
