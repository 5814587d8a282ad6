package sqs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/marktprijs/catalog/internal/model"
	"github.com/marktprijs/catalog/internal/service"
)

// ConsumerAPI defines the interface for SQS operations used by Consumer.
type ConsumerAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Ingestor is the slice of the ingest coordinator the consumer drives.
type Ingestor interface {
	BeginRun(ctx context.Context, supermarketCode string) error
	AddItem(ctx context.Context, supermarketCode string, raw model.RawItem) error
	FinishRun(ctx context.Context, supermarketCode string, failed bool, errMsg string) (service.RunSummary, error)
}

// Consumer drains the intake queue and feeds the ingest coordinator. Messages
// are handed over one at a time, satisfying the single-writer contract of the
// persistence engine.
type Consumer struct {
	client      ConsumerAPI
	queueURL    string
	coordinator Ingestor
}

// NewConsumer creates a new Consumer with the given client, queue URL and
// coordinator.
func NewConsumer(client ConsumerAPI, queueURL string, coordinator Ingestor) *Consumer {
	return &Consumer{
		client:      client,
		queueURL:    queueURL,
		coordinator: coordinator,
	}
}

// Start begins consuming messages from the intake queue until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	slog.Info("Starting intake consumer", slog.String("queueURL", c.queueURL))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping intake consumer")
			return ctx.Err()
		default:
			if err := c.receiveMessages(ctx); err != nil {
				slog.Error("Error receiving messages", slog.Any("err", err))
			}
		}
	}
}

func (c *Consumer) receiveMessages(ctx context.Context) error {
	result, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(c.queueURL),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20, // Long polling
	})
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}

	for _, message := range result.Messages {
		if err := c.processMessage(ctx, message); err != nil {
			slog.Error("Error processing message", slog.Any("err", err))
			continue
		}

		// Delete message after successful processing
		if err := c.deleteMessage(ctx, message); err != nil {
			slog.Error("Error deleting message", slog.Any("err", err))
		}
	}

	return nil
}

func (c *Consumer) processMessage(ctx context.Context, message types.Message) error {
	if message.Body == nil {
		return fmt.Errorf("message body is nil")
	}

	var msg IntakeMessage
	if err := json.Unmarshal([]byte(*message.Body), &msg); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}
	if msg.SupermarketCode == "" {
		return fmt.Errorf("message has no supermarket code")
	}

	switch msg.Action {
	case ActionStartSession:
		return c.coordinator.BeginRun(ctx, msg.SupermarketCode)
	case ActionItem:
		if msg.Item == nil {
			return fmt.Errorf("item message has no item payload")
		}
		return c.coordinator.AddItem(ctx, msg.SupermarketCode, msg.Item.ToModel())
	case ActionEndSession:
		_, err := c.coordinator.FinishRun(ctx, msg.SupermarketCode, msg.Failed, msg.ErrorMessage)
		return err
	default:
		return fmt.Errorf("unknown intake action %q", msg.Action)
	}
}

func (c *Consumer) deleteMessage(ctx context.Context, message types.Message) error {
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: message.ReceiptHandle,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
