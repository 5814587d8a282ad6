package sqs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/marktprijs/catalog/internal/model"
)

// PublisherAPI defines the interface for SQS operations used by Publisher.
type PublisherAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Publisher lets source adapters hand raw items to the intake queue instead
// of calling the core in-process.
type Publisher struct {
	client   PublisherAPI
	queueURL string
}

// NewPublisher creates a new Publisher with the given client and queue URL.
func NewPublisher(client PublisherAPI, queueURL string) *Publisher {
	return &Publisher{
		client:   client,
		queueURL: queueURL,
	}
}

// PublishSessionStart announces the beginning of a run for a supermarket.
func (p *Publisher) PublishSessionStart(ctx context.Context, supermarketCode string) error {
	return p.publish(ctx, IntakeMessage{
		Action:          ActionStartSession,
		SupermarketCode: supermarketCode,
	})
}

// PublishItem publishes one raw item for an in-progress run.
func (p *Publisher) PublishItem(ctx context.Context, supermarketCode string, item model.RawItem) error {
	return p.publish(ctx, IntakeMessage{
		Action:          ActionItem,
		SupermarketCode: supermarketCode,
		Item:            FromRawItem(item),
	})
}

// PublishSessionEnd announces the terminal outcome of a run.
func (p *Publisher) PublishSessionEnd(ctx context.Context, supermarketCode string, failed bool, errorMessage string) error {
	return p.publish(ctx, IntakeMessage{
		Action:          ActionEndSession,
		SupermarketCode: supermarketCode,
		Failed:          failed,
		ErrorMessage:    errorMessage,
	})
}

func (p *Publisher) publish(ctx context.Context, msg IntakeMessage) error {
	messageBody, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(messageBody)),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}
