package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSAPI is the subset of the SQS client the notifier uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSNotifier implements the Notifier interface using AWS SQS.
type SQSNotifier struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSNotifier creates a new SQSNotifier.
func NewSQSNotifier(client SQSAPI, queueURL string) *SQSNotifier {
	return &SQSNotifier{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Notifier = (*SQSNotifier)(nil)

// Notify sends the event to the queue, tagged with its type so consumers can
// filter without decoding the body.
func (n *SQSNotifier) Notify(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event for SQS: %w", err)
	}

	_, err = n.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(n.QueueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(e.Type)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}
