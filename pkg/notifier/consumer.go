package notifier

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// Consumer delivers events read back from the queue to a sink.
type Consumer struct {
	Sink   Notifier
	Logger *zap.Logger
}

// NewConsumer creates a Consumer.
func NewConsumer(sink Notifier, logger *zap.Logger) *Consumer {
	return &Consumer{Sink: sink, Logger: logger}
}

// HandleSQSEvent delivers every message in the batch. Messages that cannot be
// decoded are dropped; messages the sink rejects are reported as batch item
// failures so SQS redelivers only those.
func (c *Consumer) HandleSQSEvent(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, message := range sqsEvent.Records {
		var e Event
		if err := json.Unmarshal([]byte(message.Body), &e); err != nil {
			c.Logger.Error("dropping undecodable message",
				zap.String("message_id", message.MessageId), zap.Error(err))
			continue
		}

		if err := c.Sink.Notify(ctx, e); err != nil {
			c.Logger.Warn("failed to deliver event",
				zap.String("message_id", message.MessageId),
				zap.String("event", string(e.Type)),
				zap.Error(err))
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{
				ItemIdentifier: message.MessageId,
			})
		}
	}
	return resp, nil
}
