package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/household-ledger/pkg/models"
	"github.com/chris/household-ledger/pkg/notifier/mocks"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSQSNotifier(t *testing.T) {
	event := Event{
		Type:         EventCheckCleared,
		Title:        "Check cleared",
		Amount:       50000,
		Date:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		RegisteredBy: models.OwnerFatemeh,
	}

	t.Run("Success", func(t *testing.T) {
		client := new(mocks.SQSAPI)
		n := NewSQSNotifier(client, "https://queue")

		client.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
			var got Event
			if err := json.Unmarshal([]byte(*in.MessageBody), &got); err != nil {
				return false
			}
			return *in.QueueUrl == "https://queue" &&
				got.Type == EventCheckCleared &&
				*in.MessageAttributes["event_type"].StringValue == "check_cleared"
		})).Return(&sqs.SendMessageOutput{}, nil).Once()

		assert.NoError(t, n.Notify(context.Background(), event))
		client.AssertExpectations(t)
	})

	t.Run("Send Fails", func(t *testing.T) {
		client := new(mocks.SQSAPI)
		n := NewSQSNotifier(client, "https://queue")

		client.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

		err := n.Notify(context.Background(), event)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send message to SQS")
		client.AssertExpectations(t)
	})
}

type failing struct{ calls int }

func (f *failing) Notify(context.Context, Event) error {
	f.calls++
	return errors.New("queue down")
}

func TestBreakerNotifier(t *testing.T) {
	next := &failing{}
	b := NewBreakerNotifier("test", next)

	for i := 0; i < 5; i++ {
		assert.Error(t, b.Notify(context.Background(), Event{}))
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	err := b.Notify(context.Background(), Event{})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 5, next.calls)
}
