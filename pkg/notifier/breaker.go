package notifier

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerNotifier stops calling a failing notifier for a while so a dead
// queue does not add latency to every ledger operation.
type BreakerNotifier struct {
	next    Notifier
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerNotifier wraps next in a circuit breaker.
func NewBreakerNotifier(name string, next Notifier) *BreakerNotifier {
	return &BreakerNotifier{
		next: next,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,                // half-open: one trial request
			Interval:    time.Minute,      // closed: reset counters every minute
			Timeout:     30 * time.Second, // open -> half-open after 30s
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

var _ Notifier = (*BreakerNotifier)(nil)

// Notify forwards the event unless the breaker is open, in which case it
// returns gobreaker.ErrOpenState immediately.
func (b *BreakerNotifier) Notify(ctx context.Context, e Event) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.next.Notify(ctx, e)
	})
	return err
}

// State reports the breaker state.
func (b *BreakerNotifier) State() gobreaker.State {
	return b.breaker.State()
}
