package notifier

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes events to the log. Used when no queue is configured.
type LogNotifier struct {
	Logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{Logger: logger}
}

var _ Notifier = (*LogNotifier)(nil)

// Notify logs the event at info level.
func (n *LogNotifier) Notify(_ context.Context, e Event) error {
	n.Logger.Info("notification",
		zap.String("type", string(e.Type)),
		zap.String("title", e.Title),
		zap.Int64("amount", e.Amount),
		zap.Time("date", e.Date),
		zap.String("registered_by", string(e.RegisteredBy)),
		zap.String("entity_id", e.EntityID),
	)
	return nil
}
