package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/household-ledger/pkg/config"
	"github.com/chris/household-ledger/pkg/notifier"
	"github.com/chris/household-ledger/pkg/observability"
)

// The consumer drains the notification queue into the structured log, which
// is where the activity feed is read from.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	consumer := notifier.NewConsumer(notifier.NewLogNotifier(logger), logger)
	lambda.Start(consumer.HandleSQSEvent)
}
