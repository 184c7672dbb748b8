package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/household-ledger/pkg/config"
	"github.com/chris/household-ledger/pkg/handlers"
	"github.com/chris/household-ledger/pkg/notifier"
	"github.com/chris/household-ledger/pkg/observability"
	"github.com/chris/household-ledger/pkg/processor"
	"github.com/chris/household-ledger/pkg/storage"
	dydbstore "github.com/chris/household-ledger/pkg/storage/dynamodb"
	"github.com/chris/household-ledger/pkg/storage/memory"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store storage.RecordStore
	var notify notifier.Notifier = notifier.NewLogNotifier(logger)

	if cfg.StoreBackend == config.BackendDynamoDB || cfg.SQSQueueURL != "" {
		// AWS Session
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			logger.Fatal("unable to load SDK config", zap.Error(err))
		}
		if cfg.StoreBackend == config.BackendDynamoDB {
			store = dydbstore.New(dynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTablePrefix)
		}
		if cfg.SQSQueueURL != "" {
			sqsNotifier := notifier.NewSQSNotifier(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL)
			notify = notifier.NewBreakerNotifier("sqs-notifier", sqsNotifier)
		}
	}
	if store == nil {
		logger.Warn("using in-memory store, data is lost on restart")
		store = memory.New()
	}

	metrics := observability.NewMetrics()
	proc := processor.New(store, notify, logger, metrics, processor.Config{
		MaxAttempts: cfg.TxMaxAttempts,
		Backoff:     cfg.TxRetryBackoff,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(proc, logger, metrics),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("starting server",
		zap.String("port", cfg.Port),
		zap.String("store", cfg.StoreBackend),
		zap.Bool("sqs_notifications", cfg.SQSQueueURL != ""))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
