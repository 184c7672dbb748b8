package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/household-ledger/pkg/config"
	"github.com/chris/household-ledger/pkg/observability"
	"github.com/chris/household-ledger/pkg/reconciliation"
	dydbstore "github.com/chris/household-ledger/pkg/storage/dynamodb"
	"go.uber.org/zap"
)

var auditor *reconciliation.Auditor
var logger *zap.Logger

func init() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	logger = observability.NewLogger(cfg.LogLevel)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		logger.Fatal("unable to load SDK config", zap.Error(err))
	}

	store := dydbstore.New(dynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTablePrefix)
	auditor = reconciliation.New(store, logger, observability.NewMetrics())
}

// HandleRequest is triggered by an EventBridge Schedule.
func HandleRequest(ctx context.Context) (*reconciliation.Report, error) {
	logger.Info("starting reconciliation")

	report, err := auditor.Run(ctx)
	if err != nil {
		logger.Error("reconciliation failed", zap.Error(err))
		return nil, err
	}
	return report, nil
}

func main() {
	lambda.Start(HandleRequest)
}
