package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
)

// Config holds application configuration.
type Config struct {
	Port                string
	LogLevel            string
	StoreBackend        string
	DynamoDBTablePrefix string
	SQSQueueURL         string
	TxMaxAttempts       int
	TxRetryBackoff      time.Duration
}

// Load reads configuration from the environment, after loading a .env file
// if one is present.
func Load() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_BACKEND", BackendMemory)
	v.SetDefault("DYNAMODB_TABLE_PREFIX", "")
	v.SetDefault("SQS_QUEUE_URL", "")
	v.SetDefault("TX_MAX_ATTEMPTS", 3)
	v.SetDefault("TX_RETRY_BACKOFF", "25ms")
	v.AutomaticEnv()

	cfg := &Config{
		Port:                v.GetString("HTTP_PORT"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		StoreBackend:        v.GetString("STORE_BACKEND"),
		DynamoDBTablePrefix: v.GetString("DYNAMODB_TABLE_PREFIX"),
		SQSQueueURL:         v.GetString("SQS_QUEUE_URL"),
		TxMaxAttempts:       v.GetInt("TX_MAX_ATTEMPTS"),
	}

	backoff, err := time.ParseDuration(v.GetString("TX_RETRY_BACKOFF"))
	if err != nil {
		return nil, fmt.Errorf("invalid TX_RETRY_BACKOFF: %w", err)
	}
	cfg.TxRetryBackoff = backoff

	switch cfg.StoreBackend {
	case BackendMemory, BackendDynamoDB:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	if cfg.TxMaxAttempts < 1 {
		return nil, fmt.Errorf("TX_MAX_ATTEMPTS must be at least 1, got %d", cfg.TxMaxAttempts)
	}

	return cfg, nil
}
