package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, BackendMemory, cfg.StoreBackend)
		assert.Equal(t, 3, cfg.TxMaxAttempts)
		assert.Equal(t, 25*time.Millisecond, cfg.TxRetryBackoff)
		assert.Empty(t, cfg.SQSQueueURL)
	})

	t.Run("Environment Overrides", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "9090")
		t.Setenv("STORE_BACKEND", "dynamodb")
		t.Setenv("DYNAMODB_TABLE_PREFIX", "prod-")
		t.Setenv("TX_MAX_ATTEMPTS", "5")
		t.Setenv("TX_RETRY_BACKOFF", "100ms")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, BackendDynamoDB, cfg.StoreBackend)
		assert.Equal(t, "prod-", cfg.DynamoDBTablePrefix)
		assert.Equal(t, 5, cfg.TxMaxAttempts)
		assert.Equal(t, 100*time.Millisecond, cfg.TxRetryBackoff)
	})

	t.Run("Unknown Backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "postgres")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("Bad Backoff", func(t *testing.T) {
		t.Setenv("TX_RETRY_BACKOFF", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
}
