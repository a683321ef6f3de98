package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "")
		t.Setenv("GATEWAY_TIMEOUT", "")
		t.Setenv("PUBLIC_BASE_URL", "")
		t.Setenv("DEFAULT_CURRENCY", "")

		cfg, err := FromEnv()
		require.NoError(t, err)

		assert.Equal(t, DriverSQLite, cfg.StorageDriver)
		assert.Equal(t, 30*time.Second, cfg.GatewayTimeout)
		assert.Equal(t, "BDT", cfg.DefaultCurrency)
		assert.Equal(t, "http://localhost:8080/payment-callback/bkash", cfg.CallbackURL("bkash", ""))
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "DynamoDB")
		t.Setenv("GATEWAY_TIMEOUT", "5s")
		t.Setenv("PUBLIC_BASE_URL", "https://pay.example.com/")
		t.Setenv("STATUS_PAGE_PATH", "/status/")

		cfg, err := FromEnv()
		require.NoError(t, err)

		assert.Equal(t, DriverDynamoDB, cfg.StorageDriver)
		assert.Equal(t, 5*time.Second, cfg.GatewayTimeout)
		assert.Equal(t, "https://pay.example.com/payment-callback/sslcommerz/fail", cfg.CallbackURL("sslcommerz", "fail"))
		assert.Equal(t, "https://pay.example.com/status/tok-1", cfg.StatusPageURL("tok-1"))
	})

	t.Run("Invalid duration", func(t *testing.T) {
		t.Setenv("GATEWAY_TIMEOUT", "soon")

		_, err := FromEnv()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "GATEWAY_TIMEOUT")
	})

	t.Run("Unknown driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "postgres")

		_, err := FromEnv()
		assert.Error(t, err)
	})
}
