package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverDynamoDB = "dynamodb"
)

// Config is the process configuration shared by the HTTP server, the CLI and the lambdas.
type Config struct {
	HTTPPort      string
	StorageDriver string
	SQLitePath    string

	// DynamoDBTablePrefix is prepended to every table name, e.g. "wallet-prod-".
	DynamoDBTablePrefix  string
	SQSQueueURL          string
	WebsocketAPIEndpoint string

	// PublicBaseURL is where providers send their callbacks.
	PublicBaseURL  string
	StatusPagePath string

	DefaultCurrency   string
	GatewayTimeout    time.Duration
	StalePendingAfter time.Duration

	RedisAddr     string
	RedisPassword string

	DiscordBotToken  string
	DiscordChannelID string

	MetricsNamespace string
}

// Load reads a .env file when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		HTTPPort:             getenv("HTTP_PORT", "8080"),
		StorageDriver:        strings.ToLower(getenv("STORAGE_DRIVER", DriverSQLite)),
		SQLitePath:           getenv("SQLITE_PATH", "wallet.db"),
		DynamoDBTablePrefix:  os.Getenv("DYNAMODB_TABLE_PREFIX"),
		SQSQueueURL:          os.Getenv("SQS_QUEUE_URL"),
		WebsocketAPIEndpoint: os.Getenv("WEBSOCKET_API_ENDPOINT"),
		PublicBaseURL:        strings.TrimRight(getenv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		StatusPagePath:       getenv("STATUS_PAGE_PATH", "/payments/status"),
		DefaultCurrency:      strings.ToUpper(getenv("DEFAULT_CURRENCY", "BDT")),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		DiscordBotToken:      os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordChannelID:     os.Getenv("DISCORD_CHANNEL_ID"),
		MetricsNamespace:     getenv("METRICS_NAMESPACE", "wallet"),
	}

	var err error
	if cfg.GatewayTimeout, err = durationEnv("GATEWAY_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.StalePendingAfter, err = durationEnv("STALE_PENDING_AFTER", 20*time.Minute); err != nil {
		return nil, err
	}

	switch cfg.StorageDriver {
	case DriverSQLite, DriverDynamoDB:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}

// CallbackURL returns the absolute callback URL for a provider and optional outcome.
func (c *Config) CallbackURL(provider, outcome string) string {
	u := c.PublicBaseURL + "/payment-callback/" + provider
	if outcome != "" {
		u += "/" + outcome
	}
	return u
}

// StatusPageURL returns where a payer is redirected after a callback.
func (c *Config) StatusPageURL(token string) string {
	return c.PublicBaseURL + "/" + strings.Trim(c.StatusPagePath, "/") + "/" + token
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
