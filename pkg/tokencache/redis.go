package tokencache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

// RedisConfig configures the shared token cache.
type RedisConfig struct {
	Addr      string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
}

// Redis is a Cache shared by every instance of the service, so a token granted
// by one lambda is reused by the others.
type Redis struct {
	client rueidis.Client
	prefix string
}

var _ Cache = (*Redis)(nil)

// NewRedis connects to Redis.
func NewRedis(config RedisConfig) (*Redis, error) {
	if config.Addr == "" {
		return nil, fmt.Errorf("redis: no address configured")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{config.Addr},
		Username:    config.Username,
		Password:    config.Password,
		SelectDB:    config.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	prefix := config.KeyPrefix
	if prefix == "" {
		prefix = "wallet:token:"
	}
	return &Redis{client: client, prefix: prefix}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Do(ctx, r.client.B().Get().Key(r.prefix+key).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read token from redis: %w", err)
	}
	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	cmd := r.client.B().Set().Key(r.prefix + key).Value(value).Ex(ttl).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to store token in redis: %w", err)
	}
	return nil
}

// Close releases the underlying connections.
func (r *Redis) Close() {
	r.client.Close()
}
