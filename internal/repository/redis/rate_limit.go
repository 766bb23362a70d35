package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neo-rgalvez/taskflow/internal/core/port"
)

// FixedWindowConfig defines configuration for the fixed window counter.
type FixedWindowConfig struct {
	KeyPrefix string
}

// RateLimitRepository keeps fixed-window counters in Redis so limits hold
// across service instances. Each key is an INCR counter whose TTL marks the
// end of the active window.
type RateLimitRepository struct {
	client *redis.Client
	cfg    FixedWindowConfig
}

// NewRateLimitRepository constructs a store using the provided Redis client.
func NewRateLimitRepository(client *redis.Client, cfg FixedWindowConfig) *RateLimitRepository {
	return &RateLimitRepository{client: client, cfg: cfg}
}

// Incr bumps the counter for key inside the active window. The TTL is set
// only when the key is created, so the window does not slide on later hits.
// Redis serializes the pipeline per key, which keeps racing increments from
// losing updates.
func (r *RateLimitRepository) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	if window <= 0 {
		return 0, time.Time{}, errors.New("window must be positive")
	}

	fullKey := r.key(key)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, window)
	pttl := pipe.PTTL(ctx, fullKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, fmt.Errorf("redis incr pipeline: %w", err)
	}

	ttl := pttl.Val()
	if ttl < 0 {
		ttl = window
	}

	return incr.Val(), time.Now().Add(ttl), nil
}

func (r *RateLimitRepository) key(key string) string {
	if r.cfg.KeyPrefix == "" {
		return key
	}
	return fmt.Sprintf("%s:%s", r.cfg.KeyPrefix, key)
}

var _ port.RateLimitStore = (*RateLimitRepository)(nil)
