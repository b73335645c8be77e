package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const rateLimitPrefix = "ratelimit:"

// counter is the subset of the redis client used by the limiter.
type counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	PExpire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	PTTL(ctx context.Context, key string) *redis.DurationCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RateLimiterStore is a fixed-window request counter shared by every API
// instance. It satisfies echo's middleware.RateLimiterStore.
//
// Key format: ratelimit:<identifier>
type RateLimiterStore struct {
	client  counter
	max     int64
	window  time.Duration
	timeout time.Duration
	log     zerolog.Logger
}

// NewRateLimiterStore allows max requests per identifier in each window.
func NewRateLimiterStore(client counter, max int, window time.Duration, log zerolog.Logger) *RateLimiterStore {
	return &RateLimiterStore{
		client:  client,
		max:     int64(max),
		window:  window,
		timeout: 500 * time.Millisecond,
		log:     log,
	}
}

// Allow counts the request and reports whether it is within the limit.
// Redis failures let the request through.
//
// A counter over the limit without a TTL means the window was never armed;
// the window restarts at this request instead of denying forever.
func (s *RateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	key := rateLimitPrefix + identifier
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		s.log.Warn().Err(err).Str("identifier", identifier).Msg("rate limiter unavailable, allowing request")
		return true, nil
	}
	if n == 1 {
		// first hit opens the window
		if err := s.client.PExpire(ctx, key, s.window).Err(); err != nil {
			s.log.Warn().Err(fmt.Errorf("pexpire %s: %w", key, err)).Msg("rate limiter window not set")
		}
	}
	if n <= s.max {
		return true, nil
	}

	ttl, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		s.log.Warn().Err(fmt.Errorf("pttl %s: %w", key, err)).Msg("rate limiter unavailable, allowing request")
		return true, nil
	}
	if ttl < 0 {
		if err := s.client.Set(ctx, key, 1, s.window).Err(); err != nil {
			s.log.Warn().Err(fmt.Errorf("set %s: %w", key, err)).Msg("rate limiter window not reset, allowing request")
		}
		return true, nil
	}
	return false, nil
}
