package service

import (
	"context"
	"time"

	"github.com/0xsj/overwatch-pkg/log"

	domainerror "github.com/0xsj/overwatch-blog/internal/domain/error"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/kv"
)

const rateKeyPrefix = "rate:"

// RateLimitConfig holds the default quota applied by Check.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// DefaultRateLimitConfig returns 5 requests per minute.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:  5,
		Window: time.Minute,
	}
}

// RateLimiter is a per-key fixed-window request counter.
//
// The window starts on the first request after the counter is created or
// has expired, and is never extended by later requests. Requests straddling
// a window boundary may therefore admit up to twice the limit. The limiter
// fails open: when the store cannot be reached every request is admitted.
type RateLimiter interface {
	// IsLimited counts a request against key and reports whether it exceeds limit.
	IsLimited(ctx context.Context, key string, limit int, window time.Duration) bool

	// Check applies the configured default quota and returns ErrRateLimited
	// when it is exceeded.
	Check(ctx context.Context, key string) error
}

// rateLimiter implements RateLimiter.
type rateLimiter struct {
	store  kv.Store
	config RateLimitConfig
	logger log.Logger
}

// NewRateLimiter creates a new RateLimiter.
func NewRateLimiter(store kv.Store, config RateLimitConfig, logger log.Logger) RateLimiter {
	defaults := DefaultRateLimitConfig()
	if config.Limit <= 0 {
		config.Limit = defaults.Limit
	}
	if config.Window <= 0 {
		config.Window = defaults.Window
	}
	return &rateLimiter{
		store:  store,
		config: config,
		logger: logger,
	}
}

func (l *rateLimiter) IsLimited(ctx context.Context, key string, limit int, window time.Duration) bool {
	redisKey := rateKey(key)

	count, err := l.store.Incr(ctx, redisKey)
	if err != nil {
		l.failOpen(redisKey, err)
		return false
	}

	// Only the request that created the counter sets the window. Setting it
	// on every request would turn this into a sliding window.
	if count == 1 {
		if _, err := l.store.Expire(ctx, redisKey, window); err != nil {
			// A counter without TTL would never reset; drop it.
			if delErr := l.store.Del(ctx, redisKey); delErr != nil {
				l.logger.Error("failed to drop rate counter without window",
					log.String("key", redisKey),
					log.String("error", delErr.Error()),
				)
			}
			l.failOpen(redisKey, err)
			return false
		}
	}

	return count > int64(limit)
}

func (l *rateLimiter) Check(ctx context.Context, key string) error {
	if l.IsLimited(ctx, key, l.config.Limit, l.config.Window) {
		return domainerror.ErrRateLimited
	}
	return nil
}

func (l *rateLimiter) failOpen(key string, err error) {
	l.logger.Warn("rate limiter store failure, allowing request",
		log.String("key", key),
		log.String("error", err.Error()),
	)
}

// Key helper

func rateKey(key string) string {
	return rateKeyPrefix + key
}
