package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/port"
)

// SlidingWindowConfig tunes the attempt tracker backing sign-in and
// token-request throttling.
type SlidingWindowConfig struct {
	KeyPrefix string
	TTL       time.Duration
}

// RateLimitRepository tracks attempt timestamps in Redis sorted sets,
// one set per throttled identifier (an email or a client address).
type RateLimitRepository struct {
	client *redis.Client
	cfg    SlidingWindowConfig
}

func NewRateLimitRepository(client *redis.Client, cfg SlidingWindowConfig) *RateLimitRepository {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "ccn:ratelimit"
	}
	return &RateLimitRepository{client: client, cfg: cfg}
}

func (r *RateLimitRepository) key(identifier string) string {
	return fmt.Sprintf("%s:%s", r.cfg.KeyPrefix, identifier)
}

func scoreBound(at time.Time) string {
	return strconv.FormatInt(at.UnixNano(), 10)
}

// RecordAttempt appends one attempt at the given instant and refreshes the
// set TTL so abandoned identifiers expire on their own.
func (r *RateLimitRepository) RecordAttempt(ctx context.Context, identifier string, at time.Time) error {
	key := r.key(identifier)
	nanos := at.UnixNano()

	if err := r.client.ZAdd(ctx, key, redis.Z{Score: float64(nanos), Member: nanos}).Err(); err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	if r.cfg.TTL > 0 {
		if err := r.client.Expire(ctx, key, r.cfg.TTL).Err(); err != nil {
			return fmt.Errorf("refresh attempt ttl: %w", err)
		}
	}
	return nil
}

// CountAttempts reports how many attempts fall inside the window that ends
// at the reference instant.
func (r *RateLimitRepository) CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}

	count, err := r.client.ZCount(ctx, r.key(identifier),
		scoreBound(reference.Add(-window)), scoreBound(reference)).Result()
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return int(count), nil
}

// TrimWindow drops attempts that slid out of the active window.
func (r *RateLimitRepository) TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error {
	if window <= 0 {
		return errors.New("window must be positive")
	}

	threshold := scoreBound(reference.Add(-window))
	if err := r.client.ZRemRangeByScore(ctx, r.key(identifier), "-inf", threshold).Err(); err != nil {
		return fmt.Errorf("trim attempts: %w", err)
	}
	return nil
}

// OldestAttempt returns the earliest attempt still inside the window, used
// to compute a Retry-After hint for throttled callers.
func (r *RateLimitRepository) OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error) {
	if window <= 0 {
		return time.Time{}, false, errors.New("window must be positive")
	}

	members, err := r.client.ZRangeByScore(ctx, r.key(identifier), &redis.ZRangeBy{
		Min:   scoreBound(reference.Add(-window)),
		Max:   scoreBound(reference),
		Count: 1,
	}).Result()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("find oldest attempt: %w", err)
	}
	if len(members) == 0 {
		return time.Time{}, false, nil
	}

	nanos, err := strconv.ParseInt(members[0], 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse attempt timestamp: %w", err)
	}
	return time.Unix(0, nanos), true, nil
}

var _ port.RateLimitStore = (*RateLimitRepository)(nil)
