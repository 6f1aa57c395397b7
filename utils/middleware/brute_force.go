package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/curriculum-catalog/utils/response"
)

// AttemptStore is the subset of cache.RedisCache used for login lockouts.
type AttemptStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// attemptWindow is how long failed attempts are remembered.
const attemptWindow = 15 * time.Minute

// BruteForceProtection locks out client IPs after repeated failed logins.
type BruteForceProtection struct {
	store AttemptStore
}

// NewBruteForceProtection creates a new brute force protection instance
func NewBruteForceProtection(store AttemptStore) *BruteForceProtection {
	return &BruteForceProtection{store: store}
}

func attemptKey(ip string) string { return "brute_force:attempts:" + ip }
func lockKey(ip string) string    { return "brute_force:lock:" + ip }

// lockoutFor returns the lockout earned after n failed attempts, or zero.
func lockoutFor(n int64) time.Duration {
	switch {
	case n >= 25:
		return 24 * time.Hour
	case n >= 10:
		return time.Hour
	case n >= 5:
		return 2 * time.Minute
	}
	return 0
}

// CheckAndRecordAttempt rejects requests from a locked IP with 429.
func (b *BruteForceProtection) CheckAndRecordAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := lockKey(c.IP())

		locked, err := b.store.Exists(c.UserContext(), key)
		if err != nil {
			// cache outage must not block logins
			return c.Next()
		}
		if !locked {
			return c.Next()
		}

		retryAfter := 60
		if ttl, err := b.store.TTL(c.UserContext(), key); err == nil && ttl > 0 {
			retryAfter = int(ttl.Seconds())
		}

		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		return response.TooManyRequests(c, fmt.Sprintf("Too many failed attempts. Try again in %d seconds", retryAfter))
	}
}

// RecordFailedAttempt counts a failed login and applies progressive lockouts.
func (b *BruteForceProtection) RecordFailedAttempt(ctx context.Context, ip string) error {
	attempts, err := b.store.Increment(ctx, attemptKey(ip))
	if err != nil {
		return err
	}
	if attempts == 1 {
		if err := b.store.Expire(ctx, attemptKey(ip), attemptWindow); err != nil {
			return err
		}
	}

	if d := lockoutFor(attempts); d > 0 {
		return b.store.Set(ctx, lockKey(ip), "locked", d)
	}
	return nil
}

// RecordSuccessfulAttempt clears failed attempts on successful login
func (b *BruteForceProtection) RecordSuccessfulAttempt(ctx context.Context, ip string) error {
	return b.store.Delete(ctx, attemptKey(ip), lockKey(ip))
}
