package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "hwcatalog:lock:"
	retryDelay = 25 * time.Millisecond
)

// ErrNotAcquired is returned when the lock could not be taken before the
// context ended.
var ErrNotAcquired = errors.New("lock not acquired")

// release deletes the key only if it still holds our token, so an expired
// lock that another holder has since taken is left alone.
var release = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker shared by every instance pointed at the same Redis.
// Each lock expires after ttl in case its holder dies.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedis creates a new instance of Redis.
func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Redis{client: client, ttl: ttl}
}

// WithLock polls SET NX until it wins or ctx ends, runs fn, then releases.
func (r *Redis) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	key = keyPrefix + key
	token := uuid.NewString()

	if err := r.acquire(ctx, key, token); err != nil {
		return err
	}
	defer func() {
		// Release even when ctx is already cancelled.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		_ = release.Run(releaseCtx, r.client, []string{key}, token).Err()
	}()

	return fn(ctx)
}

func (r *Redis) acquire(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(retryDelay)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("%w: %s: %w", ErrNotAcquired, key, ctx.Err())
			}
			return fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return fmt.Errorf("%w: %s: %w", ErrNotAcquired, key, ctx.Err())
		}
	}
}
