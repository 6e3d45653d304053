package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL   = 10 * time.Second
	defaultLockRetry = 20 * time.Millisecond
)

// Deletes the key only while it still holds our token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Mutex is a keyed lock shared by every process using the same Redis. A
// holder that dies releases the key when the TTL expires.
type Mutex struct {
	client *Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
}

func NewMutex(client *Client, prefix string, ttl time.Duration) *Mutex {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Mutex{client: client, prefix: prefix, ttl: ttl, retry: defaultLockRetry}
}

func (m *Mutex) Key(key string) string { return m.prefix + key }

// Lock blocks until the key is acquired or ctx is done.
func (m *Mutex) Lock(ctx context.Context, key string) (func(), error) {
	full := m.Key(key)
	token := uuid.NewString()

	ticker := time.NewTicker(m.retry)
	defer ticker.Stop()
	for {
		ok, err := m.client.rdb.SetNX(ctx, full, token, m.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", full, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire %s: %w", full, ctx.Err())
		case <-ticker.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The caller's context may already be cancelled.
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
			defer cancel()
			// A failed release is left to the TTL.
			_ = unlockScript.Run(ctx, m.client.rdb, []string{full}, token).Err()
		})
	}, nil
}
