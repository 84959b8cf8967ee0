package lock

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const defaultRetryInterval = 25 * time.Millisecond

// releaseScript deletes the key only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a cross-process lock built on SET NX PX. The TTL bounds how long a crashed
// holder can block others; it must exceed the longest sale transaction.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
	prefix string
}

func NewRedisClient(addr string, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{
		client: client,
		ttl:    ttl,
		retry:  defaultRetryInterval,
		prefix: "inventory:lock:",
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Acquire(ctx context.Context, keys ...string) (Release, error) {
	keys = normalize(keys)
	tokens := make(map[string]string, len(keys))
	held := make([]string, 0, len(keys))

	for _, key := range keys {
		token := uuid.NewString()
		if err := r.lock(ctx, r.prefix+key, token); err != nil {
			r.unlockAll(held, tokens)
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		tokens[r.prefix+key] = token
		held = append(held, r.prefix+key)
	}

	var once sync.Once
	return func() {
		once.Do(func() { r.unlockAll(held, tokens) })
	}, nil
}

func (r *Redis) lock(ctx context.Context, key, token string) error {
	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		timer := time.NewTimer(r.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *Redis) unlockAll(keys []string, tokens map[string]string) {
	// Release must run even when the request context is already cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for i := len(keys) - 1; i >= 0; i-- {
		key := keys[i]
		if err := releaseScript.Run(ctx, r.client, []string{key}, tokens[key]).Err(); err != nil {
			log.Printf("Warning: failed to release lock %s: %v", key, err)
		}
	}
}
