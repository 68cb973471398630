package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// The counter and its expiry are managed inside one script so every API
// replica sees the same window for a given client key.
var fixedWindowCountScript = redis.NewScript(`
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {hits, redis.call("PTTL", KEYS[1])}
`)

var errNoRedisClient = errors.New("redis client is nil")

// RedisFixedWindowLimiter counts requests per key in Redis so the limit
// holds across replicas. It satisfies the Limiter interface used by
// RateLimiter middleware.
type RedisFixedWindowLimiter struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisFixedWindowLimiter(client redis.UniversalClient, prefix string) *RedisFixedWindowLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisFixedWindowLimiter{client: client, prefix: prefix}
}

func (l *RedisFixedWindowLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	if l.client == nil {
		return false, window, errNoRedisClient
	}
	if key == "" {
		key = "unknown"
	}
	windowMS := window.Milliseconds()
	if windowMS <= 0 {
		windowMS = time.Second.Milliseconds()
	}

	raw, err := fixedWindowCountScript.Run(ctx, l.client, []string{l.prefix + ":" + key}, windowMS).Result()
	if err != nil {
		return false, window, err
	}
	reply, ok := raw.([]interface{})
	if !ok || len(reply) != 2 {
		return false, window, fmt.Errorf("unexpected reply shape %T", raw)
	}
	hits, err := redisReplyInt(reply[0])
	if err != nil {
		return false, window, err
	}
	ttlMS, err := redisReplyInt(reply[1])
	if err != nil {
		return false, window, err
	}

	// PTTL reports -1/-2 when the key has no expiry or vanished; fall back
	// to a full window for the Retry-After hint.
	if ttlMS <= 0 {
		ttlMS = windowMS
	}
	return hits <= int64(limit), time.Duration(ttlMS) * time.Millisecond, nil
}

func redisReplyInt(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("unexpected reply element %T", v)
	}
}
