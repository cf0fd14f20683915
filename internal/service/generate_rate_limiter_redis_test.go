package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func TestRedisGenerateRateLimiterAllow(t *testing.T) {
	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *redisGenerateRateLimiter
		if !l.Allow("10.0.0.1") {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := &redisGenerateRateLimiter{
			client: &mockRedisEvaler{result: 1},
			window: time.Minute,
			max:    3,
			prefix: "gen:rl:",
		}
		if l.Allow("   ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("under limit allowed", func(t *testing.T) {
		evaler := &mockRedisEvaler{result: 3}
		l := &redisGenerateRateLimiter{client: evaler, window: time.Minute, max: 3, prefix: "gen:rl:"}
		if !l.Allow("10.0.0.1") {
			t.Fatalf("expected count at limit to be allowed")
		}
		if evaler.lastKeys[0] != "gen:rl:10.0.0.1" {
			t.Fatalf("unexpected redis key %q", evaler.lastKeys[0])
		}
	})

	t.Run("over limit rejected", func(t *testing.T) {
		l := &redisGenerateRateLimiter{
			client: &mockRedisEvaler{result: 4},
			window: time.Minute,
			max:    3,
			prefix: "gen:rl:",
		}
		if l.Allow("10.0.0.1") {
			t.Fatalf("expected count over limit to be rejected")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := &redisGenerateRateLimiter{
			client: &mockRedisEvaler{err: errors.New("redis down")},
			window: time.Minute,
			max:    3,
			prefix: "gen:rl:",
		}
		if !l.Allow("10.0.0.1") {
			t.Fatalf("expected fail-open on redis error")
		}
	})
}
