package ratelimit

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

func TestRedisLimiterAllow(t *testing.T) {
	ctx := context.Background()

	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *redisLimiter
		if !l.Allow(ctx, "127.0.0.1") {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := newRedisLimiter(&mockRedisEvaler{result: 1}, "login:rl:", time.Minute, 3)
		if l.Allow(ctx, "   ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("allow when count within max", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 2}
		l := newRedisLimiter(mock, "login:rl:", 2*time.Minute, 3)
		if !l.Allow(ctx, " 10.0.0.1 ") {
			t.Fatalf("expected allow when count <= max")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "login:rl:10.0.0.1" {
			t.Fatalf("unexpected key normalization, got %+v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %+v", mock.lastArgs)
		}
		if mock.lastScript != redisAllowScript {
			t.Fatalf("expected script to match")
		}
	})

	t.Run("deny when count exceeds max", func(t *testing.T) {
		l := newRedisLimiter(&mockRedisEvaler{result: 4}, "login:rl:", time.Minute, 3)
		if l.Allow(ctx, "10.0.0.1") {
			t.Fatalf("expected deny when count > max")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := newRedisLimiter(&mockRedisEvaler{err: errors.New("redis down")}, "login:rl:", time.Minute, 3)
		if !l.Allow(ctx, "10.0.0.1") {
			t.Fatalf("expected fail-open on redis errors")
		}
	})
}

func TestNewRedisLimiterNilClient(t *testing.T) {
	if NewRedisLimiter(nil, "x", time.Minute, 1) != nil {
		t.Fatalf("expected nil limiter without client")
	}
}

func TestMemoryLimiterWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(time.Minute, 2)
	l.now = func() time.Time { return now }

	if !l.Allow(ctx, "a") || !l.Allow(ctx, "A ") {
		t.Fatalf("first two attempts must pass")
	}
	if l.Allow(ctx, "a") {
		t.Fatalf("third attempt in window must be denied")
	}
	if !l.Allow(ctx, "b") {
		t.Fatalf("other keys are independent")
	}

	now = now.Add(time.Minute)
	if !l.Allow(ctx, "a") {
		t.Fatalf("window reset must allow again")
	}
}
