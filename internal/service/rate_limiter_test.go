package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeScripter cuenta por clave como lo haria el script en Redis.
type fakeScripter struct {
	redis.Scripter
	counts   map[string]int64
	lastKeys []string
	lastArgs []interface{}
	err      error
}

func (f *fakeScripter) EvalSha(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	f.lastKeys, f.lastArgs = keys, args
	cmd := redis.NewCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.counts[keys[0]]++
	cmd.SetVal(f.counts[keys[0]])
	return cmd
}

func TestBucketLimiter(t *testing.T) {
	ctx := context.Background()
	l := NewRateLimiter(time.Hour, 2)
	if !l.Allow(ctx, "ops@example.com") || !l.Allow(ctx, " OPS@example.com ") {
		t.Fatalf("expected first two attempts allowed")
	}
	if l.Allow(ctx, "ops@example.com") {
		t.Fatalf("expected third attempt denied")
	}
	if !l.Allow(ctx, "other@example.com") {
		t.Fatalf("expected separate budget per key")
	}
	if l.Allow(ctx, "  ") {
		t.Fatalf("expected empty key denied")
	}
}

func TestBucketLimiter_Refills(t *testing.T) {
	ctx := context.Background()
	l := NewRateLimiter(20*time.Millisecond, 1)
	if !l.Allow(ctx, "k") || l.Allow(ctx, "k") {
		t.Fatalf("expected a single attempt per window")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.Allow(ctx, "k") {
		t.Fatalf("expected attempt allowed after the window")
	}
}

func TestWindowLimiter(t *testing.T) {
	ctx := context.Background()
	fake := &fakeScripter{counts: map[string]int64{}}
	l := &windowLimiter{client: fake, prefix: "rl:admin:", window: 15 * time.Minute, max: 2}

	for i := 0; i < 2; i++ {
		if !l.Allow(ctx, " Ops@Example.com ") {
			t.Fatalf("attempt %d: expected allowed", i+1)
		}
	}
	if l.Allow(ctx, "ops@example.com") {
		t.Fatalf("expected deny after max attempts")
	}
	if len(fake.lastKeys) != 1 || fake.lastKeys[0] != "rl:admin:ops@example.com" {
		t.Fatalf("unexpected key %v", fake.lastKeys)
	}
	if len(fake.lastArgs) != 1 || fake.lastArgs[0] != int64(900000) {
		t.Fatalf("expected window in milliseconds, got %v", fake.lastArgs)
	}
	if l.Allow(ctx, "") {
		t.Fatalf("expected empty key denied")
	}
}

func TestWindowLimiter_RedisDown(t *testing.T) {
	l := &windowLimiter{client: &fakeScripter{err: errors.New("redis down")}, prefix: "rl:admin:", window: time.Minute, max: 1}
	if !l.Allow(context.Background(), "ops@example.com") {
		t.Fatalf("expected attempt allowed while redis is unavailable")
	}
}
