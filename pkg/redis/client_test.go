package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/darkstore-backend/pkg/config"
	"github.com/redis/go-redis/v9"
)

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{cmd: mock}

	allowed, count, err := client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Fatalf("expected allowed on first request")
	}
	if count != 1 {
		t.Fatalf("expected counter 1 got %d", count)
	}
	if mock.ttls["ds:rate_limit:test-scope"] != time.Second {
		t.Fatalf("expected window ttl on first increment")
	}

	allowed, count, err = client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed || count != 2 {
		t.Fatalf("unexpected second call state allowed=%v count=%d", allowed, count)
	}
	if len(mock.expireCalls) != 2 || mock.ttlWrites != 1 {
		t.Fatalf("expected one ttl write across %d expire calls, got %d", len(mock.expireCalls), mock.ttlWrites)
	}

	allowed, _, err = client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatalf("expected limit reached")
	}
}

func TestSetGetAndDelete(t *testing.T) {
	ctx := context.Background()
	client := &Client{cmd: newMockCmdable()}

	if err := client.Set(ctx, client.SnapshotKey("dashboard"), `{"orders":[]}`, 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, err := client.Get(ctx, "ds:snapshot:dashboard")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != `{"orders":[]}` {
		t.Fatalf("unexpected value %q", value)
	}

	if err := client.Del(ctx, "ds:snapshot:dashboard"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, "ds:snapshot:dashboard"); err != redis.Nil {
		t.Fatalf("expected redis.Nil after delete, got %v", err)
	}
}

func TestSetNXOnlyOnce(t *testing.T) {
	ctx := context.Background()
	client := &Client{cmd: newMockCmdable()}

	ok, err := client.SetNX(ctx, client.LockKey("cron"), "owner-1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first setnx to win, ok=%v err=%v", ok, err)
	}
	ok, err = client.SetNX(ctx, client.LockKey("cron"), "owner-2", time.Minute)
	if err != nil || ok {
		t.Fatalf("expected second setnx to lose, ok=%v err=%v", ok, err)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if _, err := client.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
}

func TestFixedWindowRepairsMissingTTL(t *testing.T) {
	mock := newMockCmdable()
	mock.incr["ds:rate_limit:login"] = 3
	client := &Client{cmd: mock}

	if _, _, err := client.FixedWindowAllow(context.Background(), "login", 5, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.ttls["ds:rate_limit:login"] != time.Minute {
		t.Fatalf("expected ttl set on a counter that had none")
	}
}

func TestKeyPrefix(t *testing.T) {
	client := &Client{prefix: "darkstore-test:"}
	if got := client.LockKey("cron"); got != "darkstore-test:lock:cron" {
		t.Fatalf("unexpected lock key %s", got)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.IdempotencyKey("scope", "id"); got != "ds:idempotency:scope:id" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := client.RateLimitKey("scope"); got != "ds:rate_limit:scope" {
		t.Fatalf("unexpected rate limit key %s", got)
	}
	if got := client.AccessSessionKey("jti"); got != "ds:session:access:jti" {
		t.Fatalf("unexpected session key %s", got)
	}
	if got := client.SnapshotKey("dashboard"); got != "ds:snapshot:dashboard" {
		t.Fatalf("unexpected snapshot key %s", got)
	}
	if got := client.LockKey(""); got != "ds:lock" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/3", PoolSize: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 3 || opts.PoolSize != 7 {
		t.Fatalf("unexpected options db=%d pool=%d", opts.DB, opts.PoolSize)
	}
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
}

type mockCmdable struct {
	data        map[string]string
	incr        map[string]int64
	ttls        map[string]time.Duration
	expireCalls []expireCall
	ttlWrites   int
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		incr: make(map[string]int64),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) ExpireNX(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: expiration})
	if _, ok := m.ttls[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.ttls[key] = expiration
	m.ttlWrites++
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
