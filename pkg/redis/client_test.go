package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockCmdable struct {
	values map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{values: map[string]string{}}
}

func (m *mockCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	m.values[key] = toString(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	if val, ok := m.values[key]; ok {
		return redis.NewStringResult(val, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if _, exists := m.values[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.values[key] = toString(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := m.values[key]; ok {
			delete(m.values, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func toString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func TestSetNXOnlyFirstWriteWins(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}

	ok, err := client.SetNX(ctx, "k", "first", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected first SetNX to win")
	}

	ok, err = client.SetNX(ctx, "k", "second", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected second SetNX to lose")
	}

	val, err := client.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if val != "first" {
		t.Fatalf("expected first value to survive, got %q", val)
	}
}

func TestIdempotencyKeyNamespacing(t *testing.T) {
	client := &Client{store: newMockCmdable()}

	key := client.IdempotencyKey("POST /discounts", "abc-123")
	if key != "sfa:idempotency:POST /discounts:abc-123" {
		t.Fatalf("unexpected key %q", key)
	}

	key = client.IdempotencyKey("", "abc-123")
	if key != "sfa:idempotency:abc-123" {
		t.Fatalf("expected empty scope to be skipped, got %q", key)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	client := &Client{}
	if _, err := client.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error from uninitialized client")
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(configFixture("", "")); err == nil {
		t.Fatal("expected error when url and address are missing")
	}
	opts, err := optionsFromConfig(configFixture("redis://localhost:6379/2", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 2 {
		t.Fatalf("expected db 2 from url, got %d", opts.DB)
	}
}
