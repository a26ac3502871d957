package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, 30*time.Second), mr
}

func TestGetSetRoundTrip(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()

	if err := c.Set(ctx, "menu:public", []byte(`{"items":[]}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := c.Get(ctx, "menu:public")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"items":[]}` {
		t.Fatalf("unexpected payload: %s", got)
	}
}

func TestGetCacheMiss(t *testing.T) {
	c, _ := setupTestRedis(t)

	_, err := c.Get(context.Background(), "missing")
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestSetAppliesTTL(t *testing.T) {
	c, mr := setupTestRedis(t)

	if err := c.Set(context.Background(), "menu:public", []byte("x")); err != nil {
		t.Fatalf("set: %v", err)
	}
	ttl := mr.TTL("menu:public")
	if ttl <= 0 || ttl > 30*time.Second {
		t.Fatalf("unexpected ttl %v", ttl)
	}
}

func TestDelete(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	mr.Set("menu:public", "x")
	if err := c.Delete(ctx, "menu:public"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("menu:public") {
		t.Fatalf("key still present after delete")
	}
	// Deleting an absent key is not an error.
	if err := c.Delete(ctx, "nonexistent"); err != nil {
		t.Fatalf("delete absent key: %v", err)
	}
}

func TestExpiredEntryMisses(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	if err := c.Set(ctx, "menu:public", []byte("x")); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(time.Minute)
	if _, err := c.Get(ctx, "menu:public"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after expiry, got %v", err)
	}
}
