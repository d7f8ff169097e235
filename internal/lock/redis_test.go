package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedis(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r, err := NewRedis(context.Background(), RedisOptions{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r, mr
}

func TestRedisLockerExclusive(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t)
	key := UserKey("alice")

	unlock, err := r.Acquire(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}
	if _, err := r.Acquire(ctx, key, time.Minute); !errors.Is(err, ErrLocked) {
		t.Fatalf("second Acquire err = %v, want ErrLocked", err)
	}
	if _, err := r.Acquire(ctx, UserKey("bob"), time.Minute); err != nil {
		t.Fatalf("other key Acquire: %v", err)
	}

	if err := unlock(ctx); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if mr.Exists(key) {
		t.Fatal("key still set after unlock")
	}
	if _, err := r.Acquire(ctx, key, time.Minute); err != nil {
		t.Fatalf("Acquire after unlock: %v", err)
	}
}

func TestRedisLockerStaleUnlockKeepsNewHolder(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t)
	key := UserKey("alice")

	stale, err := r.Acquire(ctx, key, 10*time.Second)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	mr.FastForward(11 * time.Second)

	if _, err := r.Acquire(ctx, key, time.Minute); err != nil {
		t.Fatalf("Acquire after expiry: %v", err)
	}
	held, err := mr.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if err := stale(ctx); err != nil {
		t.Fatalf("stale unlock: %v", err)
	}
	got, err := mr.Get(key)
	if err != nil {
		t.Fatalf("key removed by stale unlock: %v", err)
	}
	if got != held {
		t.Fatalf("token = %q, want %q", got, held)
	}
	if _, err := r.Acquire(ctx, key, time.Minute); !errors.Is(err, ErrLocked) {
		t.Fatalf("err = %v, want ErrLocked", err)
	}
}

func TestNewRedisUnreachable(t *testing.T) {
	mr := miniredis.NewMiniRedis()
	if err := mr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r, err := NewRedis(ctx, RedisOptions{Addr: addr})
	if err == nil {
		_ = r.Close()
		t.Fatal("NewRedis succeeded against a closed server")
	}
	if r != nil {
		t.Errorf("locker = %v, want nil", r)
	}
}
