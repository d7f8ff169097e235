// Package lock provides per-key mutual exclusion with expiry. Redis backs it
// across hosts and memory within one process; the store package adds a
// SQLite-backed Locker shared by every process on one database file.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrLocked is returned when another holder owns the key.
var ErrLocked = errors.New("lock: held by another holder")

// Unlock releases a held lock. Releasing an expired or stolen lock is a no-op.
type Unlock func(ctx context.Context) error

// Locker acquires exclusive, expiring locks. Acquire never blocks waiting
// for the holder: it fails fast with ErrLocked.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Unlock, error)
	Close() error
}

// MemoryLocker is an in-process Locker.
type MemoryLocker struct {
	mu    sync.Mutex
	held  map[string]memoryEntry
	clock func() time.Time
}

type memoryEntry struct {
	token   string
	expires time.Time
}

// NewMemory returns an empty in-process Locker.
func NewMemory() *MemoryLocker {
	return &MemoryLocker{
		held:  make(map[string]memoryEntry),
		clock: time.Now,
	}
}

// Acquire takes key for ttl.
func (m *MemoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Unlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	if e, ok := m.held[key]; ok && now.Before(e.expires) {
		return nil, ErrLocked
	}

	token := uuid.NewString()
	m.held[key] = memoryEntry{token: token, expires: now.Add(ttl)}

	return func(context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if e, ok := m.held[key]; ok && e.token == token {
			delete(m.held, key)
		}
		return nil
	}, nil
}

// Close releases every held lock.
func (m *MemoryLocker) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.held)
	return nil
}

// UserKey is the lock key guarding one user's guardian run.
func UserKey(userID string) string {
	return "welth:guardian:" + userID
}
