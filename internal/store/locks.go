package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/theirongolddev/welth/internal/lock"

	"github.com/google/uuid"
)

// DBLocker is a lock.Locker kept in the locks table, so every process that
// opens the same database file shares it.
type DBLocker struct {
	db    *sql.DB
	clock func() time.Time
}

// Locker returns a lock.Locker backed by this database.
func (s *Store) Locker() *DBLocker {
	return &DBLocker{db: s.db, clock: time.Now}
}

// Acquire takes key for ttl. A row whose expiry has passed is taken over in
// the same statement.
func (l *DBLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (lock.Unlock, error) {
	now := l.clock()
	token := uuid.NewString()

	res, err := l.db.ExecContext(ctx, `
		INSERT INTO locks (lock_key, token, expires_ns) VALUES (?, ?, ?)
		ON CONFLICT(lock_key) DO UPDATE SET token = excluded.token, expires_ns = excluded.expires_ns
		WHERE locks.expires_ns <= ?`,
		key, token, now.Add(ttl).UnixNano(), now.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("acquiring lock %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("acquiring lock %s: %w", key, err)
	}
	if n == 0 {
		return nil, lock.ErrLocked
	}

	return func(ctx context.Context) error {
		if _, err := l.db.ExecContext(ctx, `DELETE FROM locks WHERE lock_key = ? AND token = ?`, key, token); err != nil {
			return fmt.Errorf("releasing lock %s: %w", key, err)
		}
		return nil
	}, nil
}

// Close is a no-op; the Store owns the connection.
func (l *DBLocker) Close() error { return nil }
