package cache

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// Locker hands out short-lived per-key mutexes backed by the cache store.
// It serializes the read-modify-write paths that cannot be expressed as a
// single atomic command (the blocked/blockedBy list update).
type Locker struct {
	rs *redsync.Redsync
}

// NewLocker creates a locker sharing the store's client.
func NewLocker(client redis.UniversalClient) *Locker {
	return &Locker{rs: redsync.New(goredis.NewPool(client))}
}

// WithLock runs fn while holding the named mutex. The expiry bounds how long
// a crashed holder can block other writers.
func (l *Locker) WithLock(ctx context.Context, name string, fn func() error) error {
	mutex := l.rs.NewMutex("lock:"+name,
		redsync.WithExpiry(8*time.Second),
		redsync.WithTries(16),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return err
	}
	defer mutex.UnlockContext(ctx)
	return fn()
}
