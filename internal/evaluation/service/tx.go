package service

import (
	"context"
	"sync"
	"time"

	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
)

// StoreTx runs fn inside an exclusive scope keyed by lockKey. Postgres
// implementations wrap a transaction holding an advisory lock; the in-memory
// one serializes callers sharing a shard.
type StoreTx interface {
	RunInTx(ctx context.Context, lockKey string, fn func(ctx context.Context) error) error
}

// numShards spreads lock keys over independent mutexes so unrelated
// applications rarely contend.
const numShards = 128

// DefaultTxTimeout bounds a scope when the caller's context has no deadline.
const DefaultTxTimeout = 5 * time.Second

type shardedTx struct {
	shards  [numShards]sync.Mutex
	timeout time.Duration
}

// NewInMemoryTx returns the StoreTx used with the in-memory stores.
func NewInMemoryTx(timeout time.Duration) StoreTx {
	return &shardedTx{timeout: timeout}
}

func (t *shardedTx) RunInTx(ctx context.Context, lockKey string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = DefaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := &t.shards[hashKey(lockKey)%numShards]
	if !lockWithContext(ctx, shard) {
		return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "timed out waiting for application lock")
	}
	defer shard.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx)
}

// lockWithContext acquires mu unless ctx ends first.
func lockWithContext(ctx context.Context, mu *sync.Mutex) bool {
	if mu.TryLock() {
		return true
	}
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if mu.TryLock() {
				return true
			}
		}
	}
}

// hashKey is FNV-1a.
func hashKey(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}

func applicationLockKey(applicationID string) string {
	return "application:" + applicationID
}

func candidateLockKey(candidateID string) string {
	return "candidate:" + candidateID
}
