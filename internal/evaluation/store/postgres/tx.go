package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
	"github.com/Joenyengs/backend/pkg/platform/sentinel"
	txcontext "github.com/Joenyengs/backend/pkg/platform/tx"
)

const defaultTxTimeout = 5 * time.Second

// Tx runs a scope as one transaction holding a transaction-level advisory
// lock on the scope key. Callers sharing a key serialize; the lock is
// released at commit or rollback.
type Tx struct {
	db          *sql.DB
	timeout     time.Duration
	lockTimeout time.Duration
}

type TxOption func(*Tx)

// WithTimeout bounds a scope whose context has no deadline.
func WithTimeout(d time.Duration) TxOption {
	return func(t *Tx) {
		t.timeout = d
	}
}

// WithLockTimeout bounds how long a scope waits for a contended key. Expiry
// surfaces as a timeout error.
func WithLockTimeout(d time.Duration) TxOption {
	return func(t *Tx) {
		t.lockTimeout = d
	}
}

func NewTx(db *sql.DB, opts ...TxOption) *Tx {
	t := &Tx{db: db}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tx) RunInTx(ctx context.Context, lockKey string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapTxErr(ctx, err, "begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if t.lockTimeout > 0 {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", t.lockTimeout.Milliseconds())); err != nil {
			return wrapTxErr(ctx, err, "set lock timeout")
		}
	}
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		return wrapTxErr(ctx, err, "acquire scope lock")
	}

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrapTxErr(ctx, err, "commit transaction")
	}
	return nil
}

func wrapTxErr(ctx context.Context, err error, action string) error {
	if ctx.Err() != nil || errors.Is(translateErr(err, action), sentinel.ErrUnavailable) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "timed out waiting for application lock")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
}
