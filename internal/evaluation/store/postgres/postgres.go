// Package postgres is the durable backend of the evaluation stores. Every
// query runs on the transaction bound to the context when there is one, so
// the service's exclusive scope commits or rolls back all of its writes
// together.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	id "github.com/Joenyengs/backend/pkg/domain"
	"github.com/Joenyengs/backend/pkg/platform/sentinel"
	txcontext "github.com/Joenyengs/backend/pkg/platform/tx"
)

// Schema creates every evaluation table. It is idempotent.
//
//go:embed schema.sql
var Schema string

// Tables lists the evaluation tables, children first.
var Tables = []string{"appeal_actions", "appeals", "treatments", "applications", "reference_sequences"}

const (
	pgUniqueViolation  = "23505"
	pgLockNotAvailable = "55P03"
	pgQueryCanceled    = "57014"
)

// translateErr maps driver errors onto store sentinels.
func translateErr(err error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", action, sentinel.ErrAlreadyUsed)
		case pgLockNotAvailable, pgQueryCanceled:
			return fmt.Errorf("%s: %w", action, sentinel.ErrUnavailable)
		}
	}
	return fmt.Errorf("%s: %w", action, err)
}

// lockClause locks the selected row when the read happens inside a scope.
func lockClause(ctx context.Context) string {
	if _, ok := txcontext.From(ctx); ok {
		return " FOR UPDATE"
	}
	return ""
}

type scanner interface {
	Scan(dest ...any) error
}

func nullableUser(u *id.UserID) any {
	if u == nil || u.IsNil() {
		return nil
	}
	return uuid.UUID(*u)
}
