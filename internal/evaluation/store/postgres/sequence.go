package postgres

import (
	"context"
	"database/sql"

	txcontext "github.com/Joenyengs/backend/pkg/platform/tx"
)

// Sequencer allocates reference numbers from the reference_sequences table.
// The upsert takes a row lock, so concurrent callers on a scope serialize.
type Sequencer struct {
	db *sql.DB
}

func NewSequencer(db *sql.DB) *Sequencer {
	return &Sequencer{db: db}
}

func (s *Sequencer) Next(ctx context.Context, scope string) (int64, error) {
	var n int64
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO reference_sequences (scope, value) VALUES ($1, 1)
		ON CONFLICT (scope) DO UPDATE SET value = reference_sequences.value + 1
		RETURNING value`, scope,
	).Scan(&n)
	if err != nil {
		return 0, translateErr(err, "next reference number")
	}
	return n, nil
}
