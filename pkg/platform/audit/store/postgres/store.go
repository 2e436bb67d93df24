package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "github.com/Joenyengs/backend/pkg/domain"
	audit "github.com/Joenyengs/backend/pkg/platform/audit"
	txcontext "github.com/Joenyengs/backend/pkg/platform/tx"
)

// Schema creates the audit table. Applied at startup with the other DDL.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id          UUID PRIMARY KEY,
	category    TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	actor_id    UUID,
	subject     TEXT NOT NULL,
	action      TEXT NOT NULL,
	decision    TEXT NOT NULL DEFAULT '',
	reason      TEXT NOT NULL DEFAULT '',
	request_id  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS audit_events_subject_idx ON audit_events (subject, occurred_at);
`

// Store appends audit events to Postgres. Inside a RunInTx scope the insert
// commits or rolls back with the business change.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	var actor any
	if !event.ActorID.IsNil() {
		actor = event.ActorID.String()
	}
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO audit_events (id, category, occurred_at, actor_id, subject, action, decision, reason, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.New(), string(event.Category), event.Timestamp, actor,
		event.Subject, event.Action, event.Decision, event.Reason, event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *Store) ListBySubject(ctx context.Context, subject string) ([]audit.Event, error) {
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT category, occurred_at, actor_id, subject, action, decision, reason, request_id
		FROM audit_events
		WHERE subject = $1
		ORDER BY occurred_at ASC, id ASC`, subject)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			e        audit.Event
			category string
			actor    sql.NullString
		)
		if err := rows.Scan(&category, &e.Timestamp, &actor, &e.Subject, &e.Action, &e.Decision, &e.Reason, &e.RequestID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		if actor.Valid {
			parsed, err := uuid.Parse(actor.String)
			if err != nil {
				return nil, fmt.Errorf("parse audit actor: %w", err)
			}
			e.ActorID = id.UserID(parsed)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
