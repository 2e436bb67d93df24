// Package publisher emits audit events with fail-closed semantics: Emit
// blocks until the store accepts the event and returns its error otherwise,
// so the calling operation aborts with it.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	audit "github.com/Joenyengs/backend/pkg/platform/audit"
)

type Publisher struct {
	store  audit.Store
	logger *slog.Logger
}

type Option func(*Publisher)

// WithLogger mirrors every event as a log_type=audit line.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit validates and synchronously persists event.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Action == "" {
		return fmt.Errorf("audit event requires Action")
	}
	if event.Subject == "" {
		return fmt.Errorf("audit event requires Subject")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Category = audit.AuditEvent(event.Action).Category()

	if err := p.store.Append(ctx, event); err != nil {
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "audit persistence failed",
				"action", event.Action,
				"subject", event.Subject,
				"error", err,
			)
		}
		return fmt.Errorf("audit persistence failed: %w", err)
	}

	if p.logger != nil {
		args := []any{
			"log_type", "audit",
			"category", string(event.Category),
			"action", event.Action,
			"subject", event.Subject,
			"request_id", event.RequestID,
		}
		if !event.ActorID.IsNil() {
			args = append(args, "actor_id", event.ActorID.String())
		}
		if event.Decision != "" {
			args = append(args, "decision", event.Decision)
		}
		if event.Reason != "" {
			args = append(args, "reason", event.Reason)
		}
		p.logger.InfoContext(ctx, event.Action, args...)
	}
	return nil
}

// List returns the audit trail of a subject, oldest first.
func (p *Publisher) List(ctx context.Context, subject string) ([]audit.Event, error) {
	return p.store.ListBySubject(ctx, subject)
}
