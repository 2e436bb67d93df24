package audit

import "context"

// Store persists audit events. Postgres implementations join the caller's
// transaction when one is bound to ctx.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
}
