// Package notify delivers workflow notifications. The service hands them over
// after commit; delivery is best effort.
package notify

import (
	"context"
	"log/slog"

	"github.com/Joenyengs/backend/internal/evaluation/models"
	"github.com/Joenyengs/backend/pkg/requestcontext"
)

// Log writes each notification as a structured log line. Used when no broker
// is configured.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Notify(ctx context.Context, n models.Notification) error {
	recipients := make([]string, len(n.Recipients))
	for i, r := range n.Recipients {
		recipients[i] = string(r)
	}
	l.logger.InfoContext(ctx, "notification",
		"log_type", "notification",
		"request_id", requestcontext.RequestID(ctx),
		"recipients", recipients,
		"message", n.Message,
		"link", n.Link,
	)
	return nil
}
