// Package service orchestrates the evaluation workflow: application intake,
// evaluator rounds, consensus and appeals. Every state change runs inside a
// per-application exclusive scope provided by StoreTx.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Joenyengs/backend/internal/evaluation/eligibility"
	"github.com/Joenyengs/backend/internal/evaluation/metrics"
	"github.com/Joenyengs/backend/internal/evaluation/models"
	id "github.com/Joenyengs/backend/pkg/domain"
	dErrors "github.com/Joenyengs/backend/pkg/domain-errors"
	audit "github.com/Joenyengs/backend/pkg/platform/audit"
	"github.com/Joenyengs/backend/pkg/platform/sentinel"
	"github.com/Joenyengs/backend/pkg/requestcontext"
)

const tracerName = "github.com/Joenyengs/backend/internal/evaluation/service"

// Service is the evaluation core.
type Service struct {
	applications ApplicationStore
	treatments   TreatmentStore
	appeals      AppealStore
	sequencer    Sequencer

	tx        StoreTx
	prefilter *eligibility.Prefilter
	notifier  Notifier
	auditor   AuditPublisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	linkBase  string
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTx sets the exclusive-scope provider. Defaults to in-memory shards.
func WithTx(tx StoreTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

// WithPrefilter replaces the default eligibility policy.
func WithPrefilter(p *eligibility.Prefilter) Option {
	return func(s *Service) {
		s.prefilter = p
	}
}

// WithLinkBase prefixes the links carried by notifications.
func WithLinkBase(base string) Option {
	return func(s *Service) {
		s.linkBase = base
	}
}

func New(
	applications ApplicationStore,
	treatments TreatmentStore,
	appeals AppealStore,
	sequencer Sequencer,
	opts ...Option,
) *Service {
	s := &Service{
		applications: applications,
		treatments:   treatments,
		appeals:      appeals,
		sequencer:    sequencer,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = NewInMemoryTx(DefaultTxTimeout)
	}
	if s.prefilter == nil {
		s.prefilter = eligibility.NewPrefilter(eligibility.DefaultPolicy())
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// runScoped executes fn in the exclusive scope and records its latency.
func (s *Service) runScoped(ctx context.Context, operation, lockKey string, fn func(ctx context.Context) error) error {
	start := time.Now()
	err := s.tx.RunInTx(ctx, lockKey, fn)
	s.metrics.ObserveScope(operation, time.Since(start))
	return err
}

func (s *Service) startSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "evaluation."+operation, trace.WithAttributes(attrs...))
}

// finishSpan records err on span and counts refused operations.
func (s *Service) finishSpan(span trace.Span, operation string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		if code := dErrors.CodeOf(err); code != dErrors.CodeInternal {
			s.metrics.IncRejection(operation, string(code))
		}
	}
	span.End()
}

// notify hands n to the sink once the scope committed. Failures only log.
func (s *Service) notify(ctx context.Context, n models.Notification) {
	if s.notifier == nil {
		return
	}
	if s.linkBase != "" && n.Link != "" {
		n.Link = s.linkBase + n.Link
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.metrics.IncNotificationFailure()
		s.logger.WarnContext(ctx, "notification delivery failed",
			"request_id", requestcontext.RequestID(ctx),
			"message", n.Message,
			"error", err,
		)
	}
}

// emitAudit appends event inside the current scope. Callers emit before the
// writes the event describes.
//
// The in-memory stores cannot roll back: when a later write in the same scope
// fails, the event and any earlier write stay. Those stores only refuse a
// follow-up write for a row that is missing (AppendAction on an unknown
// appeal, Update on an unknown application), and every scope loads or creates
// that row first under the same lock, so the partial state is not reachable
// there. Postgres scopes roll back as a whole.
func (s *Service) emitAudit(ctx context.Context, event audit.Event) error {
	if s.auditor == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}

// wrapStoreErr translates store sentinels into coded errors. Coded errors
// pass through unchanged.
func wrapStoreErr(err error, notFoundMsg, action string) error {
	if err == nil {
		return nil
	}
	var coded *dErrors.Error
	if errors.As(err, &coded) {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	case errors.Is(err, sentinel.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "application is busy, retry later")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
	}
}

func requireApplicationID(applicationID id.ApplicationID) error {
	if applicationID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "application ID required")
	}
	return nil
}

func applicationLink(applicationID id.ApplicationID) string {
	return "/applications/" + applicationID.String()
}

func appealLink(appealID id.AppealID) string {
	return "/appeals/" + appealID.String()
}
