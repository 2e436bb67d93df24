// Package middleware throttles authenticated actors per endpoint class.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Joenyengs/backend/internal/ratelimit/metrics"
	"github.com/Joenyengs/backend/internal/ratelimit/models"
	"github.com/Joenyengs/backend/pkg/platform/httputil"
	"github.com/Joenyengs/backend/pkg/requestcontext"
)

// BucketStore records hits in a sliding window.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

type Middleware struct {
	store    BucketStore
	limits   map[models.EndpointClass]models.Limit
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

// WithDisabled turns every check into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func WithLimit(class models.EndpointClass, limit models.Limit) Option {
	return func(m *Middleware) {
		m.limits[class] = limit
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

// DefaultLimits apply to classes not overridden with WithLimit.
func DefaultLimits() map[models.EndpointClass]models.Limit {
	return map[models.EndpointClass]models.Limit{
		models.ClassWrite: {Requests: 30, Window: time.Minute},
		models.ClassRead:  {Requests: 300, Window: time.Minute},
	}
}

func New(store BucketStore, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		store:  store,
		limits: DefaultLimits(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.disabled {
		m.logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimitActor limits the authenticated actor on routes of class. It must
// run after the auth middleware. Store failures let the request through.
func (m *Middleware) RateLimitActor(class models.EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit, ok := m.limits[class]
			if m.disabled || !ok || limit.Requests <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			actor := requestcontext.ActorID(ctx)
			if actor.IsNil() {
				next.ServeHTTP(w, r)
				return
			}

			result, err := m.store.Allow(ctx, models.Key(class, actor.String()), limit.Requests, limit.Window)
			if err != nil {
				m.metrics.IncStoreError()
				m.logger.ErrorContext(ctx, "failed to check actor rate limit",
					"error", err,
					"class", class,
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}
			m.metrics.IncDecision(string(class), result.Allowed)

			addRateLimitHeaders(w, result)
			if !result.Allowed {
				m.logger.WarnContext(ctx, "actor rate limited",
					"class", class,
					"actor_id", actor.String(),
					"request_id", requestcontext.RequestID(ctx),
				)
				writeRateLimitExceeded(w, result)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ByMethod picks the write class for mutating methods and the read class otherwise.
func (m *Middleware) ByMethod() func(http.Handler) http.Handler {
	write := m.RateLimitActor(models.ClassWrite)
	read := m.RateLimitActor(models.ClassRead)
	return func(next http.Handler) http.Handler {
		w, r := write(next), read(next)
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				r.ServeHTTP(rw, req)
			default:
				w.ServeHTTP(rw, req)
			}
		})
	}
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "too many requests, try again later",
		RetryAfter: result.RetryAfter,
	})
}
