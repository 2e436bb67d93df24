package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"github.com/Joenyengs/backend/internal/evaluation/eligibility"
	"github.com/Joenyengs/backend/internal/evaluation/handler"
	evalmetrics "github.com/Joenyengs/backend/internal/evaluation/metrics"
	"github.com/Joenyengs/backend/internal/evaluation/notify"
	"github.com/Joenyengs/backend/internal/evaluation/service"
	"github.com/Joenyengs/backend/internal/evaluation/store/memory"
	evalpg "github.com/Joenyengs/backend/internal/evaluation/store/postgres"
	"github.com/Joenyengs/backend/internal/evaluation/store/sequence"
	jwttoken "github.com/Joenyengs/backend/internal/jwt_token"
	"github.com/Joenyengs/backend/internal/platform/config"
	"github.com/Joenyengs/backend/internal/platform/httpserver"
	"github.com/Joenyengs/backend/internal/platform/kafka"
	"github.com/Joenyengs/backend/internal/platform/logger"
	"github.com/Joenyengs/backend/internal/platform/metrics"
	"github.com/Joenyengs/backend/internal/platform/middleware"
	"github.com/Joenyengs/backend/internal/platform/postgres"
	"github.com/Joenyengs/backend/internal/platform/redis"
	"github.com/Joenyengs/backend/internal/policy"
	rlmetrics "github.com/Joenyengs/backend/internal/ratelimit/metrics"
	rlmiddleware "github.com/Joenyengs/backend/internal/ratelimit/middleware"
	rlmodels "github.com/Joenyengs/backend/internal/ratelimit/models"
	"github.com/Joenyengs/backend/internal/ratelimit/store/bucket"
	audit "github.com/Joenyengs/backend/pkg/platform/audit"
	"github.com/Joenyengs/backend/pkg/platform/audit/publisher"
	auditmemory "github.com/Joenyengs/backend/pkg/platform/audit/store/memory"
	auditpg "github.com/Joenyengs/backend/pkg/platform/audit/store/postgres"
	authmw "github.com/Joenyengs/backend/pkg/platform/middleware/auth"
	"github.com/Joenyengs/backend/pkg/platform/middleware/requestid"
	"github.com/Joenyengs/backend/pkg/platform/middleware/requesttime"
)

const shutdownTimeout = 10 * time.Second

// main wires the evaluation service from the environment and serves it until
// SIGINT or SIGTERM.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

type infra struct {
	db    *sql.DB
	redis *redis.Client
	kafka *kgo.Client
}

func (i *infra) close() {
	if i.kafka != nil {
		i.kafka.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	inf, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer inf.close()

	policyCfg, err := eligibility.LoadPolicy(cfg.Eligibility.PolicyFile)
	if err != nil {
		return err
	}

	evalMetrics := evalmetrics.New()
	svc, kafkaNotifier := buildService(cfg, inf, policyCfg, evalMetrics, log)

	router := chi.NewRouter()
	httpMetrics := metrics.New()
	router.Use(requestid.Middleware)
	router.Use(requesttime.Middleware)
	router.Use(middleware.Recover(log))
	router.Use(middleware.Logger(log))
	router.Use(httpMetrics.Middleware)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if inf.redis != nil {
			if err := inf.redis.Health(r.Context()); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		if inf.db != nil {
			if err := inf.db.PingContext(r.Context()); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	tokens := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	limiter := buildRateLimiter(cfg, inf, log)
	router.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(tokens, log))
		r.Use(limiter.ByMethod())
		handler.New(svc, policy.NewRoleChecker(nil), log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting evaluation service",
			"addr", cfg.Addr,
			"environment", cfg.Environment,
			"postgres", inf.db != nil,
			"redis", inf.redis != nil,
			"kafka", inf.kafka != nil,
		)
		return httpserver.Serve(gctx, srv, shutdownTimeout)
	})
	if kafkaNotifier != nil {
		g.Go(func() error {
			<-gctx.Done()
			flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := kafkaNotifier.Flush(flushCtx); err != nil {
				log.Warn("notification flush incomplete", "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// connect opens whichever backends are configured. Missing ones fall back to
// in-process implementations.
func connect(ctx context.Context, cfg config.Server, log *slog.Logger) (*infra, error) {
	inf := &infra{}
	var err error

	if inf.db, err = postgres.Open(ctx, cfg.Postgres); err != nil {
		return nil, err
	}
	if inf.db != nil {
		if err := postgres.Migrate(ctx, inf.db, evalpg.Schema); err != nil {
			inf.close()
			return nil, err
		}
		if err := postgres.Migrate(ctx, inf.db, auditpg.Schema); err != nil {
			inf.close()
			return nil, err
		}
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	if inf.redis, err = redis.New(ctx, cfg.Redis); err != nil {
		inf.close()
		return nil, err
	}

	if inf.kafka, err = kafka.New(ctx, cfg.Kafka); err != nil {
		inf.close()
		return nil, err
	}
	if inf.kafka != nil {
		if err := kafka.EnsureTopic(ctx, inf.kafka, cfg.Kafka.NotificationTopic, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor); err != nil {
			inf.close()
			return nil, fmt.Errorf("bootstrap notification topic: %w", err)
		}
	}
	return inf, nil
}

func buildService(cfg config.Server, inf *infra, policyCfg eligibility.Policy, m *evalmetrics.Metrics, log *slog.Logger) (*service.Service, *notify.Kafka) {
	var (
		applications service.ApplicationStore
		treatments   service.TreatmentStore
		appeals      service.AppealStore
		sequencer    service.Sequencer
		tx           service.StoreTx
		auditStore   audit.Store
	)
	if inf.db != nil {
		applications = evalpg.NewApplicationStore(inf.db)
		treatments = evalpg.NewTreatmentStore(inf.db)
		appeals = evalpg.NewAppealStore(inf.db)
		sequencer = evalpg.NewSequencer(inf.db)
		tx = evalpg.NewTx(inf.db, evalpg.WithTimeout(cfg.TxTimeout), evalpg.WithLockTimeout(cfg.Postgres.LockTimeout))
		auditStore = auditpg.New(inf.db)
	} else {
		applications = memory.NewApplicationStore()
		treatments = memory.NewTreatmentStore()
		appeals = memory.NewAppealStore()
		sequencer = sequence.NewMemory()
		tx = service.NewInMemoryTx(cfg.TxTimeout)
		auditStore = auditmemory.NewInMemoryStore()
	}
	if inf.redis != nil {
		sequencer = sequence.NewRedis(inf.redis.Client)
	}

	var (
		notifier      service.Notifier = notify.NewLog(log)
		kafkaNotifier *notify.Kafka
	)
	if inf.kafka != nil {
		kafkaNotifier = notify.NewKafka(inf.kafka, cfg.Kafka.NotificationTopic,
			notify.WithLogger(log),
			notify.WithMetrics(m),
		)
		notifier = kafkaNotifier
	}

	svc := service.New(applications, treatments, appeals, sequencer,
		service.WithTx(tx),
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithNotifier(notifier),
		service.WithAuditPublisher(publisher.NewPublisher(auditStore, publisher.WithLogger(log))),
		service.WithPrefilter(eligibility.NewPrefilter(policyCfg)),
	)
	return svc, kafkaNotifier
}

func buildRateLimiter(cfg config.Server, inf *infra, log *slog.Logger) *rlmiddleware.Middleware {
	var store rlmiddleware.BucketStore = bucket.NewInMemoryBucketStore()
	if inf.redis != nil {
		store = bucket.NewRedisBucketStore(inf.redis.Client)
	}
	return rlmiddleware.New(store, log,
		rlmiddleware.WithDisabled(cfg.RateLimit.Disabled),
		rlmiddleware.WithLimit(rlmodels.ClassWrite, rlmodels.Limit{Requests: cfg.RateLimit.WritesPerMinute, Window: time.Minute}),
		rlmiddleware.WithLimit(rlmodels.ClassRead, rlmodels.Limit{Requests: cfg.RateLimit.ReadsPerMinute, Window: time.Minute}),
		rlmiddleware.WithMetrics(rlmetrics.New()),
	)
}
