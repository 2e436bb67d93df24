package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	strutil "github.com/Joenyengs/backend/pkg/platform/strings"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	LogLevel    string
	Environment string

	Postgres    PostgresConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Auth        AuthConfig
	Eligibility EligibilityConfig
	RateLimit   RateLimitConfig

	// TxTimeout bounds every atomic evaluation unit.
	TxTimeout time.Duration
}

// PostgresConfig selects the durable store. An empty DSN keeps everything in memory.
type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LockTimeout     time.Duration
}

// RedisConfig backs the reference number sequencer.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig backs the notification port. Without brokers notifications are only logged.
type KafkaConfig struct {
	Brokers           []string
	NotificationTopic string
	ClientID          string
	Partitions        int32
	ReplicationFactor int16
}

// AuthConfig verifies tokens issued by the identity provider.
type AuthConfig struct {
	JWTSigningKey string
	Issuer        string
	Audience      string
}

// EligibilityConfig points at the optional YAML pre-filter policy.
type EligibilityConfig struct {
	PolicyFile string
}

// RateLimitConfig sets per-actor quotas on the HTTP surface. Quotas are
// shared through Redis when it is configured.
type RateLimitConfig struct {
	Disabled        bool
	WritesPerMinute int
	ReadsPerMinute  int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:        envOr("EVALUATION_ADDR", ":8080"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		Environment: envOr("ENVIRONMENT", "development"),
		Postgres: PostgresConfig{
			DSN: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Kafka: KafkaConfig{
			Brokers:           strutil.SplitList(os.Getenv("KAFKA_BROKERS")),
			NotificationTopic: envOr("KAFKA_NOTIFICATION_TOPIC", "evaluation.notifications"),
			ClientID:          envOr("KAFKA_CLIENT_ID", "evaluation-service"),
		},
		Auth: AuthConfig{
			JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
			Issuer:        os.Getenv("JWT_ISSUER"),
			Audience:      os.Getenv("JWT_AUDIENCE"),
		},
		Eligibility: EligibilityConfig{
			PolicyFile: os.Getenv("ELIGIBILITY_POLICY_FILE"),
		},
	}

	var err error
	if cfg.TxTimeout, err = envDuration("TX_TIMEOUT", 5*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Postgres.MaxOpenConns, err = envInt("DATABASE_MAX_OPEN_CONNS", 20); err != nil {
		return Server{}, err
	}
	if cfg.Postgres.MaxIdleConns, err = envInt("DATABASE_MAX_IDLE_CONNS", 5); err != nil {
		return Server{}, err
	}
	if cfg.Postgres.ConnMaxLifetime, err = envDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute); err != nil {
		return Server{}, err
	}
	if cfg.Postgres.LockTimeout, err = envDuration("DATABASE_LOCK_TIMEOUT", 2*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.PoolSize, err = envInt("REDIS_POOL_SIZE", 10); err != nil {
		return Server{}, err
	}
	if cfg.Redis.MinIdleConns, err = envInt("REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return Server{}, err
	}
	if cfg.Redis.DialTimeout, err = envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.ReadTimeout, err = envDuration("REDIS_READ_TIMEOUT", 3*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.WriteTimeout, err = envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.RateLimit.Disabled, err = envBool("RATE_LIMIT_DISABLED", false); err != nil {
		return Server{}, err
	}
	if cfg.RateLimit.WritesPerMinute, err = envInt("RATE_LIMIT_WRITES_PER_MINUTE", 30); err != nil {
		return Server{}, err
	}
	if cfg.RateLimit.ReadsPerMinute, err = envInt("RATE_LIMIT_READS_PER_MINUTE", 300); err != nil {
		return Server{}, err
	}
	partitions, err := envInt("KAFKA_PARTITIONS", 3)
	if err != nil {
		return Server{}, err
	}
	cfg.Kafka.Partitions = int32(partitions)
	replication, err := envInt("KAFKA_REPLICATION_FACTOR", 1)
	if err != nil {
		return Server{}, err
	}
	cfg.Kafka.ReplicationFactor = int16(replication)

	if cfg.Auth.JWTSigningKey == "" {
		if cfg.IsProduction() {
			return Server{}, fmt.Errorf("JWT_SIGNING_KEY is required in production")
		}
		// Development default; production must override.
		cfg.Auth.JWTSigningKey = "dev-secret-key-change-in-production"
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (s Server) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
