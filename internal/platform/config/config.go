package config

import (
	"os"
	"strings"
	"time"
)

// RedisConfig carries connection settings for the optional catalog cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig carries producer settings for the audit event stream.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Server captures process-level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	PostgresURL   string
	Redis         RedisConfig
	Kafka         KafkaConfig

	// RequestTimeout bounds every HTTP request; timed-out requests are
	// retryable by the caller.
	RequestTimeout time.Duration
	// SessionTTL evicts idle registration sessions.
	SessionTTL time.Duration
	// CatalogCacheTTL enforces retention for cached reference data.
	CatalogCacheTTL time.Duration
	// ReconcileInterval paces the family/member repair sweep.
	ReconcileInterval time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("SAMADHAN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}
	topic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if topic == "" {
		topic = "samadhan.audit"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		PostgresURL:   os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   topic,
		},
		RequestTimeout:    durationFromEnv("REQUEST_TIMEOUT", 30*time.Second),
		SessionTTL:        durationFromEnv("SESSION_TTL", 2*time.Hour),
		CatalogCacheTTL:   durationFromEnv("CATALOG_CACHE_TTL", 5*time.Minute),
		ReconcileInterval: durationFromEnv("RECONCILE_INTERVAL", 15*time.Minute),
	}
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
