package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration. FromEnv keeps main lean.
type Server struct {
	Addr          string
	Environment   string
	JWTSigningKey string
	Database      DatabaseConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
}

// DatabaseConfig holds PostgreSQL settings. An empty URL selects the
// in-memory stores, which keeps local development and unit tests free of
// infrastructure.
type DatabaseConfig struct {
	URL          string
	MaxConns     int32
	ConnLifetime time.Duration
}

// RedisConfig holds the optional catalog cache settings. An empty URL
// disables the cache and catalog reads hit the store directly.
type RedisConfig struct {
	URL          string
	CacheTTL     time.Duration
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds the optional audit relay settings. Empty brokers disable
// the relay; the audit store remains the system of record either way.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("ISMS_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	environment := os.Getenv("ISMS_ENV")
	if environment == "" {
		environment = "development"
	}

	topic := os.Getenv("AUDIT_KAFKA_TOPIC")
	if topic == "" {
		topic = "isms.audit"
	}

	return Server{
		Addr:        addr,
		Environment: environment,
		// No default: the server refuses to start without a key.
		JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxConns:     int32(envInt("DATABASE_MAX_CONNS", 10)),
			ConnLifetime: envDuration("DATABASE_CONN_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			CacheTTL:     envDuration("CATALOG_CACHE_TTL", 5*time.Minute),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: envList("AUDIT_KAFKA_BROKERS"),
			Topic:   topic,
		},
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
