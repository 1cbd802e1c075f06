package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"ISMS_ADDR", "ISMS_ENV", "JWT_SIGNING_KEY", "DATABASE_URL",
		"REDIS_URL", "AUDIT_KAFKA_BROKERS", "AUDIT_KAFKA_TOPIC",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Addr)
	}
	if cfg.Environment != "development" {
		t.Errorf("expected default environment, got %q", cfg.Environment)
	}
	if cfg.JWTSigningKey != "" {
		t.Errorf("signing key must not default, got %q", cfg.JWTSigningKey)
	}
	if cfg.Database.URL != "" {
		t.Errorf("expected empty database URL, got %q", cfg.Database.URL)
	}
	if cfg.Redis.CacheTTL != 5*time.Minute {
		t.Errorf("expected 5m cache TTL, got %s", cfg.Redis.CacheTTL)
	}
	if cfg.Kafka.Brokers != nil {
		t.Errorf("expected no brokers, got %v", cfg.Kafka.Brokers)
	}
	if cfg.Kafka.Topic != "isms.audit" {
		t.Errorf("expected default audit topic, got %q", cfg.Kafka.Topic)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ISMS_ADDR", ":9999")
	t.Setenv("JWT_SIGNING_KEY", "s3cret")
	t.Setenv("DATABASE_MAX_CONNS", "25")
	t.Setenv("AUDIT_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")

	cfg := FromEnv()
	if cfg.Addr != ":9999" {
		t.Errorf("expected addr override, got %q", cfg.Addr)
	}
	if cfg.JWTSigningKey != "s3cret" {
		t.Errorf("expected signing key override, got %q", cfg.JWTSigningKey)
	}
	if cfg.Database.MaxConns != 25 {
		t.Errorf("expected 25 max conns, got %d", cfg.Database.MaxConns)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "kafka-2:9092" {
		t.Errorf("expected trimmed broker list, got %v", cfg.Kafka.Brokers)
	}
}
