package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort != ":3210" {
		t.Fatalf("expected default server port, got %q", cfg.ServerPort)
	}
	if cfg.PostgresURL == "" {
		t.Fatalf("expected default postgres url")
	}
	if cfg.DBMaxConns != 10 {
		t.Fatalf("expected default pool size 10, got %d", cfg.DBMaxConns)
	}
	if cfg.MetersPerTick != 1.56 || cfg.MET != 6.8 || cfg.DefaultWeightKg != 60 {
		t.Fatalf("unexpected calibration defaults: %+v", cfg)
	}
	if cfg.ScanTTL != 2*time.Minute {
		t.Fatalf("expected scan ttl 2m, got %v", cfg.ScanTTL)
	}
	if cfg.DefaultDeviceID != "default" {
		t.Fatalf("expected default device id")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("POSTGRES_URL", "postgres://example")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("DB_RETRY_INTERVAL", "500ms")
	t.Setenv("METERS_PER_TICK", "2.5")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.PostgresURL != "postgres://example" {
		t.Fatalf("expected override postgres")
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("expected override redis")
	}
	if cfg.DBRetryInterval != 500*time.Millisecond {
		t.Fatalf("expected override retry interval, got %v", cfg.DBRetryInterval)
	}
	if cfg.MetersPerTick != 2.5 {
		t.Fatalf("expected override meters per tick, got %v", cfg.MetersPerTick)
	}
	brokers := cfg.Brokers()
	if len(brokers) != 2 || brokers[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers: %v", brokers)
	}
}

func TestAllowedOrigins(t *testing.T) {
	if got := (Config{}).AllowedOrigins(); got != "*" {
		t.Fatalf("expected wildcard, got %q", got)
	}
	cfg := Config{CORSOrigins: " https://kiosk.example ,https://admin.example"}
	if got := cfg.AllowedOrigins(); got != "https://kiosk.example,https://admin.example" {
		t.Fatalf("unexpected origins %q", got)
	}
}
