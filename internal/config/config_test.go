package config

import (
	"testing"
	"time"
)

func TestLoad_KafkaBrokersSplitsOnComma(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092, broker-3:9092")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"broker-1:9092", "broker-2:9092", "broker-3:9092"}
	if len(cfg.Kafka.Brokers) != len(want) {
		t.Fatalf("expected %d brokers, got %d: %v", len(want), len(cfg.Kafka.Brokers), cfg.Kafka.Brokers)
	}
	for i, b := range want {
		if cfg.Kafka.Brokers[i] != b {
			t.Errorf("broker %d: expected %q, got %q", i, b, cfg.Kafka.Brokers[i])
		}
	}
}

func TestLoad_KafkaBrokersEmptyDisablesConsumer(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Kafka.Brokers) != 0 {
		t.Errorf("expected no brokers, got %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_ServerTimeoutDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("expected read timeout 10s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 10*time.Second {
		t.Errorf("expected write timeout 10s, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Server.IdleTimeout != 30*time.Second {
		t.Errorf("expected idle timeout 30s, got %v", cfg.Server.IdleTimeout)
	}
}

func TestLoad_ServerTimeoutsFromEnv(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "5s")
	t.Setenv("SERVER_WRITE_TIMEOUT", "15s")
	t.Setenv("SERVER_IDLE_TIMEOUT", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("expected read timeout 5s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 15*time.Second {
		t.Errorf("expected write timeout 15s, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Server.IdleTimeout != time.Minute {
		t.Errorf("expected idle timeout 1m, got %v", cfg.Server.IdleTimeout)
	}
}

func TestLoad_InvalidBusinessDay(t *testing.T) {
	t.Setenv("SHIPMENT_BUSINESS_DAYS", "1,2,seven")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid business day")
	}
}
