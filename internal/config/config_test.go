package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPAddr != ":3001" {
		t.Errorf("expected default HTTP addr :3001, got %s", cfg.HTTPAddr)
	}
	if cfg.AuthAddr != ":3000" {
		t.Errorf("expected default auth addr :3000, got %s", cfg.AuthAddr)
	}
	if cfg.ActuatorTopic != "actuator/led" {
		t.Errorf("expected default actuator topic, got %s", cfg.ActuatorTopic)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("expected default token TTL 1h, got %s", cfg.TokenTTL)
	}
	if len(cfg.Topics) != len(DefaultTopics) {
		t.Errorf("expected %d default topics, got %d", len(DefaultTopics), len(cfg.Topics))
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TMH_HTTP_ADDR", ":9000")
	t.Setenv("TMH_TOPICS", "sensor/a, sensor/b ,")
	t.Setenv("TMH_TOKEN_TTL", "30m")
	t.Setenv("TMH_MQTT_QOS", "1")

	cfg := Load()

	if cfg.HTTPAddr != ":9000" {
		t.Errorf("expected :9000, got %s", cfg.HTTPAddr)
	}
	if len(cfg.Topics) != 2 || cfg.Topics[0] != "sensor/a" || cfg.Topics[1] != "sensor/b" {
		t.Errorf("unexpected topics %v", cfg.Topics)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("expected 30m, got %s", cfg.TokenTTL)
	}
	if cfg.QoS != 1 {
		t.Errorf("expected QoS 1, got %d", cfg.QoS)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("TMH_TOKEN_TTL", "soon")
	t.Setenv("TMH_MQTT_QOS", "high")

	cfg := Load()

	if cfg.TokenTTL != time.Hour {
		t.Errorf("expected fallback TTL, got %s", cfg.TokenTTL)
	}
	if cfg.QoS != 0 {
		t.Errorf("expected fallback QoS 0, got %d", cfg.QoS)
	}
}
