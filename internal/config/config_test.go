package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.Linkage.Strategy != "full" {
		t.Errorf("expected default strategy full, got %q", cfg.Linkage.Strategy)
	}
	if cfg.Linkage.PassTimeout != 30*time.Second {
		t.Errorf("expected default pass timeout 30s, got %s", cfg.Linkage.PassTimeout)
	}
	if cfg.HTTP.MetricsEnabled {
		t.Error("metrics must be disabled by default")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LINKAGE_STRATEGY", "incremental")
	t.Setenv("LINKAGE_PASS_TIMEOUT", "45s")
	t.Setenv("SERVER_METRICS_ENABLED", "true")
	t.Setenv("GRAPH_URI", "bolt://graph:7687")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Linkage.Strategy != "incremental" {
		t.Errorf("expected incremental strategy, got %q", cfg.Linkage.Strategy)
	}
	if cfg.Linkage.PassTimeout != 45*time.Second {
		t.Errorf("expected 45s pass timeout, got %s", cfg.Linkage.PassTimeout)
	}
	if !cfg.HTTP.MetricsEnabled {
		t.Error("expected metrics enabled")
	}
	if cfg.Graph.URI != "bolt://graph:7687" {
		t.Errorf("unexpected graph uri %q", cfg.Graph.URI)
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for out-of-range port")
	}

	t.Setenv("SERVER_PORT", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	t.Setenv("LINKAGE_PASS_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed duration")
	}
}
