package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected default addr: %s", cfg.Server.Addr)
	}
	if cfg.Session.IdleTimeout != 30*time.Minute {
		t.Fatalf("unexpected idle timeout: %s", cfg.Session.IdleTimeout)
	}
	if cfg.Session.SweepInterval != 5*time.Minute {
		t.Fatalf("unexpected sweep interval: %s", cfg.Session.SweepInterval)
	}
	if cfg.LLM.Timeout != 10*time.Second {
		t.Fatalf("unexpected completion timeout: %s", cfg.LLM.Timeout)
	}
	if cfg.LLM.Temperature == nil || *cfg.LLM.Temperature != 0.7 {
		t.Fatalf("unexpected default temperature: %v", cfg.LLM.Temperature)
	}
	if cfg.LLM.MaxTokens == nil || *cfg.LLM.MaxTokens != 150 {
		t.Fatalf("unexpected default max tokens: %v", cfg.LLM.MaxTokens)
	}
	if cfg.LLM.Enabled() {
		t.Fatal("LLM should be disabled without credentials")
	}
}

func TestLoadServerAddrForms(t *testing.T) {
	t.Setenv("PORT", "9090")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}

	t.Setenv("PORT", "127.0.0.1:9090")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}

	t.Setenv("PORT", "bad port")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed PORT")
	}
}

func TestLoadSessionDurations(t *testing.T) {
	t.Setenv("SESSION_IDLE_TIMEOUT", "15m")
	t.Setenv("SESSION_SWEEP_INTERVAL", "60")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Session.IdleTimeout != 15*time.Minute {
		t.Fatalf("unexpected idle timeout: %s", cfg.Session.IdleTimeout)
	}
	// Bare integers are read as seconds.
	if cfg.Session.SweepInterval != time.Minute {
		t.Fatalf("unexpected sweep interval: %s", cfg.Session.SweepInterval)
	}

	t.Setenv("SESSION_IDLE_TIMEOUT", "-5m")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative idle timeout")
	}
}

func TestLLMEnabled(t *testing.T) {
	t.Setenv("LLM_API_KEY", "key")
	t.Setenv("LLM_MODEL", "receptionist-model")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if !cfg.LLM.Enabled() {
		t.Fatal("LLM should be enabled with api key + model")
	}

	t.Setenv("LLM_TEMPERATURE", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed temperature")
	}
}
