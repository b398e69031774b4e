package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.FirstItemDelay() != 3 {
		t.Errorf("first item delay = %d, want 3", cfg.FirstItemDelay())
	}
	if cfg.BetweenItemsDelay() != 1 {
		t.Errorf("between items delay = %d, want 1", cfg.BetweenItemsDelay())
	}
	if cfg.RequestTimeout() != 10*time.Second {
		t.Errorf("timeout = %v, want 10s", cfg.RequestTimeout())
	}
	if cfg.Authenticated() {
		t.Error("default config must be unauthenticated")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CITYGATE_BACKEND", "https://api.example.org")
	t.Setenv("CITYGATE_TOKEN", "tok-1")

	cfg := DefaultConfig()
	cfg.AutoPopulateFromEnv()

	if cfg.Backend != "https://api.example.org" {
		t.Errorf("backend = %q", cfg.Backend)
	}
	if !cfg.Authenticated() {
		t.Error("token from env should authenticate")
	}
}

func TestZeroTimingFallsBack(t *testing.T) {
	cfg := &Config{}
	if cfg.FirstItemDelay() != 3 || cfg.BetweenItemsDelay() != 1 {
		t.Error("zero timing values must fall back to defaults")
	}
}

func TestBearerPrefersTokenOverViewerID(t *testing.T) {
	cfg := &Config{ViewerID: "viewer-9"}
	if cfg.Bearer() != "viewer-9" {
		t.Errorf("bearer = %q, want viewer-9", cfg.Bearer())
	}
	if !cfg.Authenticated() {
		t.Error("a bare viewer ID still identifies the viewer")
	}

	cfg.Token = "tok-1"
	if cfg.Bearer() != "tok-1" {
		t.Errorf("bearer = %q, want the session token", cfg.Bearer())
	}
}
