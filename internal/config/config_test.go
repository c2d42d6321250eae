package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "development" || cfg.Port != "8080" || cfg.LogLevel != "info" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.MaxOpenConns != 50 || cfg.ConnLifetime != 15*time.Minute {
		t.Fatalf("pool defaults not applied: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_MAX_OPEN_CONNS", "5")
	t.Setenv("DB_CONN_MAX_LIFETIME", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "production" || cfg.Port != "9090" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.MaxOpenConns != 5 || cfg.ConnLifetime != time.Hour {
		t.Fatalf("pool overrides not applied: %+v", cfg)
	}
}

func TestLoadRequiresDistinctSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when secrets are missing")
	}

	t.Setenv("JWT_SECRET", "same")
	t.Setenv("JWT_REFRESH_SECRET", "same")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when secrets are equal")
	}
}
