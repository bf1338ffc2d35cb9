package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if cfg.Storage.Driver != DriverBolt {
		t.Errorf("driver=%q, want %q", cfg.Storage.Driver, DriverBolt)
	}
	if cfg.Storage.Namespace != "taskwise" {
		t.Errorf("namespace=%q, want taskwise", cfg.Storage.Namespace)
	}
	if cfg.Auth.Secret == "" {
		t.Error("development secret should be filled in")
	}
	if !cfg.Auth.AllowGuest {
		t.Error("guests should be allowed by default")
	}
	if cfg.Location == nil {
		t.Error("location should be set")
	}
	if cfg.Address() != "0.0.0.0:8080" {
		t.Errorf("Address()=%q", cfg.Address())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_TTL", "90")
	t.Setenv("ALLOW_GUEST", "false")
	t.Setenv("APP_TIMEZONE", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if cfg.Storage.Driver != DriverRedis {
		t.Errorf("driver=%q, want redis", cfg.Storage.Driver)
	}
	if cfg.HTTP.Port != "9090" {
		t.Errorf("port=%q", cfg.HTTP.Port)
	}
	if cfg.Auth.TokenTTL != 90*time.Second {
		t.Errorf("ttl=%v, want 90s", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.AllowGuest {
		t.Error("ALLOW_GUEST=false ignored")
	}
	if cfg.Location != time.UTC {
		t.Errorf("location=%v, want UTC", cfg.Location)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "floppy")
	if _, err := Load(); err == nil {
		t.Fatal("Load() err=nil, want error")
	}
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("Load() err=nil, want error")
	}
}

func TestLoadRejectsIdleTTLShorterThanRequests(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "10")
	t.Setenv("WORKSPACE_IDLE_TTL", "5")
	if _, err := Load(); err == nil {
		t.Fatal("Load() err=nil, want error")
	}
}
