package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("Port: want 3000, got %q", cfg.Port)
	}
	if cfg.Store.Driver != DriverFile {
		t.Errorf("Store.Driver: want %q, got %q", DriverFile, cfg.Store.Driver)
	}
	if cfg.Store.DataDir != "./data" {
		t.Errorf("Store.DataDir: want ./data, got %q", cfg.Store.DataDir)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout: want 10s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.JWTSecret != "" {
		t.Error("JWTSecret must default to empty (auth disabled)")
	}
	if !cfg.IsDevelopment() {
		t.Error("default env must be development")
	}
	if cfg.Addr() != ":3000" {
		t.Errorf("Addr: want :3000, got %q", cfg.Addr())
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":         "9090",
		"STORE_DRIVER": "redis",
		"REDIS_ADDR":   "cache:6380",
		"REDIS_DB":     "2",
		"DATA_DIR":     "/var/lib/visits",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" || cfg.Store.Driver != DriverRedis {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Redis.Addr != "cache:6380" || cfg.Redis.DB != 2 {
		t.Errorf("unexpected redis config: %+v", cfg.Redis)
	}
	if cfg.Store.DataDir != "/var/lib/visits" {
		t.Errorf("unexpected data dir: %q", cfg.Store.DataDir)
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_DRIVER": "postgres",
	}))
	if err == nil || !strings.Contains(err.Error(), "STORE_DRIVER") {
		t.Fatalf("expected unknown driver error, got %v", err)
	}
}
