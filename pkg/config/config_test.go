package config

import (
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Catalog.BaseURL != "http://localhost:8000/api" {
		t.Fatalf("unexpected catalog base url: %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.Timeout != 10*time.Second {
		t.Fatalf("expected default catalog timeout 10s, got %v", cfg.Catalog.Timeout)
	}
	if cfg.Cart.Backend != CartBackendFile {
		t.Fatalf("expected default cart backend file, got %q", cfg.Cart.Backend)
	}
	if cfg.Cart.Slot != "exactmatch_cart" {
		t.Fatalf("unexpected cart slot: %q", cfg.Cart.Slot)
	}
	if got := cfg.Checkout.RequiredFields; len(got) != 4 || got[0] != "name" || got[3] != "mpesa_phone" {
		t.Fatalf("unexpected default required fields: %v", got)
	}
}

func TestLoad_MissingCatalogBaseURL(t *testing.T) {
	if _, err := Load(); err == nil {
		t.Fatal("expected missing catalog base url to return an error")
	}
}

func TestLoad_UnknownCartBackend(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("EXACTMATCH_CART_BACKEND", "s3")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown cart backend to return an error")
	}
}

func TestLoad_RedisBackendRequiresAddress(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("EXACTMATCH_CART_BACKEND", CartBackendRedis)

	if _, err := Load(); err == nil {
		t.Fatal("expected redis backend without address to return an error")
	}

	t.Setenv("EXACTMATCH_REDIS_URL", "redis://localhost:6379/0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Cart.Backend != CartBackendRedis {
		t.Fatalf("expected redis backend, got %q", cfg.Cart.Backend)
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	app := AppConfig{Env: "DEV"}
	if !app.IsDev() || app.IsProd() {
		t.Fatalf("expected DEV to report dev, got dev=%v prod=%v", app.IsDev(), app.IsProd())
	}

	app.Env = "prod"
	if app.IsDev() || !app.IsProd() {
		t.Fatalf("expected prod to report prod, got dev=%v prod=%v", app.IsDev(), app.IsProd())
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv("EXACTMATCH_CATALOG_BASE_URL", "http://localhost:8000/api")
}
