package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORAGE_BACKEND", "STORAGE_NAMESPACE", "CARD_PAYMENT_DELAY", "PIX_CONFIRM_DELAY", "CORS_ORIGINS", "REDIS_DB"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	if cfg.Port != "8081" {
		t.Errorf("Port: got %q", cfg.Port)
	}
	if cfg.StorageNamespace != "frango-supremo-app" {
		t.Errorf("StorageNamespace: got %q", cfg.StorageNamespace)
	}
	if cfg.CardPaymentDelay != 2*time.Second {
		t.Errorf("CardPaymentDelay: got %v", cfg.CardPaymentDelay)
	}
	if cfg.PixConfirmDelay != 3*time.Second {
		t.Errorf("PixConfirmDelay: got %v", cfg.PixConfirmDelay)
	}
	if cfg.RedisDB != 0 {
		t.Errorf("RedisDB: got %d", cfg.RedisDB)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("PENDING_ORDER_TTL", "5m")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	cfg := Load()

	if cfg.Port != "9000" || cfg.StorageBackend != "redis" || cfg.RedisDB != 3 {
		t.Errorf("got %+v", cfg)
	}
	if cfg.PendingOrderTTL != 5*time.Minute {
		t.Errorf("PendingOrderTTL: got %v", cfg.PendingOrderTTL)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Errorf("CORSOrigins: got %v", cfg.CORSOrigins)
	}
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "two")
	t.Setenv("SWEEP_INTERVAL", "soon")
	cfg := Load()
	if cfg.RedisDB != 0 || cfg.SweepInterval != time.Minute {
		t.Errorf("RedisDB=%d SweepInterval=%v", cfg.RedisDB, cfg.SweepInterval)
	}
}
