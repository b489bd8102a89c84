package config

import (
	"reflect"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "MONGO_DB", "STORE_TIMEOUT", "CORS_ORIGINS", "OUTBOX_MAX_ATTEMPTS", "OUTBOX_INTERVAL", "RATE_LIMIT_PER_MINUTE", "MINIO_ENDPOINT", "SCYLLA_HOSTS", "SMTP_HOST"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	if cfg.Port != "8080" || cfg.MongoDB != "plantopia" || cfg.StoreTimeout != 10*time.Second {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.OutboxMaxAttempts != 10 || cfg.OutboxInterval != 5*time.Second || cfg.RateLimitPerMinute != 120 {
		t.Fatalf("outbox/rate limit = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"http://localhost:5173"}) {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.MinIO.Enabled() || cfg.Scylla.Enabled() || cfg.SMTP.Enabled() {
		t.Fatal("aucune intégration ne doit être active sans configuration")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("STORE_TIMEOUT", "3s")
	t.Setenv("OUTBOX_MAX_ATTEMPTS", "abc")
	t.Setenv("SCYLLA_HOSTS", " 10.0.0.1, ,10.0.0.2 ")
	t.Setenv("SCYLLA_KEYSPACE", "plantopia")

	cfg := FromEnv()
	if cfg.StoreTimeout != 3*time.Second {
		t.Fatalf("StoreTimeout = %s", cfg.StoreTimeout)
	}
	if cfg.OutboxMaxAttempts != 10 {
		t.Fatalf("valeur invalide doit retomber sur le défaut, got %d", cfg.OutboxMaxAttempts)
	}
	if !reflect.DeepEqual(cfg.Scylla.Hosts, []string{"10.0.0.1", "10.0.0.2"}) || !cfg.Scylla.Enabled() {
		t.Fatalf("Scylla = %+v", cfg.Scylla)
	}
}
