package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaultsToLocalIdentityWithoutProject(t *testing.T) {
	t.Setenv("GOOGLE_PROJECT_ID", "")
	t.Setenv("IDENTITY_MODE", "")
	t.Setenv("LOCAL_IDENTITY_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IdentityMode != IdentityModeLocal {
		t.Fatalf("expected local identity, got %q", cfg.IdentityMode)
	}
	if cfg.RetentionSchedule != "0 3 * * *" || cfg.RetentionTimezone != "America/Denver" {
		t.Fatalf("unexpected retention defaults: %q %q", cfg.RetentionSchedule, cfg.RetentionTimezone)
	}
	if !cfg.RetentionEnabled {
		t.Fatalf("retention should be enabled by default")
	}
	if cfg.InstitutionEmailDomain != "byui.edu" {
		t.Fatalf("unexpected domain %q", cfg.InstitutionEmailDomain)
	}
}

func TestLoadJoinsValidationErrors(t *testing.T) {
	t.Setenv("GOOGLE_PROJECT_ID", "")
	t.Setenv("IDENTITY_MODE", "firebase")
	t.Setenv("RETENTION_TIMEZONE", "Mars/Olympus")
	t.Setenv("RETENTION_ENABLED", "sometimes")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"RETENTION_TIMEZONE", "RETENTION_ENABLED", "GOOGLE_PROJECT_ID"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in %q", want, err)
		}
	}
}

func TestLoadRedisSettings(t *testing.T) {
	t.Setenv("GOOGLE_PROJECT_ID", "")
	t.Setenv("LOCAL_IDENTITY_SECRET", "s3cret")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("EVENT_DEDUP_TTL", "90m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 2 || cfg.EventDedupTTL != 90*time.Minute {
		t.Fatalf("unexpected redis config %+v", cfg)
	}

	t.Setenv("EVENT_DEDUP_TTL", "-1s")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "EVENT_DEDUP_TTL") {
		t.Fatalf("expected ttl validation error, got %v", err)
	}
}
