package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	IdentityModeFirebase = "firebase"
	IdentityModeLocal    = "local"
)

type Config struct {
	Port     string
	LogLevel string

	GoogleProjectID     string
	FirebaseCredentials string

	// Subscription delivering document create/update events.
	DocumentEventsSubscription string

	RetentionEnabled  bool
	RetentionSchedule string
	RetentionTimezone string

	InstitutionEmailDomain string

	IdentityMode        string
	LocalIdentitySecret string

	// Optional. When set, redelivered document events are skipped.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	EventDedupTTL time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                       getEnv("PORT", "8080"),
		LogLevel:                   strings.ToLower(getEnv("LOG_LEVEL", "info")),
		GoogleProjectID:            getEnv("GOOGLE_PROJECT_ID", ""),
		FirebaseCredentials:        getEnv("FIREBASE_CREDENTIALS", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
		DocumentEventsSubscription: getEnv("PUBSUB_DOCUMENT_EVENTS_SUBSCRIPTION", "document-events-sub"),
		RetentionSchedule:          getEnv("RETENTION_SCHEDULE", "0 3 * * *"),
		RetentionTimezone:          getEnv("RETENTION_TIMEZONE", "America/Denver"),
		InstitutionEmailDomain:     strings.ToLower(getEnv("INSTITUTION_EMAIL_DOMAIN", "byui.edu")),
		IdentityMode:               strings.ToLower(getEnv("IDENTITY_MODE", "")),
		LocalIdentitySecret:        getEnv("LOCAL_IDENTITY_SECRET", ""),
		RedisAddr:                  getEnv("REDIS_ADDR", ""),
		RedisPassword:              os.Getenv("REDIS_PASSWORD"),
	}

	var errs []error

	cfg.RetentionEnabled = true
	if v := os.Getenv("RETENTION_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid RETENTION_ENABLED: %w", err))
		} else {
			cfg.RetentionEnabled = b
		}
	}

	if v := getEnv("REDIS_DB", "0"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil || db < 0 {
			errs = append(errs, fmt.Errorf("invalid REDIS_DB %q", v))
		} else {
			cfg.RedisDB = db
		}
	}

	ttl, err := time.ParseDuration(getEnv("EVENT_DEDUP_TTL", "24h"))
	if err != nil || ttl <= 0 {
		errs = append(errs, errors.New("invalid EVENT_DEDUP_TTL: must be a positive duration"))
	} else {
		cfg.EventDedupTTL = ttl
	}

	if _, err := time.LoadLocation(cfg.RetentionTimezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid RETENTION_TIMEZONE: %w", err))
	}

	if cfg.IdentityMode == "" {
		cfg.IdentityMode = IdentityModeFirebase
		if cfg.GoogleProjectID == "" {
			cfg.IdentityMode = IdentityModeLocal
		}
	}
	switch cfg.IdentityMode {
	case IdentityModeFirebase:
		if cfg.GoogleProjectID == "" {
			errs = append(errs, errors.New("IDENTITY_MODE=firebase requires GOOGLE_PROJECT_ID"))
		}
	case IdentityModeLocal:
		if cfg.LocalIdentitySecret == "" {
			errs = append(errs, errors.New("IDENTITY_MODE=local requires LOCAL_IDENTITY_SECRET"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown IDENTITY_MODE %q", cfg.IdentityMode))
	}

	if cfg.InstitutionEmailDomain == "" || strings.Contains(cfg.InstitutionEmailDomain, "@") {
		errs = append(errs, fmt.Errorf("invalid INSTITUTION_EMAIL_DOMAIN %q", cfg.InstitutionEmailDomain))
	}

	return cfg, errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
