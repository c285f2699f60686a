// Package app wires the external collaborators selected by configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"rideshare-functions/pkg/config"
	"rideshare-functions/pkg/docstore"
	"rideshare-functions/pkg/fcm"
	"rideshare-functions/pkg/firebaseapp"
	"rideshare-functions/pkg/identity"
)

// Backends holds the store, identity service and optional push/cache clients.
// Push and Redis are nil when not configured.
type Backends struct {
	Store    docstore.Store
	Identity identity.Service
	Push     *fcm.Client
	Redis    redis.UniversalClient

	closers []func() error
}

// NewBackends connects to Firebase when a project is configured and falls
// back to in-memory implementations otherwise.
func NewBackends(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backends, error) {
	b := &Backends{}

	if cfg.GoogleProjectID != "" {
		logger.Info("initializing firebase", "project_id", cfg.GoogleProjectID)
		fbApp, err := firebaseapp.NewApp(ctx, cfg.GoogleProjectID, cfg.FirebaseCredentials)
		if err != nil {
			return nil, err
		}

		fsClient, err := fbApp.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create firestore client: %w", err)
		}
		b.closers = append(b.closers, fsClient.Close)
		b.Store = docstore.NewFirestoreStore(fsClient)

		b.Push, err = fcm.NewClient(ctx, fbApp, logger)
		if err != nil {
			logger.Warn("failed to initialize FCM client, push notifications disabled", "error", err)
			b.Push = nil
		}

		if cfg.IdentityMode == config.IdentityModeFirebase {
			b.Identity, err = identity.NewFirebaseService(ctx, fbApp)
			if err != nil {
				b.Close()
				return nil, err
			}
		}
	} else {
		logger.Warn("GOOGLE_PROJECT_ID not configured, using in-memory store and disabling push notifications")
		b.Store = docstore.NewMemoryStore()
	}

	if b.Identity == nil {
		logger.Info("using local identity service")
		b.Identity = identity.NewLocalService(cfg.LocalIdentitySecret)
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			b.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		b.Redis = client
		b.closers = append(b.closers, client.Close)
	}

	return b, nil
}

// Close releases every client in reverse order of creation.
func (b *Backends) Close() error {
	var firstErr error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	b.closers = nil
	return firstErr
}
