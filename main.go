package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "rideshare-functions/cmd/api"
	"rideshare-functions/internal/app"
	notificationDelivery "rideshare-functions/internal/notification/delivery"
	notificationUsecase "rideshare-functions/internal/notification/usecase"
	retentionDomain "rideshare-functions/internal/retention/domain"
	"rideshare-functions/internal/retention/scheduler"
	retentionUsecase "rideshare-functions/internal/retention/usecase"
	userRepo "rideshare-functions/internal/user/repository"
	"rideshare-functions/pkg/config"
	"rideshare-functions/pkg/firebaseapp"
	"rideshare-functions/pkg/logging"
)

const retentionRunTimeout = 9 * time.Minute

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backends, err := app.NewBackends(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backends.Close()

	profiles := userRepo.NewProfileRepository(backends.Store)

	// Retention
	job := retentionUsecase.NewJob(retentionUsecase.NewSweeper(backends.Store, logger), retentionDomain.DefaultTargets(), logger)
	if cfg.RetentionEnabled {
		sched, err := scheduler.NewRetentionScheduler(job, cfg.RetentionSchedule, cfg.RetentionTimezone, retentionRunTimeout, logger)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		logger.Info("retention scheduler started", "schedule", cfg.RetentionSchedule, "timezone", cfg.RetentionTimezone, "next_run", sched.Next())
	}

	// Document event notifications
	if cfg.GoogleProjectID != "" && backends.Push != nil {
		router := notificationDelivery.NewRouter(
			notificationUsecase.NewRideRequestNotifier(profiles, backends.Push, logger),
			notificationUsecase.NewRideAcceptedNotifier(profiles, backends.Push, logger),
			logger,
		)
		subscriber, err := notificationDelivery.NewSubscriber(ctx, cfg.GoogleProjectID, cfg.DocumentEventsSubscription, router, logger, firebaseapp.ClientOptions(cfg.FirebaseCredentials)...)
		if err != nil {
			logger.Error("failed to initialize document event subscriber", "error", err)
		} else {
			defer subscriber.Close()
			if backends.Redis != nil {
				subscriber.WithDeduper(notificationDelivery.NewRedisDeduper(backends.Redis, "docevent", cfg.EventDedupTTL))
				logger.Info("document event dedup enabled", "ttl", cfg.EventDedupTTL)
			}
			go func() {
				if err := subscriber.Start(ctx); err != nil {
					logger.Error("document event subscriber stopped", "error", err)
				}
			}()
		}
	} else {
		logger.Warn("push notifications disabled, document events will not be consumed")
	}

	handler := api.NewHandler(job, profiles, backends.Identity, cfg, logger)
	return handler.Start(ctx, ":"+cfg.Port)
}
