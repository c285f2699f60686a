package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	retentionDelivery "rideshare-functions/internal/retention/delivery"
	"rideshare-functions/internal/retention/scheduler"
	userRepo "rideshare-functions/internal/user/repository"
	verificationDelivery "rideshare-functions/internal/verification/delivery"
	verificationUsecase "rideshare-functions/internal/verification/usecase"
	"rideshare-functions/pkg/config"
	"rideshare-functions/pkg/identity"
)

const shutdownTimeout = 10 * time.Second

type Handler struct {
	identity            identity.Service
	retentionHandler    *retentionDelivery.RetentionHandler
	verificationHandler *verificationDelivery.VerificationHandler
	logger              *slog.Logger
}

func NewHandler(retentionJob scheduler.Runner, profiles userRepo.ProfileRepository, identitySvc identity.Service, cfg *config.Config, logger *slog.Logger) *Handler {
	verificationUc := verificationUsecase.NewVerificationUsecase(profiles, identitySvc, cfg.InstitutionEmailDomain, logger)

	return &Handler{
		identity:            identitySvc,
		retentionHandler:    retentionDelivery.NewRetentionHandler(retentionJob),
		verificationHandler: verificationDelivery.NewVerificationHandler(verificationUc),
		logger:              logger.With("component", "http"),
	}
}

// Engine builds the gin engine with CORS and all routes registered
func (h *Handler) Engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, Firebase-Instance-ID-Token")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.identity, h.retentionHandler, h.verificationHandler)
	return r
}

// Start serves on addr until ctx is cancelled, then drains in-flight requests
func (h *Handler) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	h.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
