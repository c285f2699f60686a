package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	retentionDelivery "rideshare-functions/internal/retention/delivery"
	verificationDelivery "rideshare-functions/internal/verification/delivery"
	"rideshare-functions/pkg/identity"
)

func SetupRoutes(r *gin.Engine, identitySvc identity.Service, retentionHandler *retentionDelivery.RetentionHandler, verificationHandler *verificationDelivery.VerificationHandler) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Scheduler-triggered jobs
		jobs := api.Group("/jobs")
		{
			jobs.POST("/retention", retentionHandler.Run)
		}

		// Callable functions
		callables := api.Group("/callable")
		callables.Use(verificationDelivery.CallerMiddleware(identitySvc))
		{
			callables.POST("/verifyByuiEmail", verificationHandler.VerifyInstitutionEmail)
		}
	}
}
