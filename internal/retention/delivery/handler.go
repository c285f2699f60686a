package delivery

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rideshare-functions/internal/retention/scheduler"
)

// RetentionHandler lets an external scheduler trigger the retention job over HTTP
type RetentionHandler struct {
	job scheduler.Runner
	now func() time.Time
}

// NewRetentionHandler creates a new RetentionHandler
func NewRetentionHandler(job scheduler.Runner) *RetentionHandler {
	return &RetentionHandler{job: job, now: time.Now}
}

// Run sweeps every collection using the current time as the cutoff
// POST /api/jobs/retention
func (h *RetentionHandler) Run(c *gin.Context) {
	results, err := h.job.Run(c.Request.Context(), h.now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   err.Error(),
			"results": results,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
