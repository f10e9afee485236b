package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/glucowise/backend/internal/database"
	"github.com/pageza/glucowise/backend/internal/middleware"
)

// HealthCheck reports liveness and database reachability.
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "GlucoWise API is running",
		})
	}
}

// RegisterRateLimitRoutes exposes a device's remaining ingestion budget.
// router must carry device authentication.
func RegisterRateLimitRoutes(router *gin.RouterGroup, limiter *middleware.RateLimiter) {
	cfg := limiter.Config()
	router.GET("/device/rate-limit", func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			unauthorized(c)
			return
		}

		remaining, resetTime, err := limiter.Remaining(c.Request.Context(), userID.String())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check rate limit"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"limit":      cfg.Limit,
			"remaining":  remaining,
			"reset_time": resetTime.Unix(),
			"window":     cfg.Window.String(),
		})
	})
}
