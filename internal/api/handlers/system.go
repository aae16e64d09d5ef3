package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"session-gate/internal/api/interfaces"
	"session-gate/internal/api/models"
	"session-gate/internal/api/types"
)

// Helper functions
var startTime = time.Now()

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}

// HealthCheck provides a simple health check endpoint
func HealthCheck(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if !services.IsHealthy() {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, map[string]interface{}{
			"status":    status,
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	}
}

// Ping provides a minimal liveness probe
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]string{"message": "pong"})
}

// DetailedHealth reports per-dependency health with latencies (Admin only)
func DetailedHealth(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := make(map[string]models.HealthCheck)
		status := "healthy"

		dbStart := time.Now()
		if err := services.GetDB().PingContext(c.Request.Context()); err != nil {
			status = "degraded"
			checks["database"] = models.HealthCheck{
				Status:  "unhealthy",
				Message: err.Error(),
			}
		} else {
			checks["database"] = models.HealthCheck{
				Status:  "healthy",
				Latency: time.Since(dbStart).String(),
			}
		}

		listStart := time.Now()
		if _, err := services.AllowlistRepository().Count(c.Request.Context()); err != nil {
			status = "degraded"
			checks["allowlist"] = models.HealthCheck{
				Status:  "unhealthy",
				Message: err.Error(),
			}
		} else {
			checks["allowlist"] = models.HealthCheck{
				Status:  "healthy",
				Latency: time.Since(listStart).String(),
			}
		}

		code := http.StatusOK
		if status != "healthy" {
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, models.HealthCheckResponse{
			Status:    status,
			Timestamp: time.Now().Unix(),
			Version:   "1.0.0",
			Uptime:    int64(time.Since(startTime).Seconds()),
			Checks:    checks,
		})
	}
}

// GetSystemStats returns detailed system statistics (Admin only)
func GetSystemStats(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get memory stats
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		stats := map[string]interface{}{
			"server": map[string]interface{}{
				"uptime":       time.Since(startTime).Seconds(),
				"goroutines":   runtime.NumGoroutine(),
				"memory_alloc": bToMb(m.Alloc),
				"memory_total": bToMb(m.TotalAlloc),
				"memory_sys":   bToMb(m.Sys),
				"gc_runs":      m.NumGC,
			},
			"gate":      services.GetStats(),
			"timestamp": time.Now().Unix(),
		}

		c.JSON(http.StatusOK, types.SuccessResponse{
			Success: true,
			Data:    stats,
		})
	}
}
