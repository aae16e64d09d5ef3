package middlewares

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"session-gate/internal/api/interfaces"
	"session-gate/internal/api/models"
)

// AdminKeyRequired middleware guards the admin API with the configured key.
// An empty configured key disables the admin API entirely.
func AdminKeyRequired(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		configured := services.GetConfig().Security.AdminAPIKey
		if configured == "" {
			c.JSON(http.StatusForbidden, models.BaseResponse{
				Success: false,
				Error: &models.ErrorInfo{
					Code:    models.ErrCodeAdminDisabled,
					Message: "Admin API is not enabled",
				},
				Timestamp: time.Now().Unix(),
				RequestID: c.GetString("request_id"),
			})
			c.Abort()
			return
		}

		key := extractAPIKey(c)
		if key == "" {
			c.JSON(http.StatusUnauthorized, models.BaseResponse{
				Success: false,
				Error: &models.ErrorInfo{
					Code:    models.ErrCodeUnauthorized,
					Message: "Admin API key required",
				},
				Timestamp: time.Now().Unix(),
				RequestID: c.GetString("request_id"),
			})
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(key), []byte(configured)) != 1 {
			services.GetLogger().SecurityLogger("admin_auth_failed", c.ClientIP(),
				"invalid admin API key on "+c.Request.URL.Path)
			c.JSON(http.StatusUnauthorized, models.BaseResponse{
				Success: false,
				Error: &models.ErrorInfo{
					Code:    models.ErrCodeInvalidAPIKey,
					Message: "Invalid admin API key",
				},
				Timestamp: time.Now().Unix(),
				RequestID: c.GetString("request_id"),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractAPIKey reads the admin key from the X-API-Key header,
// falling back to a bearer Authorization header
func extractAPIKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}
