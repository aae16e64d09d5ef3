package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"session-gate/internal/api/interfaces"
	"session-gate/internal/api/types"
	"session-gate/internal/database"
	"session-gate/internal/routing"
)

// sessionCookieName is the cookie the gate page keeps the session token under.
const sessionCookieName = "auth_token"

// Helper functions
func getClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}

func createAuditLog(ctx context.Context, services interfaces.Services, action, email, details, clientIP string) {
	// Create audit log entry
	auditLog := &database.AuditLog{
		Action:    action,
		Email:     email,
		Details:   details,
		IPAddress: clientIP,
		CreatedAt: time.Now(),
	}

	// Insert audit log
	err := services.AuditLogRepository().InsertAuditLog(ctx, auditLog)
	if err != nil {
		services.GetLogger().Error("Failed to create audit log: %v", err)
	}
}

// CheckStatus resolves which zone the caller's session belongs to and answers
// with the matching destination. When the session had to be re-established
// from the allowlist, the freshly minted token is returned in the body and
// set as a cookie.
func CheckStatus(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.CheckStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			services.GetLogger().Error("Invalid check_status request: %v", err)
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Error:   "invalid_request",
				Code:    400,
				Message: "Invalid request format: " + err.Error(),
			})
			return
		}

		outcome, err := services.Gate().Decide(c.Request.Context(), req.Token)
		if err != nil {
			services.GetLogger().Error("Session routing failed: %v", err)
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Error:   "token_mint_failed",
				Code:    500,
				Message: "Failed to issue a session token",
			})
			return
		}

		resp := types.CheckStatusResponse{Token: outcome.Token}
		switch outcome.Zone {
		case routing.ZoneApp:
			resp.URL = services.GetConfig().Routes.AppURL
		case routing.ZoneWaitlist:
			resp.Route = routing.WaitlistRoute
		default:
			resp.Route = routing.LoginRoute
		}

		// A newly minted token also travels as a cookie so plain page loads
		// keep the session without script support. Trusted tokens are reused
		// as-is and never re-set.
		if outcome.Token != "" {
			clientIP := getClientIP(c)
			createAuditLog(c.Request.Context(), services, "session_minted", "",
				"Minted session token routed to "+outcome.Zone.String(), clientIP)

			maxAge := int(services.GetConfig().Security.JWTExpiration.Seconds())
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(sessionCookieName, outcome.Token, maxAge, "/", "", true, true)
		}

		c.JSON(http.StatusOK, resp)
	}
}
