package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"session-gate/internal/api/interfaces"
	"session-gate/internal/api/models"
)

// GetAuditLogs retrieves audit logs with filtering and pagination (Admin only)
func GetAuditLogs(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Parse query parameters
		limit := 50 // default limit
		offset := 0
		action := c.Query("action")
		email := c.Query("email")

		// Parse limit and offset
		if limitStr := c.Query("limit"); limitStr != "" {
			if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
				limit = l
			}
		}
		if offsetStr := c.Query("offset"); offsetStr != "" {
			if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
				offset = o
			}
		}

		// Get audit logs
		logs, err := services.AuditLogRepository().GetAuditLogs(c.Request.Context(), action, email, limit, offset)
		if err != nil {
			services.GetLogger().Error("Error getting audit logs: %v", err)
			respondError(c, models.NewAPIError(models.ErrCodeInternalError,
				"Failed to retrieve audit logs", http.StatusInternalServerError))
			return
		}

		data := make([]models.AuditLogResponse, 0, len(logs))
		for _, log := range logs {
			data = append(data, models.AuditLogResponse{
				ID:        log.ID,
				Action:    log.Action,
				Email:     log.Email,
				Details:   log.Details,
				IPAddress: log.IPAddress,
				Timestamp: log.CreatedAt.Unix(),
			})
		}

		c.JSON(http.StatusOK, models.BaseResponse{
			Success: true,
			Data: map[string]interface{}{
				"logs":   data,
				"limit":  limit,
				"offset": offset,
				"count":  len(data),
			},
			Timestamp: time.Now().Unix(),
			RequestID: c.GetString("request_id"),
		})
	}
}

// GetRecentAuditLogs returns the most recent audit activity (Admin only)
func GetRecentAuditLogs(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 10
		if limitStr := c.Query("limit"); limitStr != "" {
			if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
				limit = l
			}
		}

		logs, err := services.AuditLogRepository().GetRecentAuditLogs(c.Request.Context(), limit)
		if err != nil {
			services.GetLogger().Error("Error getting recent audit logs: %v", err)
			respondError(c, models.NewAPIError(models.ErrCodeInternalError,
				"Failed to retrieve audit logs", http.StatusInternalServerError))
			return
		}

		data := make([]models.AuditLogResponse, 0, len(logs))
		for _, log := range logs {
			data = append(data, models.AuditLogResponse{
				ID:        log.ID,
				Action:    log.Action,
				Email:     log.Email,
				Details:   log.Details,
				IPAddress: log.IPAddress,
				Timestamp: log.CreatedAt.Unix(),
			})
		}

		c.JSON(http.StatusOK, models.BaseResponse{
			Success:   true,
			Data:      data,
			Timestamp: time.Now().Unix(),
			RequestID: c.GetString("request_id"),
		})
	}
}
