package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"session-gate/internal/api/interfaces"
	"session-gate/internal/api/models"
)

func respondError(c *gin.Context, apiErr *models.APIError) {
	c.JSON(apiErr.StatusCode, models.BaseResponse{
		Success: false,
		Error: &models.ErrorInfo{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		},
		Timestamp: time.Now().Unix(),
		RequestID: c.GetString("request_id"),
	})
}

// ListAllowlist returns a page of allowlist entries (Admin only)
func ListAllowlist(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Parse limit and offset
		limit := 50
		offset := 0
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

		entries, err := services.AllowlistRepository().List(c.Request.Context(), limit, offset)
		if err != nil {
			services.GetLogger().Error("Error listing allowlist: %v", err)
			respondError(c, models.NewAPIError(models.ErrCodeInternalError,
				"Failed to list allowlist entries", http.StatusInternalServerError))
			return
		}

		total, err := services.AllowlistRepository().Count(c.Request.Context())
		if err != nil {
			services.GetLogger().Error("Error counting allowlist entries: %v", err)
			total = int64(len(entries))
		}

		data := make([]models.AllowlistEntryResponse, 0, len(entries))
		for _, entry := range entries {
			data = append(data, models.AllowlistEntryResponse{
				Email:     entry.Email,
				CreatedAt: entry.CreatedAt.Unix(),
			})
		}

		c.JSON(http.StatusOK, models.PaginatedResponse{
			Data: data,
			Pagination: models.PaginationInfo{
				Limit:        limit,
				Offset:       offset,
				TotalRecords: total,
				HasNext:      int64(offset+len(data)) < total,
			},
		})
	}
}

// AddAllowlistEntry adds an email to the allowlist (Admin only)
func AddAllowlistEntry(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AllowlistAddRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.NewAPIError(models.ErrCodeInvalidRequest,
				"A valid email is required", http.StatusBadRequest).WithDetails(err.Error()))
			return
		}

		added, err := services.AllowlistRepository().Add(c.Request.Context(), req.Email)
		if err != nil {
			services.GetLogger().Error("Error adding allowlist entry: %v", err)
			respondError(c, models.NewAPIError(models.ErrCodeInternalError,
				"Failed to add allowlist entry", http.StatusInternalServerError))
			return
		}
		if !added {
			respondError(c, models.NewAPIError(models.ErrCodeEmailListed,
				"Email is already on the allowlist", http.StatusConflict))
			return
		}

		services.InvalidateAllowlistEntry(c.Request.Context(), req.Email)

		clientIP := getClientIP(c)
		details := "Added via admin API"
		if req.Details != "" {
			details = req.Details
		}
		createAuditLog(c.Request.Context(), services, "allowlist_add", req.Email, details, clientIP)

		services.GetLogger().Info("Allowlist entry added", "email", req.Email, "ip", clientIP)

		c.JSON(http.StatusCreated, models.BaseResponse{
			Success: true,
			Message: "Email added to allowlist",
			Data: models.AllowlistEntryResponse{
				Email:     req.Email,
				CreatedAt: time.Now().Unix(),
			},
			Timestamp: time.Now().Unix(),
			RequestID: c.GetString("request_id"),
		})
	}
}

// RemoveAllowlistEntry removes an email from the allowlist (Admin only)
func RemoveAllowlistEntry(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Param("email")
		if email == "" {
			respondError(c, models.NewAPIError(models.ErrCodeInvalidRequest,
				"Email parameter is required", http.StatusBadRequest))
			return
		}

		removed, err := services.AllowlistRepository().Remove(c.Request.Context(), email)
		if err != nil {
			services.GetLogger().Error("Error removing allowlist entry: %v", err)
			respondError(c, models.NewAPIError(models.ErrCodeInternalError,
				"Failed to remove allowlist entry", http.StatusInternalServerError))
			return
		}
		if !removed {
			respondError(c, models.NewAPIError(models.ErrCodeEmailNotListed,
				"Email is not on the allowlist", http.StatusNotFound))
			return
		}

		services.InvalidateAllowlistEntry(c.Request.Context(), email)

		clientIP := getClientIP(c)
		createAuditLog(c.Request.Context(), services, "allowlist_remove", email,
			"Removed via admin API", clientIP)

		services.GetLogger().Info("Allowlist entry removed", "email", email, "ip", clientIP)

		c.JSON(http.StatusOK, models.BaseResponse{
			Success:   true,
			Message:   "Email removed from allowlist",
			Timestamp: time.Now().Unix(),
			RequestID: c.GetString("request_id"),
		})
	}
}
