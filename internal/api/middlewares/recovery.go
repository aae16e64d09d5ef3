package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"session-gate/internal/api/models"
)

// Recovery middleware recovers from panics
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		details := ""
		switch v := recovered.(type) {
		case string:
			details = v
		case error:
			details = v.Error()
		}

		c.JSON(http.StatusInternalServerError, models.BaseResponse{
			Success: false,
			Error: &models.ErrorInfo{
				Code:    models.ErrCodeInternalError,
				Message: "Internal server error",
				Details: details,
			},
			Timestamp: time.Now().Unix(),
			RequestID: c.GetString("request_id"),
		})
		c.Abort()
	})
}
