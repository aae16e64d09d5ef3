package middlewares

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"session-gate/internal/api/models"
	"session-gate/internal/database/repositories"
	"session-gate/internal/routing"
	"session-gate/pkg/config"
	"session-gate/pkg/logger"
)

// stubServices provides just enough of the service container for
// middleware tests
type stubServices struct {
	cfg *config.Config
	log *logger.Logger
}

func (s *stubServices) GetLogger() *logger.Logger { return s.log }
func (s *stubServices) GetConfig() *config.Config { return s.cfg }
func (s *stubServices) GetDB() *sql.DB            { return nil }
func (s *stubServices) Gate() *routing.Engine     { return nil }
func (s *stubServices) AllowlistRepository() *repositories.AllowlistRepository {
	return nil
}
func (s *stubServices) AuditLogRepository() *repositories.AuditLogRepository {
	return nil
}
func (s *stubServices) InvalidateAllowlistEntry(ctx context.Context, email string) {}
func (s *stubServices) IsHealthy() bool                                            { return true }
func (s *stubServices) GetStats() map[string]interface{}                           { return nil }

func newAdminTestRouter(adminKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Security.AdminAPIKey = adminKey

	services := &stubServices{
		cfg: cfg,
		log: logger.NewLogger(config.LoggingConfig{Level: "error"}),
	}

	router := gin.New()
	router.GET("/admin/ping", AdminKeyRequired(services), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return router
}

func adminRequest(t *testing.T, router *gin.Engine, header, value string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if header != "" {
		req.Header.Set(header, value)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp models.BaseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Failed to decode error response")
	require.NotNil(t, resp.Error, "An error response should carry error details")
	assert.False(t, resp.Success)
	return resp.Error.Code
}

// TestAdminKeyRequired tests the admin API key gate
func TestAdminKeyRequired(t *testing.T) {
	const adminKey = "test-admin-api-key"

	t.Run("NoConfiguredKey", func(t *testing.T) {
		router := newAdminTestRouter("")

		w := adminRequest(t, router, "X-API-Key", adminKey)
		assert.Equal(t, http.StatusForbidden, w.Code, "Without a configured key the admin API is off")
		assert.Equal(t, models.ErrCodeAdminDisabled, decodeErrorCode(t, w))
	})

	t.Run("MissingKey", func(t *testing.T) {
		router := newAdminTestRouter(adminKey)

		w := adminRequest(t, router, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, models.ErrCodeUnauthorized, decodeErrorCode(t, w))
	})

	t.Run("WrongKey", func(t *testing.T) {
		router := newAdminTestRouter(adminKey)

		w := adminRequest(t, router, "X-API-Key", "not-the-key")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, models.ErrCodeInvalidAPIKey, decodeErrorCode(t, w))
	})

	t.Run("HeaderKey", func(t *testing.T) {
		router := newAdminTestRouter(adminKey)

		w := adminRequest(t, router, "X-API-Key", adminKey)
		assert.Equal(t, http.StatusOK, w.Code, "The X-API-Key header should authenticate")
	})

	t.Run("BearerKey", func(t *testing.T) {
		router := newAdminTestRouter(adminKey)

		w := adminRequest(t, router, "Authorization", "Bearer "+adminKey)
		assert.Equal(t, http.StatusOK, w.Code, "A bearer Authorization header should authenticate")
	})

	t.Run("MalformedAuthorization", func(t *testing.T) {
		router := newAdminTestRouter(adminKey)

		w := adminRequest(t, router, "Authorization", "Basic "+adminKey)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "Only the bearer scheme is accepted")
	})
}
