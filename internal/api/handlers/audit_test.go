package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"session-gate/internal/api/models"
	"session-gate/internal/database"
)

func seedAuditLogs(t *testing.T, services *testServices) {
	t.Helper()

	logs := []*database.AuditLog{
		{Action: "session_minted", Email: "", Details: "Minted session token routed to app", IPAddress: "10.0.0.1"},
		{Action: "allowlist_add", Email: "a@x.com", Details: "Added via admin API", IPAddress: "10.0.0.2"},
		{Action: "allowlist_add", Email: "b@x.com", Details: "Added via admin API", IPAddress: "10.0.0.2"},
		{Action: "allowlist_remove", Email: "a@x.com", Details: "Removed via admin API", IPAddress: "10.0.0.2"},
	}
	for _, log := range logs {
		require.NoError(t, services.audit.InsertAuditLog(context.Background(), log))
	}
}

// TestGetAuditLogs tests the filtered audit log listing
func TestGetAuditLogs(t *testing.T) {
	services := newTestServices(t)
	router := newAdminRouter(services)
	seedAuditLogs(t, services)

	type logsPayload struct {
		Logs   []models.AuditLogResponse `json:"logs"`
		Limit  int                       `json:"limit"`
		Offset int                       `json:"offset"`
		Count  int                       `json:"count"`
	}

	query := func(t *testing.T, path string) logsPayload {
		t.Helper()
		w := adminDo(t, router, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool        `json:"success"`
			Data    logsPayload `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		return resp.Data
	}

	t.Run("Unfiltered", func(t *testing.T) {
		data := query(t, "/admin/audit/logs")
		assert.Equal(t, 4, data.Count)
		assert.Len(t, data.Logs, 4)
		assert.Equal(t, 50, data.Limit)
	})

	t.Run("FilteredByAction", func(t *testing.T) {
		data := query(t, "/admin/audit/logs?action=allowlist_add")
		require.Equal(t, 2, data.Count)
		for _, log := range data.Logs {
			assert.Equal(t, "allowlist_add", log.Action)
		}
	})

	t.Run("FilteredByEmail", func(t *testing.T) {
		data := query(t, "/admin/audit/logs?email=a@x.com")
		require.Equal(t, 2, data.Count)
		for _, log := range data.Logs {
			assert.Equal(t, "a@x.com", log.Email)
		}
	})

	t.Run("Paginated", func(t *testing.T) {
		data := query(t, "/admin/audit/logs?limit=3")
		assert.Equal(t, 3, data.Count)
		assert.Equal(t, 3, data.Limit)

		rest := query(t, "/admin/audit/logs?limit=3&offset=3")
		assert.Equal(t, 1, rest.Count)
	})

	t.Run("EntryFields", func(t *testing.T) {
		data := query(t, "/admin/audit/logs?action=session_minted")
		require.Equal(t, 1, data.Count)

		entry := data.Logs[0]
		assert.NotZero(t, entry.ID)
		assert.Equal(t, "Minted session token routed to app", entry.Details)
		assert.Equal(t, "10.0.0.1", entry.IPAddress)
		assert.NotZero(t, entry.Timestamp)
	})
}

// TestGetRecentAuditLogs tests the recent-activity view
func TestGetRecentAuditLogs(t *testing.T) {
	services := newTestServices(t)
	router := newAdminRouter(services)
	seedAuditLogs(t, services)

	fetch := func(t *testing.T, path string) []models.AuditLogResponse {
		t.Helper()
		w := adminDo(t, router, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool                      `json:"success"`
			Data    []models.AuditLogResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		return resp.Data
	}

	t.Run("DefaultLimit", func(t *testing.T) {
		logs := fetch(t, "/admin/audit/recent")
		assert.Len(t, logs, 4)
	})

	t.Run("CappedLimit", func(t *testing.T) {
		logs := fetch(t, "/admin/audit/recent?limit=2")
		assert.Len(t, logs, 2)
	})
}
