package interfaces

import (
	"context"
	"database/sql"

	"session-gate/internal/database/repositories"
	"session-gate/internal/routing"
	"session-gate/pkg/config"
	"session-gate/pkg/logger"
)

// Services defines the interface for API services
type Services interface {
	GetLogger() *logger.Logger
	GetConfig() *config.Config
	GetDB() *sql.DB
	Gate() *routing.Engine
	AllowlistRepository() *repositories.AllowlistRepository
	AuditLogRepository() *repositories.AuditLogRepository
	InvalidateAllowlistEntry(ctx context.Context, email string)
	IsHealthy() bool
	GetStats() map[string]interface{}
}
