package api

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"

	"session-gate/internal/cache"
	"session-gate/internal/database/repositories"
	"session-gate/internal/routing"
	"session-gate/internal/token"
	"session-gate/pkg/config"
	"session-gate/pkg/logger"
)

// Services contains all the dependencies for API handlers
type Services struct {
	// Core dependencies
	DB     *sql.DB
	Logger *logger.Logger
	Config *config.Config

	// Session machinery
	codec *token.Codec
	gate  *routing.Engine

	// Allowlist source, optionally fronted by Redis
	redisClient    *redis.Client
	allowlistCache *cache.AllowlistCache

	// Repositories
	allowlistRepository *repositories.AllowlistRepository
	auditLogRepository  *repositories.AuditLogRepository

	// Revocation hooks - not wired until a denylist store exists
	// denylist DenylistInterface
}

// NewServices creates a new services container
func NewServices(db *sql.DB, logger *logger.Logger, config *config.Config) *Services {
	services := &Services{
		DB:     db,
		Logger: logger,
		Config: config,
	}

	// Initialize repositories
	services.allowlistRepository = repositories.NewAllowlistRepository(db)
	services.auditLogRepository = repositories.NewAuditLogRepository(db)

	// The routing engine consults the repository directly unless Redis
	// fronts it as a read-through cache
	var oracle routing.Allowlist = services.allowlistRepository
	if config.Redis.Enabled {
		services.redisClient = redis.NewClient(&redis.Options{
			Addr:         config.Redis.Addr,
			Password:     config.Redis.Password,
			DB:           config.Redis.DB,
			PoolSize:     config.Redis.PoolSize,
			DialTimeout:  config.Redis.DialTimeout,
			ReadTimeout:  config.Redis.ReadTimeout,
			WriteTimeout: config.Redis.WriteTimeout,
		})
		services.allowlistCache = cache.NewAllowlistCache(
			services.redisClient, oracle, config.Allowlist.CacheTTL, logger)
		oracle = services.allowlistCache
	}

	services.codec = token.NewCodec(config.Security.JWTSecret, config.Security.JWTExpiration)
	services.gate = routing.NewEngine(services.codec, oracle, logger, config.Allowlist.LookupTimeout)

	return services
}

// Start starts all background services
func (s *Services) Start() error {
	s.Logger.Info("Starting API services...")

	if s.redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.redisClient.Ping(ctx).Err(); err != nil {
			s.Logger.Warning("Redis is unreachable, allowlist lookups fall back to the database: %v", err)
		} else {
			s.Logger.Info("Redis allowlist cache connected - addr: %s", s.Config.Redis.Addr)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if count, err := s.allowlistRepository.Count(ctx); err == nil {
		s.Logger.Info("Allowlist ready - entries: %d", count)
	}

	s.Logger.Info("All API services started successfully")
	return nil
}

// Stop stops all background services
func (s *Services) Stop() {
	s.Logger.Info("Stopping API services...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.Logger.Error("Error closing Redis client: %v", err)
		}
	}

	s.Logger.Info("All API services stopped")
}

// Interface implementation methods
func (s *Services) GetLogger() *logger.Logger {
	return s.Logger
}

func (s *Services) GetConfig() *config.Config {
	return s.Config
}

func (s *Services) GetDB() *sql.DB {
	return s.DB
}

func (s *Services) Gate() *routing.Engine {
	return s.gate
}

func (s *Services) AllowlistRepository() *repositories.AllowlistRepository {
	return s.allowlistRepository
}

func (s *Services) AuditLogRepository() *repositories.AuditLogRepository {
	return s.auditLogRepository
}

// InvalidateAllowlistEntry drops a cached allowlist answer after an admin change
func (s *Services) InvalidateAllowlistEntry(ctx context.Context, email string) {
	if s.allowlistCache == nil {
		return
	}
	s.allowlistCache.Invalidate(ctx, email)
}

// IsHealthy checks if all critical services are healthy
func (s *Services) IsHealthy() bool {
	// Check database connection
	if err := s.DB.Ping(); err != nil {
		s.Logger.Error("Database health check failed: %v", err)
		return false
	}

	// Redis is optional for health; lookups degrade to the database
	if s.redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.redisClient.Ping(ctx).Err(); err != nil {
			s.Logger.Warning("Redis health check failed: %v", err)
		}
	}

	return true
}

// GetStats returns current service statistics
func (s *Services) GetStats() map[string]interface{} {
	stats := map[string]interface{}{
		"database": map[string]interface{}{
			"type":      s.Config.Database.Type,
			"connected": s.DB.Ping() == nil,
		},
		"cache": map[string]interface{}{
			"enabled": s.allowlistCache != nil,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if count, err := s.allowlistRepository.Count(ctx); err == nil {
		stats["allowlist_entries"] = count
	}

	return stats
}
