package api

import (
	"session-gate/internal/api/handlers"
	"session-gate/internal/api/interfaces"
	"session-gate/internal/api/middlewares"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes with proper middleware
func SetupRoutes(router *gin.Engine, services interfaces.Services) {
	cfg := services.GetConfig()

	// Global middleware
	router.Use(middlewares.Recovery())
	router.Use(middlewares.CORS(&cfg.API.CORS))
	router.Use(middlewares.Security())
	router.Use(middlewares.RequestLogging(services.GetLogger()))
	router.Use(middlewares.RateLimit(cfg.API.RateLimit, cfg.API.BurstLimit))

	// Health check (no auth required)
	router.GET("/health", handlers.HealthCheck(services))
	router.GET("/ping", handlers.Ping)

	// The gate endpoint keeps its historical top-level path
	router.POST("/check_status", handlers.CheckStatus(services))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		setupAdminRoutes(v1, services)
	}

	// Web interface routes
	setupWebRoutes(router, services)

	// Static file serving
	router.Static("/static", "./web/static")
	router.LoadHTMLGlob("web/templates/*")
}

// setupAdminRoutes configures admin-only routes
func setupAdminRoutes(rg *gin.RouterGroup, services interfaces.Services) {
	admin := rg.Group("/admin")
	admin.Use(middlewares.AdminKeyRequired(services))
	{
		// Allowlist management
		allowlist := admin.Group("/allowlist")
		{
			allowlist.GET("/", handlers.ListAllowlist(services))
			allowlist.POST("/", handlers.AddAllowlistEntry(services))
			allowlist.DELETE("/:email", handlers.RemoveAllowlistEntry(services))
			// allowlist.POST("/import", handlers.ImportAllowlist(services))
		}

		// Audit and reporting
		audit := admin.Group("/audit")
		{
			audit.GET("/logs", handlers.GetAuditLogs(services))
			audit.GET("/recent", handlers.GetRecentAuditLogs(services))
			// audit.GET("/export", handlers.ExportAuditLogs(services))
		}

		// System management
		system := admin.Group("/system")
		{
			system.GET("/health", handlers.DetailedHealth(services))
			system.GET("/stats", handlers.GetSystemStats(services))
		}
	}
}

// setupWebRoutes configures the session pages
func setupWebRoutes(router *gin.Engine, services interfaces.Services) {
	router.GET("/", handlers.GatePage(services))
	router.GET("/waitlist", handlers.WaitlistPage(services))
	router.GET("/login", handlers.LoginRedirect(services))
}
