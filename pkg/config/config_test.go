package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfigFile drops a YAML config into a temp dir and returns its path
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write config file")
	return path
}

// TestLoadConfigDefaults tests that a missing config file falls back to defaults
func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_URL", "https://app.example.com")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err, "A missing config file should not be fatal")

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "7860", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "./gate.db", cfg.Database.Path)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Security.JWTExpiration)
	assert.Equal(t, 2*time.Second, cfg.Allowlist.LookupTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Allowlist.CacheTTL)
	assert.Equal(t, []string{"openid", "email"}, cfg.Routes.Login.Scopes)
	assert.Equal(t, 100, cfg.API.RateLimit)
	assert.Equal(t, []string{"*"}, cfg.API.CORS.AllowedOrigins)

	assert.Equal(t, "test-secret", cfg.Security.JWTSecret)
	assert.Equal(t, "https://app.example.com", cfg.Routes.AppURL)
}

// TestLoadConfigFromFile tests reading values out of a YAML file
func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "9999"
  mode: release
security:
  jwt_secret: file-secret
routes:
  app_url: https://app.example.com
logging:
  level: warn
`)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_URL", "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "file-secret", cfg.Security.JWTSecret)
	assert.Equal(t, "https://app.example.com", cfg.Routes.AppURL)
	assert.Equal(t, "warn", cfg.Logging.Level)

	assert.Equal(t, "sqlite", cfg.Database.Type, "Unset keys keep their defaults")
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}

// TestLoadConfigEnvOverrides tests the environment variables that beat the file
func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
security:
  jwt_secret: file-secret
routes:
  app_url: https://file.example.com
`)

	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("APP_URL", "https://env.example.com")
	t.Setenv("DATABASE_URL", "postgres://gate:pw@db:5432/gate")
	t.Setenv("ADMIN_API_KEY", "env-admin-key")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Security.JWTSecret, "JWT_SECRET overrides the file")
	assert.Equal(t, "https://env.example.com", cfg.Routes.AppURL)
	assert.Equal(t, "postgres://gate:pw@db:5432/gate", cfg.Database.URL)
	assert.Equal(t, "env-admin-key", cfg.Security.AdminAPIKey)
}

// TestLoadConfigPrefixedEnv tests SESSIONGATE_ prefixed variable lookup
func TestLoadConfigPrefixedEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_URL", "https://app.example.com")
	t.Setenv("SESSIONGATE_SERVER_MODE", "release")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Server.Mode, "Prefixed variables override defaults")
}

// TestLoadConfigValidation tests rejection of incomplete configuration
func TestLoadConfigValidation(t *testing.T) {
	t.Run("MissingJWTSecret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		t.Setenv("APP_URL", "https://app.example.com")

		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT secret")
	})

	t.Run("MissingAppURL", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("APP_URL", "")

		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "application URL")
	})

	t.Run("PostgresWithoutConnectionInfo", func(t *testing.T) {
		path := writeConfigFile(t, `
database:
  type: postgres
security:
  jwt_secret: test-secret
routes:
  app_url: https://app.example.com
`)
		t.Setenv("JWT_SECRET", "")
		t.Setenv("APP_URL", "")
		t.Setenv("DATABASE_URL", "")

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres")
	})
}

// TestGetDatabaseDSN tests connection string assembly per driver
func TestGetDatabaseDSN(t *testing.T) {
	tests := []struct {
		name     string
		database DatabaseConfig
		expected string
	}{
		{
			name: "ExplicitURLWins",
			database: DatabaseConfig{
				Type: "postgres",
				URL:  "postgres://gate:pw@db:5432/gate",
				Host: "ignored",
			},
			expected: "postgres://gate:pw@db:5432/gate",
		},
		{
			name: "PostgresFromFields",
			database: DatabaseConfig{
				Type:     "postgres",
				Host:     "db.internal",
				Port:     5432,
				User:     "gate",
				Password: "pw",
				DBName:   "sessions",
				SSLMode:  "require",
			},
			expected: "host=db.internal port=5432 user=gate password=pw dbname=sessions sslmode=require",
		},
		{
			name: "PostgresDefaultSSLMode",
			database: DatabaseConfig{
				Type:   "postgres",
				Host:   "db.internal",
				Port:   5432,
				User:   "gate",
				DBName: "sessions",
			},
			expected: "host=db.internal port=5432 user=gate password= dbname=sessions sslmode=disable",
		},
		{
			name:     "SQLitePath",
			database: DatabaseConfig{Type: "sqlite", Path: "./gate.db"},
			expected: "./gate.db",
		},
		{
			name:     "UnknownType",
			database: DatabaseConfig{Type: "oracle"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Database: tt.database}
			assert.Equal(t, tt.expected, cfg.GetDatabaseDSN())
		})
	}
}

// TestSanitizeForLogging tests that secrets never reach the logs
func TestSanitizeForLogging(t *testing.T) {
	cfg := &Config{}
	cfg.Security.JWTSecret = "jwt-secret"
	cfg.Security.AdminAPIKey = "admin-key"
	cfg.Database.Password = "db-password"
	cfg.Database.URL = "postgres://gate:pw@db/gate"
	cfg.Redis.Password = "redis-password"
	cfg.Server.Port = "7860"

	sanitized := cfg.SanitizeForLogging()

	assert.Equal(t, "[REDACTED]", sanitized.Security.JWTSecret)
	assert.Equal(t, "[REDACTED]", sanitized.Security.AdminAPIKey)
	assert.Equal(t, "[REDACTED]", sanitized.Database.Password)
	assert.Equal(t, "[REDACTED]", sanitized.Database.URL)
	assert.Equal(t, "[REDACTED]", sanitized.Redis.Password)
	assert.Equal(t, "7860", sanitized.Server.Port, "Non-secret fields pass through")

	assert.Equal(t, "jwt-secret", cfg.Security.JWTSecret, "The original config is untouched")
}

// TestGetServerAddress tests host and port assembly
func TestGetServerAddress(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = "7860"
	assert.Equal(t, "127.0.0.1:7860", cfg.GetServerAddress())
}

// TestLoadConfigFromEnv tests the pure-environment loading path
func TestLoadConfigFromEnv(t *testing.T) {
	t.Run("FullyConfigured", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "env-secret")
		t.Setenv("APP_URL", "https://app.example.com")
		t.Setenv("SERVER_PORT", "8080")
		t.Setenv("REDIS_ENABLED", "true")
		t.Setenv("REDIS_URL", "redis.internal:6379")
		t.Setenv("JWT_EXPIRATION", "1h")

		cfg, err := LoadConfigFromEnv()
		require.NoError(t, err)

		assert.Equal(t, "env-secret", cfg.Security.JWTSecret)
		assert.Equal(t, "https://app.example.com", cfg.Routes.AppURL)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
		assert.Equal(t, time.Hour, cfg.Security.JWTExpiration)
		assert.Equal(t, "sqlite", cfg.Database.Type, "Defaults fill the gaps")
	})

	t.Run("MissingSecret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		t.Setenv("APP_URL", "https://app.example.com")

		_, err := LoadConfigFromEnv()
		require.Error(t, err)
	})
}
