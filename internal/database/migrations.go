package database

import (
	"database/sql"
	"fmt"
)

// RunMigrations executes database migrations
func RunMigrations(db *sql.DB, dbType string) error {
	migrations := []string{
		createAllowlistTable,
		auditLogsTable(dbType),
		createAuditActionIndex,
		createAuditCreatedAtIndex,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %v", i+1, err)
		}
	}

	return nil
}

// Database schema definitions
const createAllowlistTable = `
CREATE TABLE IF NOT EXISTS email_allowlist (
    email VARCHAR(255) PRIMARY KEY,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

// auditLogsTable returns the audit table DDL for the configured driver.
// Postgres and SQLite disagree on auto-increment key syntax.
func auditLogsTable(dbType string) string {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if dbType == "postgres" {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}

	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS audit_logs (
    id %s,
    action VARCHAR(100) NOT NULL,
    email VARCHAR(255),
    details TEXT,
    ip_address VARCHAR(45),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`, idColumn)
}

const createAuditActionIndex = `
CREATE INDEX IF NOT EXISTS idx_audit_logs_action ON audit_logs(action);`

const createAuditCreatedAtIndex = `
CREATE INDEX IF NOT EXISTS idx_audit_logs_created_at ON audit_logs(created_at);`
