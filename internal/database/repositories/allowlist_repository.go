package repositories

import (
	"context"
	"database/sql"

	"session-gate/internal/database"
)

type AllowlistRepository struct {
	db *sql.DB
}

func NewAllowlistRepository(db *sql.DB) *AllowlistRepository {
	return &AllowlistRepository{db: db}
}

// Contains reports whether an email is present on the allowlist.
// Matching is exact; no case folding or trimming is applied.
func (r *AllowlistRepository) Contains(ctx context.Context, email string) (bool, error) {
	query := `SELECT 1 FROM email_allowlist WHERE email = $1`

	var one int
	err := r.db.QueryRowContext(ctx, query, email).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// Add inserts an email into the allowlist.
// Returns false when the email was already present.
func (r *AllowlistRepository) Add(ctx context.Context, email string) (bool, error) {
	query := `
        INSERT INTO email_allowlist (email)
        VALUES ($1)
        ON CONFLICT (email) DO NOTHING
    `
	result, err := r.db.ExecContext(ctx, query, email)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// Remove deletes an email from the allowlist.
// Returns false when the email was not present.
func (r *AllowlistRepository) Remove(ctx context.Context, email string) (bool, error) {
	query := `DELETE FROM email_allowlist WHERE email = $1`

	result, err := r.db.ExecContext(ctx, query, email)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// List retrieves allowlist entries ordered by email with pagination
func (r *AllowlistRepository) List(ctx context.Context, limit, offset int) ([]*database.AllowlistEntry, error) {
	query := `
        SELECT email, created_at
        FROM email_allowlist
        ORDER BY email
        LIMIT $1 OFFSET $2
    `

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*database.AllowlistEntry
	for rows.Next() {
		var entry database.AllowlistEntry
		err := rows.Scan(&entry.Email, &entry.CreatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}

// Count returns the number of allowlisted emails
func (r *AllowlistRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM email_allowlist`).Scan(&count)
	return count, err
}
