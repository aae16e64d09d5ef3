package models

// AllowlistAddRequest represents an allowlist addition request
type AllowlistAddRequest struct {
	Email   string `json:"email" binding:"required,email" example:"user@example.com"`
	Details string `json:"details,omitempty" example:"Beta cohort 3"`
}
