package models

// BaseResponse represents the base API response structure
type BaseResponse struct {
	Success   bool        `json:"success" example:"true"`
	Message   string      `json:"message,omitempty" example:"Operation completed successfully"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	Timestamp int64       `json:"timestamp" example:"1640995200"`
	RequestID string      `json:"request_id,omitempty" example:"req_123456"`
}

// ErrorInfo represents error information
type ErrorInfo struct {
	Code    string `json:"code" example:"INVALID_REQUEST"`
	Message string `json:"message" example:"Invalid request parameters"`
	Details string `json:"details,omitempty" example:"Field 'email' is required"`
}

// AllowlistEntryResponse represents an allowlist entry
type AllowlistEntryResponse struct {
	Email     string `json:"email" example:"user@example.com"`
	CreatedAt int64  `json:"created_at" example:"1640995200"`
}

// AuditLogResponse represents an audit log entry
type AuditLogResponse struct {
	ID        int64  `json:"id" example:"12345"`
	Action    string `json:"action" example:"allowlist_add"`
	Email     string `json:"email" example:"user@example.com"`
	Details   string `json:"details" example:"Added by admin API"`
	IPAddress string `json:"ip_address" example:"192.168.1.100"`
	Timestamp int64  `json:"timestamp" example:"1640995200"`
}

// PaginatedResponse represents paginated response
type PaginatedResponse struct {
	Data       interface{}    `json:"data"`
	Pagination PaginationInfo `json:"pagination"`
}

// PaginationInfo represents pagination information
type PaginationInfo struct {
	Limit        int   `json:"limit" example:"50"`
	Offset       int   `json:"offset" example:"0"`
	TotalRecords int64 `json:"total_records" example:"100"`
	HasNext      bool  `json:"has_next" example:"true"`
}

// HealthCheckResponse represents health check response
type HealthCheckResponse struct {
	Status    string                 `json:"status" example:"healthy"`
	Timestamp int64                  `json:"timestamp" example:"1640995200"`
	Version   string                 `json:"version" example:"1.0.0"`
	Uptime    int64                  `json:"uptime" example:"86400"`
	Checks    map[string]HealthCheck `json:"checks"`
}

// HealthCheck represents individual health check
type HealthCheck struct {
	Status  string `json:"status" example:"healthy"`
	Message string `json:"message,omitempty" example:"Service is running normally"`
	Latency string `json:"latency,omitempty" example:"5ms"`
}
