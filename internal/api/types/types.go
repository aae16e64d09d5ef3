package types

// CheckStatusRequest carries the session token presented by the gate page.
// Token may be empty or missing entirely; an absent token is a valid input
// that routes to login.
type CheckStatusRequest struct {
	Token string `json:"token"`
}

// CheckStatusResponse tells the gate page where to send the visitor. URL is
// set when the destination is the application, Route when it is one of the
// gate's own pages. Token echoes a freshly minted session token, if any.
type CheckStatusResponse struct {
	URL   string `json:"url,omitempty"`
	Route string `json:"route,omitempty"`
	Token string `json:"token,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}
