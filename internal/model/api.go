package model

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}

// MessageResponse is returned by GET /api/test.
type MessageResponse struct {
	Message string `json:"message"`
}
