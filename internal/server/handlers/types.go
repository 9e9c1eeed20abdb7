package handlers

// WeatherRequest represents the weather API request
type WeatherRequest struct {
	City string `form:"city" json:"city" validate:"required,city" binding:"required"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp,omitempty"`
}
