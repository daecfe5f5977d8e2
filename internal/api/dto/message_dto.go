package dto

// SuccessResponse acknowledges a mutation.
type SuccessResponse struct {
	Success      string `json:"success"`
	DepartmentID string `json:"department_id,omitempty"`
	EmployeeID   string `json:"employee_id,omitempty"`
}

// ErrorResponse carries a single human readable message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// TokenResponse returns an issued admin token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   string `json:"expires_at"`
}
