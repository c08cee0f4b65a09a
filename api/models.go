package api

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetTokenRequest is the body of POST /auth/reset_password.
type ResetTokenRequest struct {
	Email string `json:"email"`
}

// UpdatePasswordRequest is the body of PUT /auth/reset_password.
type UpdatePasswordRequest struct {
	Email       string `json:"email"`
	ResetToken  string `json:"reset_token"`
	NewPassword string `json:"new_password"`
}

// UserResponse describes a user without any credential material.
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// ResetTokenResponse is the body returned by POST /auth/reset_password.
type ResetTokenResponse struct {
	Email      string `json:"email"`
	ResetToken string `json:"reset_token"`
}

// MessageResponse is a generic confirmation payload.
type MessageResponse struct {
	Email   string `json:"email,omitempty"`
	Message string `json:"message"`
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
