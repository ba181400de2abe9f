package models

// RegisterRequest holds the data for creating a new user.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents credentials provided by the client.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminRegisterRequest additionally carries the unique admin identifier.
type AdminRegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	AdminID  string `json:"admin_id"`
}

// ForgotPasswordRequest starts the reset flow for the given account.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest carries the replacement password; the token
// itself travels in the URL path.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// MessageResponse is the plain success shape.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse is returned upon successful user authentication.
type LoginResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

// AdminRegisterResponse echoes the numeric id of the new admin.
type AdminRegisterResponse struct {
	Message string `json:"message"`
	AdminID int64  `json:"admin_id"`
}

// AdminLoginResponse is returned upon successful admin authentication.
type AdminLoginResponse struct {
	Message  string `json:"message"`
	AdminID  int64  `json:"admin_id"`
	Username string `json:"username"`
}

// ErrorResponse is a simple error shape for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
