package api

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
// Role is optional and defaults to USER.
type RegisterRequest struct {
	Email    string `json:"email"          validate:"required,email"`
	Password string `json:"password"       validate:"required,min=6,max=72"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=USER ADMIN"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// RefreshRequest defines the payload for the token refresh endpoint.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CreateTaskRequest defines the payload for task creation.
// Empty status and priority default to TODO and MEDIUM.
type CreateTaskRequest struct {
	Title       string `json:"title"                 validate:"required"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"      validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority    string `json:"priority,omitempty"    validate:"omitempty,oneof=LOW MEDIUM HIGH"`
}

// UpdateTaskRequest defines the payload for task updates. All fields are
// optional; absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"       validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"      validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority    *string `json:"priority,omitempty"    validate:"omitempty,oneof=LOW MEDIUM HIGH"`
}
