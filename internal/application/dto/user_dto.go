package dto

import "time"

// RegisterRequest entrada para registro (auth).
type RegisterRequest struct {
	FullName string `json:"full_name" validate:"omitempty,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=Employee Manager Admin"` // solo alta administrativa
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// VerifyResponse usuario asociado al token vigente.
type VerifyResponse struct {
	User UserResponse `json:"user"`
}

// UpdateRoleRequest cambio de rol (solo Admin).
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=Employee Manager Admin"`
}
