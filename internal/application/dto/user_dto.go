package dto

import "time"

// LoginRequest entrada para login del administrador.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required"`
}

// CreateAdminRequest alta de un administrador (CLI).
type CreateAdminRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=200"`
}

// UpdateProfileRequest cambio de usuario y/o password del administrador autenticado.
type UpdateProfileRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	Username        string `json:"username" validate:"omitempty,min=3,max=100"`
	NewPassword     string `json:"new_password" validate:"omitempty,min=8"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}
