package dto

import "time"

// LoginRequest entrada para login con el identificador del comercio.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token  string         `json:"token"`
	Tenant TenantResponse `json:"tenant"`
}

// CreateTenantRequest alta de comercio (solo admin). La base se crea en el primer acceso.
type CreateTenantRequest struct {
	ID           string `json:"id" validate:"required,min=1,max=64"`
	Password     string `json:"password" validate:"required,min=6"`
	BusinessName string `json:"business_name" validate:"omitempty,max=200"`
	Email        string `json:"email" validate:"omitempty,email"`
	Role         string `json:"role" validate:"omitempty,oneof=admin comercio"`
}

// TenantResponse salida de un comercio (sin password).
type TenantResponse struct {
	ID           string    `json:"id"`
	BusinessName string    `json:"business_name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// SetActiveRequest activa o suspende un comercio.
type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}
