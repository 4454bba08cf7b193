package entity

import (
	"regexp"
	"time"
)

// Roles válidos para Tenant.
const (
	RoleAdmin    = "admin"
	RoleComercio = "comercio"
)

var tenantIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidTenantID indica si el identificador puede usarse como nombre de archivo de la base.
func ValidTenantID(id string) bool {
	return tenantIDPattern.MatchString(id)
}

// Tenant representa un comercio registrado. Cada comercio tiene exactamente una base aislada.
type Tenant struct {
	ID           string // usuario de login; también nombre del archivo <id>.db
	PasswordHash string // bcrypt hash
	BusinessName string
	Email        string
	Role         string // admin, comercio
	Active       bool
	CreatedAt    time.Time
}
