package domain

import (
	"strings"
	"time"
)

// DateLayout formato de las fechas de negocio (ventas, caja, movimientos).
const DateLayout = "2006-01-02"

// ValidDate indica si s es una fecha YYYY-MM-DD válida.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// RequireDate valida una fecha de negocio obligatoria. Vacía o con otro formato es ErrInvalidInput.
func RequireDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", Invalid("fecha requerida (YYYY-MM-DD)")
	}
	if !ValidDate(s) {
		return "", Invalid("fecha %q (se espera YYYY-MM-DD)", s)
	}
	return s, nil
}
