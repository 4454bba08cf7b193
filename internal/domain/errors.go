package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrTransaction  = errors.New("fallo de transacción")
)

// Variantes de ErrNotFound por entidad; errors.Is(err, ErrNotFound) sigue siendo cierto.
var (
	ErrProductNotFound  = fmt.Errorf("producto no encontrado: %w", ErrNotFound)
	ErrSaleNotFound     = fmt.Errorf("venta no encontrada: %w", ErrNotFound)
	ErrAccountNotFound  = fmt.Errorf("cuenta corriente no encontrada: %w", ErrNotFound)
	ErrBackupNotFound   = fmt.Errorf("backup no encontrado: %w", ErrNotFound)
	ErrExchangeNotFound = fmt.Errorf("cambio no encontrado: %w", ErrNotFound)
	ErrTenantNotFound   = fmt.Errorf("comercio no encontrado: %w", ErrNotFound)
)

// Invalid envuelve ErrInvalidInput con el detalle del campo rechazado.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// TransactionFailure clasifica un error ocurrido dentro de una transacción.
// Los errores de dominio pasan tal cual; los de almacenamiento se envuelven en ErrTransaction.
func TransactionFailure(err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrTransaction, err)
}

// IsDomainError indica si err pertenece a la taxonomía de dominio.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidInput, ErrDuplicate, ErrUnauthorized,
		ErrForbidden, ErrConflict, ErrTransaction,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
