package entity

import "github.com/shopspring/decimal"

// Tipos de movimiento de caja.
const (
	CashIn  = "in"
	CashOut = "out"
)

// ParseCashKind normaliza el tipo (acepta ingreso/egreso).
func ParseCashKind(s string) (string, bool) {
	switch s {
	case CashIn, "ingreso", "entrada":
		return CashIn, true
	case CashOut, "egreso", "salida":
		return CashOut, true
	}
	return "", false
}

// CashMovement ingreso o egreso manual de caja. Informativo: no suma al total del cierre.
type CashMovement struct {
	ID     int64
	Date   string
	Kind   string
	Amount decimal.Decimal
	Detail string
}
