package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de cuenta corriente.
const (
	MovementDebt   = "debt"
	MovementCredit = "credit"
)

// ParseMovementKind normaliza el tipo de movimiento. Acepta los alias usados por las
// bases anteriores (deuda, cargo, pago, a_favor).
func ParseMovementKind(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case MovementDebt, "deuda", "cargo":
		return MovementDebt, true
	case MovementCredit, "pago", "a_favor", "favor":
		return MovementCredit, true
	}
	return "", false
}

// Account cuenta corriente de un cliente. Debt y Credit son los acumulados de sus movimientos.
type Account struct {
	Customer string
	Debt     decimal.Decimal
	Credit   decimal.Decimal
}

// Balance deuda menos saldo a favor: positivo, el cliente debe; negativo, el comercio le debe.
func (a *Account) Balance() decimal.Decimal {
	return a.Debt.Sub(a.Credit)
}

// AccountMovement movimiento de cuenta corriente. Solo el comentario es editable.
type AccountMovement struct {
	ID       int64
	Customer string
	Kind     string
	Amount   decimal.Decimal
	Date     string
	Comment  string
}
