package dto

import "github.com/shopspring/decimal"

// CreateAccountRequest alta (idempotente) de cuenta corriente.
type CreateAccountRequest struct {
	Customer string `json:"customer" validate:"required,min=1,max=120"`
}

// AccountResponse cuenta corriente con su saldo.
type AccountResponse struct {
	Customer string          `json:"customer"`
	Debt     decimal.Decimal `json:"debt"`
	Credit   decimal.Decimal `json:"credit"`
	Balance  decimal.Decimal `json:"balance"`
	Created  bool            `json:"created,omitempty"`
}

// AddMovementRequest movimiento de cuenta corriente. Kind: debt | credit.
type AddMovementRequest struct {
	Kind    string          `json:"kind" validate:"required"`
	Amount  decimal.Decimal `json:"amount"`
	Date    string          `json:"date" validate:"required,datetime=2006-01-02"`
	Comment string          `json:"comment" validate:"max=500"`
}

// MovementResponse salida de un movimiento de cuenta corriente.
type MovementResponse struct {
	ID       int64           `json:"id"`
	Customer string          `json:"customer"`
	Kind     string          `json:"kind"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Comment  string          `json:"comment"`
}

// UpdateCommentRequest edición del comentario de un movimiento.
type UpdateCommentRequest struct {
	Comment string `json:"comment" validate:"max=500"`
}

// DeleteAccountResponse movimientos eliminados junto con la cuenta.
type DeleteAccountResponse struct {
	Customer         string `json:"customer"`
	DeletedMovements int64  `json:"deleted_movements"`
}
