package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// CashRepository define el puerto de persistencia de caja (caja inicial y movimientos).
type CashRepository interface {
	// GetOpeningFloat devuelve found=false si el día no tiene caja inicial.
	GetOpeningFloat(ctx context.Context, date string) (amount decimal.Decimal, found bool, err error)
	UpsertOpeningFloat(ctx context.Context, date string, amount decimal.Decimal) error
	CreateMovement(ctx context.Context, m *entity.CashMovement) error
	ListMovements(ctx context.Context, date string) ([]*entity.CashMovement, error)
	UpdateMovementDetail(ctx context.Context, id int64, detail string) error
	DeleteMovement(ctx context.Context, id int64) error
}
