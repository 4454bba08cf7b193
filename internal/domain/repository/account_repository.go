package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// AccountRepository define el puerto de persistencia para cuentas corrientes.
type AccountRepository interface {
	// CreateIfNotExists es idempotente: devuelve created=false si ya existía.
	CreateIfNotExists(ctx context.Context, customer string) (created bool, err error)
	// Get devuelve nil, nil si no existe.
	Get(ctx context.Context, customer string) (*entity.Account, error)
	List(ctx context.Context) ([]*entity.Account, error)
	// AddToBalance suma amount a la deuda o al saldo a favor según kind. ErrAccountNotFound si no existe.
	AddToBalance(ctx context.Context, customer, kind string, amount decimal.Decimal) error
	Delete(ctx context.Context, customer string) error
}

// AccountMovementRepository define el puerto de persistencia para movimientos de cuenta corriente.
type AccountMovementRepository interface {
	Create(ctx context.Context, m *entity.AccountMovement) error
	ListByCustomer(ctx context.Context, customer string) ([]*entity.AccountMovement, error)
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id int64) (*entity.AccountMovement, error)
	UpdateComment(ctx context.Context, id int64, comment string) error
	Delete(ctx context.Context, id int64) error
	DeleteByCustomer(ctx context.Context, customer string) (int64, error)
}
