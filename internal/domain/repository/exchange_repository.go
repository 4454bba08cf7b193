package repository

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// ExchangeRepository define el puerto de persistencia para cambios de mercadería.
type ExchangeRepository interface {
	Create(ctx context.Context, ex *entity.Exchange) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Exchange, error)
	// List filtra por rango de fechas inclusivo; cadenas vacías no filtran.
	List(ctx context.Context, from, to string) ([]*entity.Exchange, error)
	Delete(ctx context.Context, id int64) error
}
