package repository

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para las líneas de venta.
type SaleRepository interface {
	// Create inserta la línea y asigna sale.ID.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	ListByGroup(ctx context.Context, groupID string) ([]*entity.Sale, error)
	Delete(ctx context.Context, id int64) error
	UpdateNote(ctx context.Context, id int64, note string) error
	ListRecent(ctx context.Context, limit int) ([]*entity.Sale, error)
	ListByDate(ctx context.Context, date string) ([]*entity.Sale, error)
	CountByProduct(ctx context.Context, code string) (int64, error)
}
