package repository

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByCode devuelve nil, nil si el código no existe.
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	// Update reemplaza descripción, categoría, precio, costo y stock. ErrProductNotFound si no existe.
	Update(ctx context.Context, product *entity.Product) error
	SetStock(ctx context.Context, code string, stock int64) error
	// AdjustStock aplica stock = stock + delta. ErrProductNotFound si no afecta filas.
	AdjustStock(ctx context.Context, code string, delta int64) error
	Delete(ctx context.Context, code string) error
	Search(ctx context.Context, term string, limit int) ([]*entity.Product, error)
	Descriptions(ctx context.Context, codes []string) (map[string]string, error)
}
