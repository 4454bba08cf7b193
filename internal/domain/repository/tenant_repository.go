package repository

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// TenantRepository define el puerto del directorio de comercios (base maestra).
type TenantRepository interface {
	// Create devuelve ErrDuplicate si el identificador ya existe.
	Create(ctx context.Context, t *entity.Tenant) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	List(ctx context.Context) ([]*entity.Tenant, error)
	SetActive(ctx context.Context, id string, active bool) error
}
