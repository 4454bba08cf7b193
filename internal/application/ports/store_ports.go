package ports

import (
	"context"

	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción sobre la base del comercio, pasando
// repositorios atados a esa tx. Commit si fn devuelve nil; Rollback en cualquier otro caso.
// operation solo etiqueta métricas y logs.
type TxRunner interface {
	Run(ctx context.Context, tenantID, operation string, fn func(repos repository.Repositories) error) error
}

// StoreResolver devuelve repositorios de lectura atados a la base del comercio.
type StoreResolver interface {
	Repositories(ctx context.Context, tenantID string) (repository.Repositories, error)
}

// Snapshotter toma un backup completo de la base del comercio después de un commit.
// Nunca falla hacia el llamador: los errores se registran y se descartan.
type Snapshotter interface {
	Snapshot(ctx context.Context, tenantID, action, detail string)
}
