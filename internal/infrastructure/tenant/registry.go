// Package tenant resuelve el identificador de un comercio a su base SQLite aislada.
//
// Cada comercio tiene un archivo <data_dir>/<tenant>.db que se crea y migra en el primer
// acceso (no al registrar el comercio). El handle queda en caché durante la vida del
// proceso. singleflight garantiza una sola secuencia abrir+migrar por comercio aunque
// lleguen varias primeras peticiones concurrentes.
package tenant

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/tienda-pos/internal/application/ports"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/sqlite"
	"github.com/jhoicas/tienda-pos/pkg/logger"
	"github.com/jhoicas/tienda-pos/pkg/metrics"
)

var (
	_ ports.TxRunner      = (*Registry)(nil)
	_ ports.StoreResolver = (*Registry)(nil)
)

type openFunc func(ctx context.Context, path string) (*sqlite.Store, error)

// Registry caché concurrente comercio -> base abierta.
type Registry struct {
	dataDir string
	log     *logger.Logger
	metrics *metrics.StoreMetrics
	open    openFunc

	mu     sync.RWMutex
	stores map[string]*sqlite.Store
	group  singleflight.Group
}

// NewRegistry construye el registro sobre dataDir. m puede ser nil.
func NewRegistry(dataDir string, log *logger.Logger, m *metrics.StoreMetrics) *Registry {
	return &Registry{
		dataDir: dataDir,
		log:     log,
		metrics: m,
		open:    sqlite.Open,
		stores:  make(map[string]*sqlite.Store),
	}
}

// Path ruta del archivo de la base de un comercio.
func (r *Registry) Path(tenantID string) string {
	return filepath.Join(r.dataDir, tenantID+".db")
}

// Resolve devuelve la base del comercio, creándola y migrándola si es el primer acceso.
// Un fallo al abrir no se cachea: afecta solo a ese comercio y la próxima petición reintenta.
func (r *Registry) Resolve(ctx context.Context, tenantID string) (*sqlite.Store, error) {
	if !entity.ValidTenantID(tenantID) {
		return nil, domain.Invalid("identificador de comercio %q", tenantID)
	}
	if st, ok := r.cached(tenantID); ok {
		return st, nil
	}

	v, err, _ := r.group.Do(tenantID, func() (any, error) {
		if st, ok := r.cached(tenantID); ok {
			return st, nil
		}
		// La apertura es compartida por todas las peticiones en vuelo: no hereda la cancelación de la primera.
		st, err := r.open(context.WithoutCancel(ctx), r.Path(tenantID))
		r.metrics.IncStoreOpened(err)
		if err != nil {
			r.log.Error().Err(err).Str("tenant", tenantID).Msg("no se pudo abrir la base del comercio")
			return nil, err
		}
		r.mu.Lock()
		r.stores[tenantID] = st
		r.mu.Unlock()
		r.log.Info().Str("tenant", tenantID).Str("path", st.Path()).Msg("base de comercio cargada")
		return st, nil
	})
	if err != nil {
		return nil, domain.TransactionFailure(err)
	}
	return v.(*sqlite.Store), nil
}

func (r *Registry) cached(tenantID string) (*sqlite.Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.stores[tenantID]
	return st, ok
}

// Repositories repositorios de lectura atados a la base del comercio.
func (r *Registry) Repositories(ctx context.Context, tenantID string) (repository.Repositories, error) {
	st, err := r.Resolve(ctx, tenantID)
	if err != nil {
		return repository.Repositories{}, err
	}
	return st.Repositories(), nil
}

// Run ejecuta fn en una transacción sobre la base del comercio.
func (r *Registry) Run(ctx context.Context, tenantID, operation string, fn func(repos repository.Repositories) error) error {
	st, err := r.Resolve(ctx, tenantID)
	if err != nil {
		return err
	}
	err = st.Run(ctx, fn)
	r.metrics.IncTransaction(operation, err)
	if err != nil {
		r.log.Debug().Err(err).Str("tenant", tenantID).Str("operation", operation).Msg("transacción revertida")
	}
	return err
}

// Invalidate cierra y descarta el handle cacheado de un comercio (si existe).
func (r *Registry) Invalidate(tenantID string) {
	r.mu.Lock()
	st, ok := r.stores[tenantID]
	delete(r.stores, tenantID)
	r.mu.Unlock()
	if ok {
		if err := st.Close(); err != nil {
			r.log.Warn().Err(err).Str("tenant", tenantID).Msg("cerrar base invalidada")
		}
	}
}

// IsOpen indica si el comercio tiene un handle cacheado.
func (r *Registry) IsOpen(tenantID string) bool {
	_, ok := r.cached(tenantID)
	return ok
}

// Close cierra todas las bases abiertas.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var first error
	for id, st := range r.stores {
		if err := st.Close(); err != nil && first == nil {
			first = err
		}
		delete(r.stores, id)
	}
	return first
}
