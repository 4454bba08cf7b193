package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantRepo)(nil)

const sqliteTimestamp = "2006-01-02 15:04:05"

// Directory base maestra con los comercios registrados (usuarios.db).
type Directory struct {
	db *sql.DB
}

// OpenDirectory abre el directorio de comercios y aplica su esquema.
func OpenDirectory(ctx context.Context, path string) (*Directory, error) {
	db, err := openDB(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := MigrateDirectory(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Directory{db: db}, nil
}

// Tenants repositorio de comercios.
func (d *Directory) Tenants() *TenantRepo { return NewTenantRepository(d.db) }

// Close cierra la conexión.
func (d *Directory) Close() error { return d.db.Close() }

// TenantRepo implementación del puerto TenantRepository sobre SQLite.
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador.
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

const usuarioColumns = `usuario, password, nombreComercio, email, rol, activo, fechaCreacion`

func scanTenant(s rowScanner) (*entity.Tenant, error) {
	var (
		t                 entity.Tenant
		name, email, role sql.NullString
		created           sql.NullString
		active            sql.NullInt64
	)
	if err := s.Scan(&t.ID, &t.PasswordHash, &name, &email, &role, &active, &created); err != nil {
		return nil, err
	}
	t.BusinessName = name.String
	t.Email = email.String
	t.Role = role.String
	if t.Role == "" {
		t.Role = entity.RoleComercio
	}
	t.Active = !active.Valid || active.Int64 != 0
	if created.Valid {
		if ts, err := time.Parse(sqliteTimestamp, created.String); err == nil {
			t.CreatedAt = ts
		}
	}
	return &t, nil
}

// Create persiste un comercio. ErrDuplicate si el usuario ya existe.
func (r *TenantRepo) Create(ctx context.Context, t *entity.Tenant) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO usuarios (`+usuarioColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.PasswordHash, t.BusinessName, t.Email, t.Role, boolToInt(t.Active),
		t.CreatedAt.UTC().Format(sqliteTimestamp),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

// GetByID obtiene un comercio por usuario.
func (r *TenantRepo) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	t, err := scanTenant(r.q.QueryRowContext(ctx, `SELECT `+usuarioColumns+` FROM usuarios WHERE usuario = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

// List lista los comercios registrados.
func (r *TenantRepo) List(ctx context.Context) ([]*entity.Tenant, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+usuarioColumns+` FROM usuarios ORDER BY usuario`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// SetActive habilita o deshabilita el acceso de un comercio.
func (r *TenantRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.q.ExecContext(ctx, `UPDATE usuarios SET activo = ? WHERE usuario = ?`, boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("set tenant active: %w", err)
	}
	return requireAffected(res, domain.ErrTenantNotFound)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
