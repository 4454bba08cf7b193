package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/tenant/*.sql migrations/directory/*.sql
var migrationsFS embed.FS

// column columna agregada después del esquema inicial. Las bases creadas por versiones
// anteriores no la tienen; en bases nuevas ya existe y el ALTER se ignora.
type column struct {
	table, name, ddl string
}

var tenantColumns = []column{
	{"ventas", "caja", "TEXT"},
	{"ventas", "grupoVenta", "TEXT"},
	{"ventas", "descuento", "REAL DEFAULT 0"},
	{"movimientosCuentas", "comentario", "TEXT"},
	{"cambios", "comentarios", "TEXT"},
	{"cambios", "ventaDiferenciaId", "INTEGER"},
}

var directoryColumns = []column{
	{"usuarios", "email", "TEXT"},
	{"usuarios", "activo", "INTEGER DEFAULT 1"},
	{"usuarios", "rol", "TEXT DEFAULT 'comercio'"},
}

// MigrateTenant aplica las migraciones de la base de un comercio.
func MigrateTenant(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, "migrations/tenant", tenantColumns,
		`CREATE INDEX IF NOT EXISTS idx_ventas_grupo ON ventas(grupoVenta)`)
}

// MigrateDirectory aplica las migraciones del directorio de comercios.
func MigrateDirectory(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, "migrations/directory", directoryColumns)
}

func migrate(ctx context.Context, db *sql.DB, dir string, columns []column, after ...string) error {
	sub, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("migraciones %s: %w", dir, err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, sub,
		goose.WithGoMigrations(
			goose.NewGoMigration(2, &goose.GoFunc{RunTx: addColumns(columns, after)}, nil),
		),
	)
	if err != nil {
		return fmt.Errorf("goose provider %s: %w", dir, err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up %s: %w", dir, err)
	}
	return nil
}

// addColumns ALTER TABLE ADD COLUMN tolerante: "duplicate column name" no es error.
func addColumns(columns []column, after []string) func(ctx context.Context, tx *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		for _, c := range columns {
			stmt := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, c.table, c.name, c.ddl)
			if _, err := tx.ExecContext(ctx, stmt); err != nil && !isDuplicateColumn(err) {
				return fmt.Errorf("agregar columna %s.%s: %w", c.table, c.name, err)
			}
		}
		for _, stmt := range after {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}
}
