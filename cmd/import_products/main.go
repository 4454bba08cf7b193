// import_products carga un archivo de productos (CSV o XLSX) en la base de un comercio,
// con el mismo caso de uso que la API: una transacción y un backup al terminar.
//
// Uso: go run ./cmd/import_products -tenant kiosco -mode full productos.csv
//
// Con el servidor en marcha conviene usar POST /api/products/import: el proceso comparte
// el archivo SQLite del comercio y cualquier escritura concurrente espera el lock.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/tienda-pos/internal/application/catalog"
	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/backup"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/importer"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/tenant"
	"github.com/jhoicas/tienda-pos/pkg/config"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

func main() {
	tenantID := flag.String("tenant", "", "comercio destino (obligatorio)")
	mode := flag.String("mode", dto.ImportModeFull, "full | attributes")
	flag.Parse()
	if *tenantID == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: import_products -tenant <comercio> [-mode full|attributes] <archivo.csv|archivo.xlsx>")
		os.Exit(2)
	}
	if err := run(context.Background(), *tenantID, *mode, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Importar productos: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, tenantID, mode, path string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "warn"})

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, parseErrs, err := importer.Parse(f, path)
	if err != nil {
		return err
	}

	registry := tenant.NewRegistry(cfg.Storage.DataDir, log, nil)
	defer registry.Close()
	engine := backup.NewEngine(backup.Config{
		BackupDir: cfg.Storage.BackupDir,
		DataDir:   cfg.Storage.DataDir,
		Limit:     cfg.Storage.BackupLimit,
	}, registry, log, nil)

	uc := catalog.NewUseCase(registry, registry, engine, log)
	res, err := uc.UpsertMany(ctx, tenantID, rows, mode)
	if err != nil {
		return err
	}

	fmt.Printf("Nuevos: %d  Actualizados: %d  Omitidos: %d  Errores: %d\n",
		res.Inserted, res.Updated, res.Skipped, len(parseErrs)+len(res.Errors))
	for _, e := range append(parseErrs, res.Errors...) {
		fmt.Printf("  fila %d (%s): %s\n", e.Line, e.Code, e.Message)
	}
	return nil
}
