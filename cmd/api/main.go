package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/tienda-pos/internal/application/auth"
	"github.com/jhoicas/tienda-pos/internal/application/cashdrawer"
	"github.com/jhoicas/tienda-pos/internal/application/catalog"
	"github.com/jhoicas/tienda-pos/internal/application/ledger"
	"github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/backup"
	infrapdf "github.com/jhoicas/tienda-pos/internal/infrastructure/pdf"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/sqlite"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/tenant"
	httpRouter "github.com/jhoicas/tienda-pos/internal/interfaces/http"
	"github.com/jhoicas/tienda-pos/pkg/config"
	"github.com/jhoicas/tienda-pos/pkg/logger"
	"github.com/jhoicas/tienda-pos/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("data_dir", cfg.Storage.DataDir).
		Msg("iniciando aplicación")

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storeMetrics := metrics.NewStoreMetrics(promReg)

	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("crear directorio de datos")
	}
	registry := tenant.NewRegistry(cfg.Storage.DataDir, log, storeMetrics)
	engine := backup.NewEngine(backup.Config{
		BackupDir: cfg.Storage.BackupDir,
		DataDir:   cfg.Storage.DataDir,
		Limit:     cfg.Storage.BackupLimit,
	}, registry, log, storeMetrics)

	// Restauraciones preparadas: se aplican antes de abrir cualquier base.
	restored, err := engine.ApplyStagedRestores()
	if err != nil {
		log.Fatal().Err(err).Msg("aplicar restauraciones pendientes")
	}
	for _, id := range restored {
		log.Warn().Str("tenant", id).Msg("base restaurada desde backup")
	}

	ctx := context.Background()
	directory, err := sqlite.OpenDirectory(ctx, cfg.Storage.UsersDB)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir directorio de comercios")
	}

	authUC := auth.NewAuthUseCase(directory.Tenants(), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	if err := authUC.EnsureAdmin(ctx, cfg.Admin.User, cfg.Admin.Password); err != nil {
		log.Fatal().Err(err).Msg("sembrar comercio administrador")
	}

	catalogUC := catalog.NewUseCase(registry, registry, engine, log)
	salesUC := sales.NewUseCase(registry, registry, engine, log, cfg.Storage.SalesListLimit)
	ledgerUC := ledger.NewUseCase(registry, registry, engine, log)
	cashUC := cashdrawer.NewUseCase(registry, registry, engine, infrapdf.NewMarotoClosingGenerator(), log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    12 << 20,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins(cfg.HTTP.AllowedOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tienda POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		CatalogUC: catalogUC,
		SalesUC:   salesUC,
		LedgerUC:  ledgerUC,
		CashUC:    cashUC,
		Backups:   engine,
		Responder: httpRouter.NewResponder(log, cfg.App.IsProduction()),
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := registry.Close(); err != nil {
		log.Error().Err(err).Msg("cerrar bases de comercios")
	}
	if err := directory.Close(); err != nil {
		log.Error().Err(err).Msg("cerrar directorio de comercios")
	}

	log.Info().Msg("aplicación detenida")
}

func allowedOrigins(s string) string {
	if s == "" {
		return "*"
	}
	return s
}
