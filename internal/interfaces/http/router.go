package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/internal/application/auth"
	"github.com/jhoicas/tienda-pos/internal/application/cashdrawer"
	"github.com/jhoicas/tienda-pos/internal/application/catalog"
	"github.com/jhoicas/tienda-pos/internal/application/ledger"
	"github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	CatalogUC *catalog.UseCase
	SalesUC   *sales.UseCase
	LedgerUC  *ledger.UseCase
	CashUC    *cashdrawer.UseCase
	Backups   backupService
	Responder *Responder
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	rs := deps.Responder
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, rs)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas: token válido y comercio activo. El comercio sale siempre del token.
	protected := api.Group("", AuthMiddleware(deps.JWTSecret), RequireActiveTenant(deps.AuthUC))
	protected.Get("/auth/me", authHandler.Me)

	// Comercios (solo admin)
	tenants := protected.Group("/tenants", RequireRole(entity.RoleAdmin))
	tenants.Post("/", authHandler.CreateTenant)
	tenants.Get("/", authHandler.ListTenants)
	tenants.Put("/:id/active", authHandler.SetTenantActive)

	// Productos
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.CatalogUC, rs)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/search", productHandler.Search)
	products.Get("/descriptions", productHandler.Descriptions)
	products.Post("/import", productHandler.Import)
	products.Get("/:code", productHandler.Get)
	products.Put("/:code", productHandler.Update)
	products.Delete("/:code", productHandler.Delete)
	products.Put("/:code/stock", productHandler.SetStock)

	// Ventas
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC, rs)
	salesGroup.Post("/", saleHandler.Register)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Post("/group", saleHandler.RegisterGroup)
	salesGroup.Post("/import", saleHandler.ImportHistory)
	salesGroup.Delete("/group/:group", saleHandler.VoidGroup)
	salesGroup.Get("/day/:date", saleHandler.ListByDate)
	salesGroup.Delete("/:id", saleHandler.Void)
	salesGroup.Put("/:id/note", saleHandler.UpdateNote)

	// Cambios
	exchanges := protected.Group("/exchanges")
	exchanges.Post("/", saleHandler.RegisterExchange)
	exchanges.Get("/", saleHandler.ListExchanges)
	exchanges.Delete("/:id", saleHandler.DeleteExchange)

	// Cuentas corrientes
	accounts := protected.Group("/accounts")
	accountHandler := NewAccountHandler(deps.LedgerUC, rs)
	accounts.Get("/", accountHandler.List)
	accounts.Post("/", accountHandler.Create)
	accounts.Put("/movements/:id", accountHandler.UpdateMovementComment)
	accounts.Get("/:customer", accountHandler.Get)
	accounts.Delete("/:customer", accountHandler.Delete)
	accounts.Post("/:customer/movements", accountHandler.AddMovement)
	accounts.Get("/:customer/movements", accountHandler.ListMovements)

	// Caja
	cash := protected.Group("/cash")
	cashHandler := NewCashHandler(deps.CashUC, rs)
	cash.Get("/opening/:date", cashHandler.GetOpening)
	cash.Put("/opening/:date", cashHandler.SetOpening)
	cash.Post("/movements", cashHandler.AddMovement)
	cash.Get("/movements/:date", cashHandler.ListMovements)
	cash.Put("/movements/:id", cashHandler.UpdateMovement)
	cash.Delete("/movements/:id", cashHandler.DeleteMovement)
	cash.Get("/closing/:date", cashHandler.Closing)
	cash.Get("/closing/:date/pdf", cashHandler.ClosingPDF)

	// Backups
	backups := protected.Group("/backups")
	backupHandler := NewBackupHandler(deps.Backups, rs)
	backups.Get("/", backupHandler.List)
	backups.Post("/restore", backupHandler.Restore)
}
