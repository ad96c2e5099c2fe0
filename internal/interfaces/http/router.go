package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-consola/internal/application/auth"
	"github.com/jhoicas/inventario-consola/internal/application/dashboard"
	"github.com/jhoicas/inventario-consola/internal/application/reports"
	"github.com/jhoicas/inventario-consola/internal/application/usecase"
	"github.com/jhoicas/inventario-consola/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *usecase.ProductUseCase
	MovementUC *usecase.MovementUseCase
	AlertUC    *usecase.AlertUseCase
	Dashboard  *dashboard.Reloader
	Reports    *reports.UseCase
	JWTSecret  string
	// TokenCheck confirma los tokens contra el backend cuando JWTSecret está
	// vacío. Solo se usa en las rutas que sirven datos compartidos.
	TokenCheck TokenVerifier
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RequestContext())

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/registro", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	writers := RequireRole(entity.RoleAdmin, entity.RoleSupervisor)
	products := protected.Group("/productos")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", writers, productHandler.Create)
	products.Patch("/:id", writers, productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	movements := protected.Group("/movimientos")
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements.Get("/", movementHandler.List)
	movements.Post("/", movementHandler.Create)

	// Tablero y alertas no consultan al backend con el token del usuario: sin
	// clave para verificar la firma, el token se confirma antes.
	shared := func(c *fiber.Ctx) error { return c.Next() }
	if deps.JWTSecret == "" {
		shared = VerifiedToken(deps.TokenCheck)
	}
	protected.Get("/dashboard", shared, NewDashboardHandler(deps.Dashboard).Get)
	protected.Get("/alertas", shared, NewAlertHandler(deps.AlertUC).List)

	reportes := protected.Group("/reportes")
	reportHandler := NewReportHandler(deps.Reports)
	reportes.Get("/resumen", reportHandler.Summary)
	reportes.Get("/resumen/pdf", reportHandler.SummaryPDF)
	reportes.Get("/:recurso/:formato", reportHandler.Download)
}
