package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ulule/limiter/v3"

	"github.com/jhoicas/imprenta-api/internal/application/caja"
	"github.com/jhoicas/imprenta-api/internal/application/production"
	"github.com/jhoicas/imprenta-api/internal/application/supply"
	"github.com/jhoicas/imprenta-api/pkg/jwt"
	"github.com/jhoicas/imprenta-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CajaUC       *caja.UseCase
	SupplyUC     *supply.UseCase
	ProductionUC *production.UseCase
	JWTSecret    string
	JWTIssuer    string
	Limiter      *limiter.Limiter // nil = sin límite
	Log          *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RequestLogger(deps.Log), RateLimit(deps.Limiter))

	// Todas las rutas de /api requieren Bearer Token
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	cashiers := RequireRole(jwt.RoleAdmin, jwt.RoleCajero)
	operators := RequireRole(jwt.RoleAdmin, jwt.RoleOperador)
	admins := RequireRole(jwt.RoleAdmin)
	anyRole := RequireRole()

	// Caja y cortes
	cajaHandler := NewCajaHandler(deps.CajaUC)
	cajaGroup := protected.Group("/caja", cashiers)
	cajaGroup.Post("/movimientos", cajaHandler.RegisterMovement)
	cajaGroup.Get("/movimientos", cajaHandler.ListMovements)
	cajaGroup.Get("/saldo", cajaHandler.CurrentBalance)
	cajaGroup.Get("/cortes/preview", cajaHandler.Preview)
	cajaGroup.Post("/cortes", cajaHandler.CreateCorte)
	cajaGroup.Get("/cortes", cajaHandler.ListCortes)
	cajaGroup.Get("/cortes/:id", cajaHandler.GetCorte)
	cajaGroup.Get("/cortes/:id/pdf", cajaHandler.CortePDF)

	protected.Get("/reportes/ventas", admins, cajaHandler.SalesReport)

	// Insumos por máquina
	supplyHandler := NewSupplyHandler(deps.SupplyUC)
	protected.Post("/maquinas/:machineId/insumos", admins, supplyHandler.Configure)
	protected.Get("/maquinas/:machineId/insumos", anyRole, supplyHandler.ListByMachine)

	insumos := protected.Group("/insumos")
	insumos.Get("/alertas", anyRole, supplyHandler.Alerts)
	insumos.Put("/:id", admins, supplyHandler.Update)
	insumos.Post("/:id/reabastecer", operators, supplyHandler.Restock)
	insumos.Post("/:id/ajuste", admins, supplyHandler.Adjust)
	insumos.Get("/:id/movimientos", anyRole, supplyHandler.Movements)

	// Producción
	productionHandler := NewProductionHandler(deps.ProductionUC)
	prod := protected.Group("/produccion")
	prod.Post("/", operators, productionHandler.Register)
	prod.Get("/", anyRole, productionHandler.List)
	prod.Put("/:id", operators, productionHandler.Correct)
}
