package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/glamstock-api/internal/application/inventory"
	"github.com/jhoicas/glamstock-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine    *inventory.LedgerEngine
	Query     *inventory.BranchInventoryUseCase
	History   *inventory.LedgerHistoryUseCase
	Reasons   *inventory.ReasonRegistry
	Log       *logger.Logger
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	invGroup := protected.Group("/inventory")
	h := NewInventoryHandler(deps.Engine, deps.Query, deps.History, deps.Reasons, deps.Log)

	// Escrituras: ventas en caja, bajas y ajustes en bodega
	invGroup.Post("/sales", RequireRole(RoleAdmin, RoleVendedor), h.RegisterSale)
	invGroup.Post("/write-offs", RequireRole(RoleAdmin, RoleBodeguero), h.RegisterWriteOff)
	invGroup.Post("/adjustments", RequireRole(RoleAdmin, RoleBodeguero), h.AdjustInventory)

	// Lecturas: cualquier rol autenticado
	invGroup.Get("/", h.GetBranchInventory)
	invGroup.Get("/report.pdf", h.GetBranchInventoryPDF)
	invGroup.Get("/branches", h.ListBranches)
	invGroup.Get("/reasons", h.ListReasons)
	invGroup.Get("/ledger", h.ListLedger)
	invGroup.Get("/ledger/:id", h.GetLedgerEntry)
}
