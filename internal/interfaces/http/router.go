package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/application/query"
	"github.com/tu-usuario/stock-ledger/internal/application/reorder"
	"github.com/tu-usuario/stock-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LocationUC  *usecase.LocationUseCase
	ApplyUC     *inventory.ApplyAdjustmentUseCase
	ReserveUC   *inventory.ReserveStockUseCase
	LedgerUC    *inventory.LedgerQueryUseCase
	ReorderUC   *reorder.ReorderUseCase
	InventoryQC *query.InventoryQueryUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Locations
	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Get("/:id/levels", locationHandler.Levels)
	locations.Post("/:id/deactivate", locationHandler.Deactivate)

	// Inventory: ajustes, reservas, niveles, historial
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.ApplyUC, deps.ReserveUC, deps.LedgerUC)
	inv.Post("/adjustments", inventoryHandler.ApplyAdjustment)
	inv.Get("/adjustments", inventoryHandler.History)
	inv.Post("/reservations", inventoryHandler.Reserve)
	inv.Post("/reservations/release", inventoryHandler.Release)
	inv.Get("/levels/:productId", inventoryHandler.GetAggregate)
	inv.Get("/levels/:productId/:locationId", inventoryHandler.GetLevel)

	// Lecturas agregadas: reorden, resumen, rotación, verificación
	queryHandler := NewQueryHandler(deps.ReorderUC, deps.InventoryQC)
	inv.Get("/reorder-suggestions", queryHandler.ReorderSuggestions)
	inv.Get("/summary", queryHandler.Summary)
	inv.Get("/turnover/:productId", queryHandler.Turnover)
	inv.Get("/verify/:productId/:locationId", queryHandler.VerifyLedger)
}
