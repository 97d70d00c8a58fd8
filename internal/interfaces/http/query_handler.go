package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/query"
	"github.com/tu-usuario/stock-ledger/internal/application/reorder"
)

// QueryHandler maneja las lecturas agregadas: sugerencias de reorden, resumen,
// rotación y verificación del ledger.
type QueryHandler struct {
	reorderUC *reorder.ReorderUseCase
	queryUC   *query.InventoryQueryUseCase
}

// NewQueryHandler construye el handler.
func NewQueryHandler(reorderUC *reorder.ReorderUseCase, queryUC *query.InventoryQueryUseCase) *QueryHandler {
	return &QueryHandler{reorderUC: reorderUC, queryUC: queryUC}
}

// ReorderSuggestions godoc
// @Summary      Productos en o bajo su punto de reorden
// @Description  Orden estable: disponible ascendente (más urgente primero), empates por product_id.
// @Tags         reorder
// @Produce      json
// @Success      200  {array}   dto.ReorderSuggestionDTO
// @Router       /api/inventory/reorder-suggestions [get]
func (h *QueryHandler) ReorderSuggestions(c *fiber.Ctx) error {
	list, err := h.reorderUC.SuggestReorders(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":       len(list),
		"suggestions": list,
	})
}

// Summary godoc
// @Summary      Totales y conteos por estado de stock
// @Tags         query
// @Produce      json
// @Success      200  {object}  dto.InventorySummaryResponse
// @Router       /api/inventory/summary [get]
func (h *QueryHandler) Summary(c *fiber.Ctx) error {
	out, err := h.queryUC.Summary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Turnover godoc
// @Summary      Rotación de inventario de un producto (ventana configurada)
// @Tags         query
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.TurnoverResponse
// @Router       /api/inventory/turnover/{productId} [get]
func (h *QueryHandler) Turnover(c *fiber.Ctx) error {
	out, err := h.queryUC.Turnover(c.Context(), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// VerifyLedger godoc
// @Summary      Cotejar replay del ledger contra el on-hand materializado
// @Tags         query
// @Produce      json
// @Param        productId   path  string  true  "ID del producto"
// @Param        locationId  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.LedgerVerificationResponse
// @Router       /api/inventory/verify/{productId}/{locationId} [get]
func (h *QueryHandler) VerifyLedger(c *fiber.Ctx) error {
	out, err := h.queryUC.VerifyLedger(c.Context(), c.Params("productId"), c.Params("locationId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
