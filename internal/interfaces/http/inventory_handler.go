package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// InventoryHandler maneja ajustes, reservas, niveles e historial.
type InventoryHandler struct {
	apply   *inventory.ApplyAdjustmentUseCase
	reserve *inventory.ReserveStockUseCase
	ledger  *inventory.LedgerQueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	apply *inventory.ApplyAdjustmentUseCase,
	reserve *inventory.ReserveStockUseCase,
	ledger *inventory.LedgerQueryUseCase,
) *InventoryHandler {
	return &InventoryHandler{apply: apply, reserve: reserve, ledger: ledger}
}

// ApplyAdjustment godoc
// @Summary      Aplicar un ajuste de inventario
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyAdjustmentRequest  true  "product_id, location_id (from_location_id para transfer), type, quantity, actor"
// @Success      201   {array}   dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) ApplyAdjustment(c *fiber.Ctx) error {
	var in dto.ApplyAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	applied, err := h.apply.Apply(c.Context(), inventory.AdjustmentCommand{
		ProductID:        in.ProductID,
		LocationID:       in.LocationID,
		FromLocationID:   in.FromLocationID,
		Type:             in.Type,
		Quantity:         in.Quantity,
		ReleaseCommitted: in.ReleaseCommitted,
		Reason:           in.Reason,
		Actor:            in.Actor,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.AdjustmentResponse, 0, len(applied))
	for _, a := range applied {
		out = append(out, toAdjustmentResponse(a))
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Reserve godoc
// @Summary      Reservar stock para una orden sin despachar
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReservationRequest  true  "product_id, location_id, quantity"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations [post]
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser > 0"})
	}
	if err := h.reserve.Reserve(c.Context(), in.ProductID, in.LocationID, in.Quantity); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "stock reservado"})
}

// Release godoc
// @Summary      Liberar stock reservado
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReservationRequest  true  "product_id, location_id, quantity"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations/release [post]
func (h *InventoryHandler) Release(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser > 0"})
	}
	if err := h.reserve.Release(c.Context(), in.ProductID, in.LocationID, in.Quantity); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "reserva liberada"})
}

// GetAggregate godoc
// @Summary      Stock agregado de un producto en todas las ubicaciones
// @Tags         inventory
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductStockResponse
// @Router       /api/inventory/levels/{productId} [get]
func (h *InventoryHandler) GetAggregate(c *fiber.Ctx) error {
	agg, err := h.ledger.GetAggregate(c.Context(), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	out := dto.ProductStockResponse{
		ProductID:      agg.ProductID,
		TotalOnHand:    agg.TotalOnHand,
		TotalCommitted: agg.TotalCommitted,
		TotalAvailable: agg.TotalAvailable,
		Levels:         make([]dto.StockLevelResponse, 0, len(agg.Levels)),
	}
	for _, lv := range agg.Levels {
		out.Levels = append(out.Levels, toStockLevelResponse(lv))
	}
	return c.JSON(out)
}

// GetLevel godoc
// @Summary      Fila de stock de un producto en una ubicación
// @Tags         inventory
// @Produce      json
// @Param        productId   path  string  true  "ID del producto"
// @Param        locationId  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.StockLevelResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/levels/{productId}/{locationId} [get]
func (h *InventoryHandler) GetLevel(c *fiber.Ctx) error {
	level, err := h.ledger.GetLevel(c.Context(), c.Params("productId"), c.Params("locationId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStockLevelResponse(level))
}

// History godoc
// @Summary      Historial de ajustes (fecha descendente)
// @Tags         inventory
// @Produce      json
// @Param        product_id   query  string  false  "Filtrar por producto"
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Param        type         query  string  false  "received, sold, adjustment, transfer, count"
// @Param        from         query  string  false  "RFC3339"
// @Param        to           query  string  false  "RFC3339"
// @Param        limit        query  int     false  "Máx. 100"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.AdjustmentListResponse
// @Router       /api/inventory/adjustments [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filter := repository.AdjustmentFilter{
		ProductID:  c.Query("product_id"),
		LocationID: c.Query("location_id"),
		Type:       c.Query("type"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
		}
		filter.To = &t
	}

	list, err := h.ledger.History(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.AdjustmentResponse, 0, len(list))
	for _, a := range list {
		items = append(items, toAdjustmentResponse(a))
	}
	return c.JSON(dto.AdjustmentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

func toAdjustmentResponse(a *entity.Adjustment) dto.AdjustmentResponse {
	return dto.AdjustmentResponse{
		ID:             a.ID,
		TransferRef:    a.TransferRef,
		ProductID:      a.ProductID,
		LocationID:     a.LocationID,
		FromLocationID: a.FromLocationID,
		Type:           a.Type,
		Quantity:       a.Quantity,
		PreviousOnHand: a.PreviousOnHand,
		NewOnHand:      a.NewOnHand,
		UnitCost:       a.UnitCost,
		TotalCost:      a.TotalCost,
		Reason:         a.Reason,
		CreatedBy:      a.CreatedBy,
		Date:           a.Date,
	}
}

func toStockLevelResponse(s *entity.StockLevel) dto.StockLevelResponse {
	return dto.StockLevelResponse{
		ProductID:  s.ProductID,
		LocationID: s.LocationID,
		OnHand:     s.OnHand,
		Committed:  s.Committed,
		Available:  s.Available(),
		Bin:        s.Bin,
		UpdatedAt:  s.UpdatedAt,
	}
}
