package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplyAdjustmentRequest body para POST /api/inventory/adjustments.
// Para received/sold/count: product_id, location_id, type, quantity (> 0; en
// count es el conteo observado). Para adjustment: quantity es el delta con signo.
// Para transfer: from_location_id origen y location_id destino.
type ApplyAdjustmentRequest struct {
	ProductID        string `json:"product_id"`
	LocationID       string `json:"location_id"`
	FromLocationID   string `json:"from_location_id,omitempty"`
	Type             string `json:"type"`
	Quantity         int64  `json:"quantity"`
	ReleaseCommitted int64  `json:"release_committed,omitempty"` // sold: unidades reservadas que se despachan
	Reason           string `json:"reason,omitempty"`
	Actor            string `json:"actor"`
}

// ReservationRequest body para reservar o liberar stock comprometido.
type ReservationRequest struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Quantity   int64  `json:"quantity"`
	Actor      string `json:"actor"`
}

// AdjustmentResponse representación de un ajuste del ledger.
type AdjustmentResponse struct {
	ID             int64           `json:"id"`
	TransferRef    string          `json:"transfer_ref,omitempty"`
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	FromLocationID *string         `json:"from_location_id,omitempty"`
	Type           string          `json:"type"`
	Quantity       int64           `json:"quantity"`
	PreviousOnHand int64           `json:"previous_on_hand"`
	NewOnHand      int64           `json:"new_on_hand"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	Reason         string          `json:"reason,omitempty"`
	CreatedBy      string          `json:"created_by"`
	Date           time.Time       `json:"date"`
}

// AdjustmentListResponse historial paginado de ajustes.
type AdjustmentListResponse struct {
	Items []AdjustmentResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// StockLevelResponse fila de stock por producto y ubicación.
type StockLevelResponse struct {
	ProductID  string    `json:"product_id"`
	LocationID string    `json:"location_id"`
	OnHand     int64     `json:"on_hand"`
	Committed  int64     `json:"committed"`
	Available  int64     `json:"available"`
	Bin        string    `json:"bin,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProductStockResponse vista agregada del stock de un producto.
type ProductStockResponse struct {
	ProductID      string               `json:"product_id"`
	TotalOnHand    int64                `json:"total_on_hand"`
	TotalCommitted int64                `json:"total_committed"`
	TotalAvailable int64                `json:"total_available"`
	Levels         []StockLevelResponse `json:"levels"`
}

// ReorderSuggestionDTO sugerencia de reorden para un producto bajo su punto de
// reorden. El motor propone; la orden de compra la crea el subsistema de compras.
type ReorderSuggestionDTO struct {
	ProductID    string `json:"product_id"`
	Available    int64  `json:"available"`
	ReorderPoint int64  `json:"reorder_point"`
	SuggestedQty int64  `json:"suggested_qty"`
	Incoming     int64  `json:"incoming"`
}
