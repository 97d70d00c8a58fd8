package dto

import "github.com/shopspring/decimal"

// Estados de stock calculados en lectura (nunca persistidos: un cambio de
// umbral aplica retroactivamente).
const (
	StockStatusInStock    = "in_stock"
	StockStatusLowStock   = "low_stock"
	StockStatusOutOfStock = "out_of_stock"
	StockStatusOverstock  = "overstock"
)

// InventorySummaryResponse totales y conteos por estado sobre todo el ledger.
type InventorySummaryResponse struct {
	TotalUnits   int64           `json:"total_units"`
	TotalValue   decimal.Decimal `json:"total_value"`
	StatusCounts map[string]int  `json:"status_counts"`
	Products     int             `json:"products"`
}

// TurnoverResponse rotación de inventario de un producto en la ventana configurada.
type TurnoverResponse struct {
	ProductID     string          `json:"product_id"`
	WindowDays    int             `json:"window_days"`
	UnitsSold     int64           `json:"units_sold"`
	AverageOnHand decimal.Decimal `json:"average_on_hand"`
	TurnoverRate  decimal.Decimal `json:"turnover_rate"`
}

// LedgerVerificationResponse resultado de cotejar el replay del ledger contra
// el on-hand materializado.
type LedgerVerificationResponse struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	OnHand     int64  `json:"on_hand"`
	Replayed   int64  `json:"replayed"`
	Consistent bool   `json:"consistent"`
}
