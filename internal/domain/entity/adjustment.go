package entity

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Violaciones detectadas por StockLevel.CheckInvariants. El procesador de ajustes
// las traduce a los errores de dominio correspondientes (stock insuficiente vs
// invariante rota).
var (
	ErrOnHandBelowFloor       = errors.New("on-hand por debajo del piso permitido")
	ErrCommittedExceedsOnHand = errors.New("committed excede on-hand")
)

// Tipos de ajuste de inventario.
const (
	AdjustmentTypeReceived   = "received"   // entrada por compra
	AdjustmentTypeSold       = "sold"       // salida por venta
	AdjustmentTypeAdjustment = "adjustment" // daño, pérdida o corrección (delta con signo)
	AdjustmentTypeTransfer   = "transfer"   // traslado entre ubicaciones
	AdjustmentTypeCount      = "count"      // corrección por conteo cíclico
)

// CycleCountReason razón fija registrada en los ajustes de tipo count.
const CycleCountReason = "cycle count"

// ValidAdjustmentType verifica que el tipo de ajuste sea conocido.
func ValidAdjustmentType(t string) bool {
	switch t {
	case AdjustmentTypeReceived, AdjustmentTypeSold, AdjustmentTypeAdjustment,
		AdjustmentTypeTransfer, AdjustmentTypeCount:
		return true
	}
	return false
}

// Adjustment es un evento inmutable del ledger de inventario: todo cambio de
// cantidad queda registrado aquí con el antes y el después. Nunca se edita ni
// se borra; las correcciones son nuevos ajustes compensatorios.
type Adjustment struct {
	ID             int64  // monotónico (BIGSERIAL)
	TransferRef    string // comparte valor el par de ajustes de un traslado
	ProductID      string
	LocationID     string
	FromLocationID *string // solo traslados: ubicación origen
	Type           string
	Quantity       int64 // delta con signo aplicado a on-hand
	PreviousOnHand int64
	NewOnHand      int64
	UnitCost       decimal.Decimal // costo de catálogo al momento del evento
	TotalCost      decimal.Decimal
	Reason         string
	CreatedBy      string // actor
	Date           time.Time
	CreatedAt      time.Time
}
