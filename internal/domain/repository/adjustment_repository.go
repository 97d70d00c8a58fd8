package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// AdjustmentFilter filtros para el historial de ajustes.
type AdjustmentFilter struct {
	ProductID  string
	LocationID string
	Type       string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// AdjustmentRepository define el puerto de persistencia para el ledger de
// ajustes. Solo inserciones: los ajustes son inmutables.
type AdjustmentRepository interface {
	// Create persiste el ajuste y asigna su ID monotónico.
	Create(ctx context.Context, adjustment *entity.Adjustment) error

	// List devuelve el historial ordenado por fecha descendente, paginado.
	List(ctx context.Context, filter AdjustmentFilter) ([]*entity.Adjustment, error)

	// ListForReplay devuelve todos los ajustes de una pareja (producto, ubicación)
	// en orden cronológico ascendente, sin paginar.
	ListForReplay(ctx context.Context, productID, locationID string) ([]*entity.Adjustment, error)

	// SumDeltas suma los deltas de un producto en el rango [from, to].
	SumDeltas(ctx context.Context, productID string, from, to time.Time) (int64, error)
	// SumSoldUnits suma las unidades vendidas (valor absoluto de ajustes sold) en el rango.
	SumSoldUnits(ctx context.Context, productID string, from, to time.Time) (int64, error)
}
