package inventory

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// LedgerQueryUseCase lecturas del Stock Ledger: fila puntual, agregado por
// producto e historial de ajustes. No toma bloqueos.
type LedgerQueryUseCase struct {
	levelRepo repository.StockLevelRepository
	adjRepo   repository.AdjustmentRepository
}

// NewLedgerQueryUseCase construye las lecturas del ledger.
func NewLedgerQueryUseCase(
	levelRepo repository.StockLevelRepository,
	adjRepo repository.AdjustmentRepository,
) *LedgerQueryUseCase {
	return &LedgerQueryUseCase{levelRepo: levelRepo, adjRepo: adjRepo}
}

// GetLevel devuelve la fila de stock de (producto, ubicación) o ErrNotFound.
func (uc *LedgerQueryUseCase) GetLevel(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	level, err := uc.levelRepo.Get(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, domain.ErrNotFound
	}
	return level, nil
}

// GetAggregate devuelve la vista agregada del producto sobre todas sus
// ubicaciones. Un producto sin filas devuelve el agregado en cero.
func (uc *LedgerQueryUseCase) GetAggregate(ctx context.Context, productID string) (*entity.ProductStock, error) {
	levels, err := uc.levelRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return entity.AggregateProduct(productID, levels), nil
}

// History devuelve el historial de ajustes, fecha descendente, paginado y
// filtrable por tipo y rango de fechas.
func (uc *LedgerQueryUseCase) History(ctx context.Context, filter repository.AdjustmentFilter) ([]*entity.Adjustment, error) {
	if filter.ProductID == "" && filter.LocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.adjRepo.List(ctx, filter)
}
