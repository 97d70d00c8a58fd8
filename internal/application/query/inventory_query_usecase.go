package query

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/ports"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// InventoryQueryUseCase agregaciones de solo lectura sobre el ledger:
// totales, valoración, clasificación por estado y rotación. Los estados se
// calculan en lectura (un cambio de umbral aplica retroactivamente).
type InventoryQueryUseCase struct {
	levelRepo repository.StockLevelRepository
	adjRepo   repository.AdjustmentRepository
	catalog   ports.CatalogService

	overstockMultiple  int64
	turnoverWindowDays int
}

// NewInventoryQueryUseCase construye el servicio de consultas.
func NewInventoryQueryUseCase(
	levelRepo repository.StockLevelRepository,
	adjRepo repository.AdjustmentRepository,
	catalog ports.CatalogService,
	overstockMultiple int64,
	turnoverWindowDays int,
) *InventoryQueryUseCase {
	if overstockMultiple <= 0 {
		overstockMultiple = 3
	}
	if turnoverWindowDays <= 0 {
		turnoverWindowDays = 30
	}
	return &InventoryQueryUseCase{
		levelRepo:          levelRepo,
		adjRepo:            adjRepo,
		catalog:            catalog,
		overstockMultiple:  overstockMultiple,
		turnoverWindowDays: turnoverWindowDays,
	}
}

// classify determina el estado de un producto a partir de su disponible
// agregado y su punto de reorden (función pura).
func (uc *InventoryQueryUseCase) classify(available, reorderPoint int64) string {
	switch {
	case available <= 0:
		return dto.StockStatusOutOfStock
	case available <= reorderPoint:
		return dto.StockStatusLowStock
	case reorderPoint > 0 && available > uc.overstockMultiple*reorderPoint:
		return dto.StockStatusOverstock
	default:
		return dto.StockStatusInStock
	}
}

// Summary devuelve unidades totales, valor total (on-hand por costo de
// catálogo) y conteo de productos por estado.
func (uc *InventoryQueryUseCase) Summary(ctx context.Context) (*dto.InventorySummaryResponse, error) {
	aggregates, err := uc.levelRepo.ListAggregates(ctx)
	if err != nil {
		return nil, err
	}

	out := &dto.InventorySummaryResponse{
		TotalValue: decimal.Zero,
		StatusCounts: map[string]int{
			dto.StockStatusInStock:    0,
			dto.StockStatusLowStock:   0,
			dto.StockStatusOutOfStock: 0,
			dto.StockStatusOverstock:  0,
		},
	}
	for _, agg := range aggregates {
		out.Products++
		out.TotalUnits += agg.TotalOnHand

		// El catálogo se lee fresco por operación; no se cachea entre llamadas.
		product, err := uc.catalog.GetProduct(ctx, agg.ProductID)
		if err != nil {
			return nil, err
		}
		var reorderPoint int64
		if product != nil {
			reorderPoint = product.ReorderPoint
			out.TotalValue = out.TotalValue.Add(
				decimal.NewFromInt(agg.TotalOnHand).Mul(product.Cost))
		}
		out.StatusCounts[uc.classify(agg.TotalAvailable, reorderPoint)]++
	}
	return out, nil
}

// Turnover calcula la rotación del producto en la ventana configurada:
// unidades vendidas dividido el on-hand promedio (promedio del on-hand de
// apertura, reconstruido restando los deltas de la ventana, y el de cierre).
func (uc *InventoryQueryUseCase) Turnover(ctx context.Context, productID string) (*dto.TurnoverResponse, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -uc.turnoverWindowDays)

	levels, err := uc.levelRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	closing := entity.AggregateProduct(productID, levels).TotalOnHand

	deltas, err := uc.adjRepo.SumDeltas(ctx, productID, from, to)
	if err != nil {
		return nil, err
	}
	sold, err := uc.adjRepo.SumSoldUnits(ctx, productID, from, to)
	if err != nil {
		return nil, err
	}

	opening := closing - deltas
	avg := decimal.NewFromInt(opening + closing).Div(decimal.NewFromInt(2))

	rate := decimal.Zero
	if avg.GreaterThan(decimal.Zero) {
		rate = decimal.NewFromInt(sold).Div(avg).Round(4)
	}

	return &dto.TurnoverResponse{
		ProductID:     productID,
		WindowDays:    uc.turnoverWindowDays,
		UnitsSold:     sold,
		AverageOnHand: avg,
		TurnoverRate:  rate,
	}, nil
}

// VerifyLedger coteja el replay completo del ledger de una pareja
// (producto, ubicación) contra el on-hand materializado.
func (uc *InventoryQueryUseCase) VerifyLedger(ctx context.Context, productID, locationID string) (*dto.LedgerVerificationResponse, error) {
	level, err := uc.levelRepo.Get(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	adjustments, err := uc.adjRepo.ListForReplay(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}

	var onHand int64
	if level != nil {
		onHand = level.OnHand
	}
	return &dto.LedgerVerificationResponse{
		ProductID:  productID,
		LocationID: locationID,
		OnHand:     onHand,
		Replayed:   ledger.Replay(adjustments),
		Consistent: ledger.Consistent(level, adjustments),
	}, nil
}
