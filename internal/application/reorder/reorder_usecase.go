package reorder

import (
	"context"
	"sort"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/ports"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// ReorderUseCase recorre el ledger contra la política de reorden de cada
// producto y propone qué reponer. Solo lee: la orden de compra la crea el
// subsistema de compras con estas sugerencias.
type ReorderUseCase struct {
	levelRepo  repository.StockLevelRepository
	catalog    ports.CatalogService
	purchasing ports.PurchasingService
}

// NewReorderUseCase construye el motor de reorden.
func NewReorderUseCase(
	levelRepo repository.StockLevelRepository,
	catalog ports.CatalogService,
	purchasing ports.PurchasingService,
) *ReorderUseCase {
	if purchasing == nil {
		purchasing = ports.NoopPurchasing{}
	}
	return &ReorderUseCase{levelRepo: levelRepo, catalog: catalog, purchasing: purchasing}
}

// SuggestReorders devuelve los productos cuyo disponible agregado está en o
// bajo su punto de reorden. Orden estable: disponible ascendente (más urgente
// primero), empates por product_id para determinismo.
func (uc *ReorderUseCase) SuggestReorders(ctx context.Context) ([]dto.ReorderSuggestionDTO, error) {
	aggregates, err := uc.levelRepo.ListAggregates(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]dto.ReorderSuggestionDTO, 0)
	for _, agg := range aggregates {
		product, err := uc.catalog.GetProduct(ctx, agg.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.HasReorderPolicy() {
			continue
		}
		if agg.TotalAvailable > product.ReorderPoint {
			continue
		}

		incoming, err := uc.purchasing.GetIncoming(ctx, agg.ProductID)
		if err != nil {
			// Compras caído no debe tumbar la sugerencia; se reporta sin incoming.
			incoming = 0
		}
		suggestions = append(suggestions, dto.ReorderSuggestionDTO{
			ProductID:    agg.ProductID,
			Available:    agg.TotalAvailable,
			ReorderPoint: product.ReorderPoint,
			SuggestedQty: product.ReorderQty,
			Incoming:     incoming,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Available != suggestions[j].Available {
			return suggestions[i].Available < suggestions[j].Available
		}
		return suggestions[i].ProductID < suggestions[j].ProductID
	})

	return suggestions, nil
}
