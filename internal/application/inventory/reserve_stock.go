package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/tu-usuario/stock-ledger/internal/application/ports"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// ReserveStockUseCase muta la cantidad comprometida (committed) bajo el mismo
// bloqueo de fila que los ajustes. Las reservas no cambian on-hand y por eso no
// generan eventos en el ledger de ajustes.
type ReserveStockUseCase struct {
	txRunner     TxRunner
	locationRepo repository.LocationRepository
	catalog      ports.CatalogService

	defaultMaxBackorder int64
}

// NewReserveStockUseCase construye el caso de uso de reservas.
func NewReserveStockUseCase(
	txRunner TxRunner,
	locationRepo repository.LocationRepository,
	catalog ports.CatalogService,
	defaultMaxBackorder int64,
) *ReserveStockUseCase {
	return &ReserveStockUseCase{
		txRunner:            txRunner,
		locationRepo:        locationRepo,
		catalog:             catalog,
		defaultMaxBackorder: defaultMaxBackorder,
	}
}

// Reserve compromete qty unidades para una orden sin despachar.
// Falla con stock insuficiente si committed excedería on-hand (más el tope de
// backorder si el producto lo permite).
func (uc *ReserveStockUseCase) Reserve(ctx context.Context, productID, locationID string, qty int64) error {
	return uc.shift(ctx, productID, locationID, qty)
}

// Release libera qty unidades comprometidas (orden cancelada o despachada por
// fuera). Liberar más de lo reservado rompe la invariante y señala un defecto
// en el sistema de órdenes.
func (uc *ReserveStockUseCase) Release(ctx context.Context, productID, locationID string, qty int64) error {
	return uc.shift(ctx, productID, locationID, -qty)
}

func (uc *ReserveStockUseCase) shift(ctx context.Context, productID, locationID string, delta int64) error {
	if productID == "" || locationID == "" || delta == 0 {
		return domain.ErrInvalidInput
	}

	product, err := uc.catalog.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrProductNotFound
	}
	maxBackorder := product.MaxBackorder
	if maxBackorder == 0 {
		maxBackorder = uc.defaultMaxBackorder
	}

	loc, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return err
	}
	if loc == nil {
		return domain.ErrLocationNotFound
	}

	return uc.txRunner.Run(ctx, func(
		_ repository.AdjustmentRepository,
		levelRepo repository.StockLevelRepository,
	) error {
		level, err := levelRepo.GetForUpdate(ctx, productID, locationID)
		if err != nil {
			return err
		}
		level.Committed += delta
		if err := level.CheckInvariants(product.AllowBackorder, maxBackorder); err != nil {
			if delta > 0 && errors.Is(err, entity.ErrCommittedExceedsOnHand) {
				// Reservar de más es insuficiencia recuperable, no defecto.
				return domain.ErrInsufficientStock
			}
			return domain.ErrInvariantViolation
		}
		level.UpdatedAt = time.Now()
		return levelRepo.Upsert(ctx, level)
	})
}
