package repository

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// StockLevelRepository define el puerto para consultar/actualizar stock por
// producto+ubicación. La escritura solo se usa dentro de transacciones del
// procesador de ajustes; el resto del sistema lee.
type StockLevelRepository interface {
	// Get devuelve la fila o nil si no existe (nunca ha habido ajustes para la pareja).
	Get(ctx context.Context, productID, locationID string) (*entity.StockLevel, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). Si no existe,
	// la materializa en cero y la devuelve bloqueada: el primer ajuste de una
	// pareja también debe serializarse contra sus concurrentes.
	GetForUpdate(ctx context.Context, productID, locationID string) (*entity.StockLevel, error)
	Upsert(ctx context.Context, level *entity.StockLevel) error

	ListByProduct(ctx context.Context, productID string) ([]*entity.StockLevel, error)
	ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.StockLevel, error)

	// ListAggregates devuelve la vista agregada por producto (todas las ubicaciones).
	ListAggregates(ctx context.Context) ([]*entity.ProductStock, error)
	// HasStock indica si alguna fila de la ubicación tiene on-hand > 0.
	HasStock(ctx context.Context, locationID string) (bool, error)
}
