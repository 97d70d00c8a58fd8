package inventory

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el procesador de
// ajustes: mutación de stock_levels y append al ledger se confirman juntos o
// ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		adjRepo repository.AdjustmentRepository,
		levelRepo repository.StockLevelRepository,
	) error) error
}
