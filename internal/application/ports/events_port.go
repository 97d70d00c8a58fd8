package ports

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// AdjustmentPublisher publica los ajustes aplicados para suscriptores externos
// (tooling de compras, reporting). La publicación ocurre después del commit y
// es best-effort: un fallo aquí nunca revierte el ledger.
type AdjustmentPublisher interface {
	PublishApplied(ctx context.Context, adjustments []*entity.Adjustment) error
}

// NoopPublisher descarta los eventos (publicación deshabilitada).
type NoopPublisher struct{}

// PublishApplied no hace nada.
func (NoopPublisher) PublishApplied(ctx context.Context, adjustments []*entity.Adjustment) error {
	return nil
}
