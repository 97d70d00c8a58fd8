package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// ProductInfo vista del producto que expone el catálogo: costo y política de
// reorden. El ledger no la cachea entre llamadas; se lee fresca por operación.
type ProductInfo struct {
	ProductID      string
	Cost           decimal.Decimal
	ReorderPoint   int64
	ReorderQty     int64
	AllowBackorder bool
	MaxBackorder   int64 // 0 = usar el default configurado del servicio
}

// HasReorderPolicy indica si el producto participa del motor de reorden.
func (p ProductInfo) HasReorderPolicy() bool {
	return p.ReorderQty > 0
}

// CatalogService puerto hacia el colaborador de catálogo (existencia de
// producto, costo, política de reorden). Se consulta siempre antes de tomar
// cualquier bloqueo de fila.
type CatalogService interface {
	GetProduct(ctx context.Context, productID string) (*ProductInfo, error)
}

// PurchasingService puerto hacia el colaborador de compras. El conteo
// "incoming" (órdenes de compra abiertas sin recibir) pertenece a compras,
// nunca al ledger.
type PurchasingService interface {
	GetIncoming(ctx context.Context, productID string) (int64, error)
}

// NoopPurchasing implementación por defecto cuando no hay integración de compras.
type NoopPurchasing struct{}

// GetIncoming devuelve cero: sin integración no hay pedidos pendientes visibles.
func (NoopPurchasing) GetIncoming(ctx context.Context, productID string) (int64, error) {
	return 0, nil
}
