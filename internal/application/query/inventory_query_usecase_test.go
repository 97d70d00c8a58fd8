package query_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/ports"
	"github.com/tu-usuario/stock-ledger/internal/application/query"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

type stubLevelRepo struct {
	aggregates []*entity.ProductStock
	byProduct  map[string][]*entity.StockLevel
	byPair     map[string]*entity.StockLevel
}

func (s *stubLevelRepo) Get(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	return s.byPair[productID+"|"+locationID], nil
}
func (s *stubLevelRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	return nil, nil
}
func (s *stubLevelRepo) Upsert(ctx context.Context, level *entity.StockLevel) error { return nil }
func (s *stubLevelRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockLevel, error) {
	return s.byProduct[productID], nil
}
func (s *stubLevelRepo) ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.StockLevel, error) {
	return nil, nil
}
func (s *stubLevelRepo) ListAggregates(ctx context.Context) ([]*entity.ProductStock, error) {
	return s.aggregates, nil
}
func (s *stubLevelRepo) HasStock(ctx context.Context, locationID string) (bool, error) {
	return false, nil
}

type stubAdjRepo struct {
	deltas    int64
	sold      int64
	forReplay []*entity.Adjustment
}

func (s *stubAdjRepo) Create(ctx context.Context, a *entity.Adjustment) error { return nil }
func (s *stubAdjRepo) List(ctx context.Context, f repository.AdjustmentFilter) ([]*entity.Adjustment, error) {
	return nil, nil
}
func (s *stubAdjRepo) ListForReplay(ctx context.Context, productID, locationID string) ([]*entity.Adjustment, error) {
	return s.forReplay, nil
}
func (s *stubAdjRepo) SumDeltas(ctx context.Context, productID string, from, to time.Time) (int64, error) {
	return s.deltas, nil
}
func (s *stubAdjRepo) SumSoldUnits(ctx context.Context, productID string, from, to time.Time) (int64, error) {
	return s.sold, nil
}

type stubCatalog struct {
	products map[string]ports.ProductInfo
}

func (s *stubCatalog) GetProduct(ctx context.Context, productID string) (*ports.ProductInfo, error) {
	p, ok := s.products[productID]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func TestSummary_ClasificaPorEstado(t *testing.T) {
	levels := &stubLevelRepo{aggregates: []*entity.ProductStock{
		{ProductID: "SKU-AGOTADO", TotalOnHand: 0, TotalAvailable: 0},
		{ProductID: "SKU-BAJO", TotalOnHand: 10, TotalAvailable: 10},
		{ProductID: "SKU-SANO", TotalOnHand: 100, TotalAvailable: 100},
		{ProductID: "SKU-EXCESO", TotalOnHand: 200, TotalAvailable: 200},
	}}
	catalog := &stubCatalog{products: map[string]ports.ProductInfo{
		"SKU-AGOTADO": {ProductID: "SKU-AGOTADO", Cost: decimal.NewFromInt(5), ReorderPoint: 50},
		"SKU-BAJO":    {ProductID: "SKU-BAJO", Cost: decimal.NewFromInt(5), ReorderPoint: 50},
		"SKU-SANO":    {ProductID: "SKU-SANO", Cost: decimal.NewFromInt(5), ReorderPoint: 50},
		"SKU-EXCESO":  {ProductID: "SKU-EXCESO", Cost: decimal.NewFromInt(5), ReorderPoint: 50},
	}}

	// overstock = disponible > 3x el punto de reorden (150).
	uc := query.NewInventoryQueryUseCase(levels, &stubAdjRepo{}, catalog, 3, 30)
	out, err := uc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, out.Products)
	assert.Equal(t, int64(310), out.TotalUnits)
	assert.True(t, out.TotalValue.Equal(decimal.NewFromInt(1550)), "valor total: %s", out.TotalValue)
	assert.Equal(t, 1, out.StatusCounts[dto.StockStatusOutOfStock])
	assert.Equal(t, 1, out.StatusCounts[dto.StockStatusLowStock])
	assert.Equal(t, 1, out.StatusCounts[dto.StockStatusInStock])
	assert.Equal(t, 1, out.StatusCounts[dto.StockStatusOverstock])
}

func TestSummary_ProductoFueraDeCatalogo(t *testing.T) {
	// Un producto que el catálogo ya no conoce cuenta unidades pero no valor,
	// y sin punto de reorden se clasifica solo por disponible.
	levels := &stubLevelRepo{aggregates: []*entity.ProductStock{
		{ProductID: "SKU-HUERFANO", TotalOnHand: 8, TotalAvailable: 8},
	}}
	uc := query.NewInventoryQueryUseCase(levels, &stubAdjRepo{}, &stubCatalog{}, 3, 30)

	out, err := uc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(8), out.TotalUnits)
	assert.True(t, out.TotalValue.IsZero())
	assert.Equal(t, 1, out.StatusCounts[dto.StockStatusInStock])
}

func TestTurnover_CalculaLaRotacion(t *testing.T) {
	// Cierre 50, deltas netos +20 en la ventana => apertura 30.
	// Promedio (30+50)/2 = 40; vendidas 30 => rotación 0.75.
	levels := &stubLevelRepo{byProduct: map[string][]*entity.StockLevel{
		"SKU-001": {
			{ProductID: "SKU-001", LocationID: "loc-a", OnHand: 30},
			{ProductID: "SKU-001", LocationID: "loc-b", OnHand: 20},
		},
	}}
	adjs := &stubAdjRepo{deltas: 20, sold: 30}

	uc := query.NewInventoryQueryUseCase(levels, adjs, &stubCatalog{}, 3, 30)
	out, err := uc.Turnover(context.Background(), "SKU-001")
	require.NoError(t, err)

	assert.Equal(t, 30, out.WindowDays)
	assert.Equal(t, int64(30), out.UnitsSold)
	assert.True(t, out.AverageOnHand.Equal(decimal.NewFromInt(40)))
	assert.True(t, out.TurnoverRate.Equal(decimal.RequireFromString("0.75")))
}

func TestTurnover_SinStockPromedioCero(t *testing.T) {
	levels := &stubLevelRepo{byProduct: map[string][]*entity.StockLevel{}}
	uc := query.NewInventoryQueryUseCase(levels, &stubAdjRepo{}, &stubCatalog{}, 3, 30)

	out, err := uc.Turnover(context.Background(), "SKU-VACIO")
	require.NoError(t, err)
	assert.True(t, out.TurnoverRate.IsZero())
}

func TestVerifyLedger(t *testing.T) {
	now := time.Now()
	adjs := []*entity.Adjustment{
		{ID: 1, ProductID: "SKU-001", LocationID: "loc-a", Quantity: 30, Date: now.Add(-2 * time.Hour)},
		{ID: 2, ProductID: "SKU-001", LocationID: "loc-a", Quantity: -12, Date: now.Add(-time.Hour)},
	}

	t.Run("consistente", func(t *testing.T) {
		levels := &stubLevelRepo{byPair: map[string]*entity.StockLevel{
			"SKU-001|loc-a": {ProductID: "SKU-001", LocationID: "loc-a", OnHand: 18},
		}}
		uc := query.NewInventoryQueryUseCase(levels, &stubAdjRepo{forReplay: adjs}, &stubCatalog{}, 3, 30)

		out, err := uc.VerifyLedger(context.Background(), "SKU-001", "loc-a")
		require.NoError(t, err)
		assert.Equal(t, int64(18), out.OnHand)
		assert.Equal(t, int64(18), out.Replayed)
		assert.True(t, out.Consistent)
	})

	t.Run("divergente", func(t *testing.T) {
		levels := &stubLevelRepo{byPair: map[string]*entity.StockLevel{
			"SKU-001|loc-a": {ProductID: "SKU-001", LocationID: "loc-a", OnHand: 25},
		}}
		uc := query.NewInventoryQueryUseCase(levels, &stubAdjRepo{forReplay: adjs}, &stubCatalog{}, 3, 30)

		out, err := uc.VerifyLedger(context.Background(), "SKU-001", "loc-a")
		require.NoError(t, err)
		assert.False(t, out.Consistent)
	})

	t.Run("pareja sin filas ni ajustes", func(t *testing.T) {
		uc := query.NewInventoryQueryUseCase(&stubLevelRepo{}, &stubAdjRepo{}, &stubCatalog{}, 3, 30)
		out, err := uc.VerifyLedger(context.Background(), "SKU-NUEVO", "loc-a")
		require.NoError(t, err)
		assert.True(t, out.Consistent)
	})
}
