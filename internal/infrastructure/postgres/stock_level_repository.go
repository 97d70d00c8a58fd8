package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación de StockLevelRepository sobre PostgreSQL
// (usable con pool o tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

const stockLevelColumns = "product_id, location_id, on_hand, committed, bin, updated_at"

func scanStockLevel(row pgx.Row) (*entity.StockLevel, error) {
	var s entity.StockLevel
	var bin *string
	err := row.Scan(&s.ProductID, &s.LocationID, &s.OnHand, &s.Committed, &bin, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if bin != nil {
		s.Bin = *bin
	}
	return &s, nil
}

// Get obtiene la fila de stock o nil si la pareja nunca ha tenido ajustes.
func (r *StockLevelRepo) Get(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE product_id = $1 AND location_id = $2`
	s, err := scanStockLevel(r.q.QueryRow(ctx, query, productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene la fila y la bloquea para update (SELECT FOR UPDATE).
// SELECT FOR UPDATE sobre una fila inexistente no bloquea nada: dos primeros
// ajustes concurrentes de una pareja nueva partirían ambos de cero y el segundo
// pisaría al primero. Por eso, si la fila no existe, se materializa en cero
// dentro de la misma transacción y se vuelve a tomar el bloqueo.
func (r *StockLevelRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`
	s, err := scanStockLevel(r.q.QueryRow(ctx, query, productID, locationID))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get stock level for update: %w", err)
	}

	insert := `
		INSERT INTO stock_levels (product_id, location_id)
		VALUES ($1, $2)
		ON CONFLICT (product_id, location_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, productID, locationID); err != nil {
		return nil, fmt.Errorf("init stock level: %w", err)
	}
	s, err = scanStockLevel(r.q.QueryRow(ctx, query, productID, locationID))
	if err != nil {
		return nil, fmt.Errorf("get stock level for update: %w", err)
	}
	return s, nil
}

// Upsert inserta o actualiza la fila de stock (por producto y ubicación).
func (r *StockLevelRepo) Upsert(ctx context.Context, level *entity.StockLevel) error {
	query := `
		INSERT INTO stock_levels (product_id, location_id, on_hand, committed, bin, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET on_hand = EXCLUDED.on_hand, committed = EXCLUDED.committed,
		              bin = EXCLUDED.bin, updated_at = now()`
	_, err := r.q.Exec(ctx, query, level.ProductID, level.LocationID, level.OnHand, level.Committed, level.Bin)
	if err != nil {
		return fmt.Errorf("upsert stock level: %w", err)
	}
	return nil
}

// ListByProduct lista las filas de stock de un producto en todas las ubicaciones.
func (r *StockLevelRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE product_id = $1
		ORDER BY location_id`
	return r.list(ctx, query, productID)
}

// ListByLocation lista las filas de stock de una ubicación, paginado.
func (r *StockLevelRepo) ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.StockLevel, error) {
	query := `
		SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE location_id = $1
		ORDER BY product_id LIMIT $2 OFFSET $3`
	return r.list(ctx, query, locationID, limit, offset)
}

func (r *StockLevelRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockLevel, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLevel
	for rows.Next() {
		s, err := scanStockLevel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// ListAggregates devuelve la vista agregada por producto sobre todas las ubicaciones.
func (r *StockLevelRepo) ListAggregates(ctx context.Context) ([]*entity.ProductStock, error) {
	query := `
		SELECT product_id, COALESCE(SUM(on_hand), 0), COALESCE(SUM(committed), 0)
		FROM stock_levels
		GROUP BY product_id
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list aggregates: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductStock
	for rows.Next() {
		var agg entity.ProductStock
		if err := rows.Scan(&agg.ProductID, &agg.TotalOnHand, &agg.TotalCommitted); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		agg.TotalAvailable = agg.TotalOnHand - agg.TotalCommitted
		list = append(list, &agg)
	}
	return list, rows.Err()
}

// HasStock indica si alguna fila de la ubicación tiene on-hand > 0.
func (r *StockLevelRepo) HasStock(ctx context.Context, locationID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM stock_levels WHERE location_id = $1 AND on_hand > 0)`,
		locationID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has stock: %w", err)
	}
	return exists, nil
}
