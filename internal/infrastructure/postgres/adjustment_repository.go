package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"time"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo implementación del ledger de ajustes sobre PostgreSQL
// (usable con pool o tx). Solo inserta y lee: la tabla es append-only.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

const adjustmentColumns = `id, transfer_ref, product_id, location_id, from_location_id, type,
		quantity, previous_on_hand, new_on_hand, unit_cost, total_cost, reason, created_by, date, created_at`

// Create persiste un ajuste y asigna el ID monotónico (BIGSERIAL).
func (r *AdjustmentRepo) Create(ctx context.Context, a *entity.Adjustment) error {
	query := `
		INSERT INTO adjustments (transfer_ref, product_id, location_id, from_location_id, type,
			quantity, previous_on_hand, new_on_hand, unit_cost, total_cost, reason, created_by, date, created_at)
		VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13, $14)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		a.TransferRef, a.ProductID, a.LocationID, a.FromLocationID, a.Type,
		a.Quantity, a.PreviousOnHand, a.NewOnHand, a.UnitCost, a.TotalCost,
		a.Reason, a.CreatedBy, a.Date, a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("create adjustment: %w", err)
	}
	return nil
}

func scanAdjustment(rows pgx.Row) (*entity.Adjustment, error) {
	var a entity.Adjustment
	var transferRef, reason *string
	err := rows.Scan(&a.ID, &transferRef, &a.ProductID, &a.LocationID, &a.FromLocationID, &a.Type,
		&a.Quantity, &a.PreviousOnHand, &a.NewOnHand, &a.UnitCost, &a.TotalCost,
		&reason, &a.CreatedBy, &a.Date, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if transferRef != nil {
		a.TransferRef = *transferRef
	}
	if reason != nil {
		a.Reason = *reason
	}
	return &a, nil
}

// List devuelve el historial ordenado por fecha descendente, paginado y
// filtrable por producto, ubicación, tipo y rango de fechas.
func (r *AdjustmentRepo) List(ctx context.Context, f repository.AdjustmentFilter) ([]*entity.Adjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM adjustments WHERE 1=1`
	args := []any{}
	pos := 1
	if f.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.LocationID != "" {
		query += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, f.LocationID)
		pos++
	}
	if f.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, f.Type)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	return r.list(ctx, query, args...)
}

// ListForReplay devuelve todos los ajustes de la pareja en orden cronológico ascendente.
func (r *AdjustmentRepo) ListForReplay(ctx context.Context, productID, locationID string) ([]*entity.Adjustment, error) {
	query := `
		SELECT ` + adjustmentColumns + `
		FROM adjustments WHERE product_id = $1 AND location_id = $2
		ORDER BY date ASC, id ASC`
	return r.list(ctx, query, productID, locationID)
}

func (r *AdjustmentRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Adjustment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Adjustment
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// SumDeltas suma los deltas de un producto en el rango [from, to].
func (r *AdjustmentRepo) SumDeltas(ctx context.Context, productID string, from, to time.Time) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM adjustments
		 WHERE product_id = $1 AND date >= $2 AND date <= $3`,
		productID, from, to,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum deltas: %w", err)
	}
	return sum, nil
}

// SumSoldUnits suma las unidades vendidas (ajustes sold, en valor absoluto) en el rango.
func (r *AdjustmentRepo) SumSoldUnits(ctx context.Context, productID string, from, to time.Time) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(-quantity), 0) FROM adjustments
		 WHERE product_id = $1 AND type = $2 AND date >= $3 AND date <= $4`,
		productID, entity.AdjustmentTypeSold, from, to,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum sold units: %w", err)
	}
	return sum, nil
}
