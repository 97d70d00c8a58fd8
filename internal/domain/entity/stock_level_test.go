package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

func TestStockLevel_CheckInvariants(t *testing.T) {
	cases := []struct {
		name           string
		onHand         int64
		committed      int64
		allowBackorder bool
		maxBackorder   int64
		wantErr        error
	}{
		{name: "fila sana", onHand: 10, committed: 3},
		{name: "todo comprometido", onHand: 10, committed: 10},
		{name: "on-hand negativo sin backorder", onHand: -1, wantErr: entity.ErrOnHandBelowFloor},
		{name: "committed excede on-hand", onHand: 5, committed: 6, wantErr: entity.ErrCommittedExceedsOnHand},
		{name: "committed negativo", onHand: 5, committed: -1, wantErr: entity.ErrCommittedExceedsOnHand},
		{name: "backorder dentro del tope", onHand: -5, allowBackorder: true, maxBackorder: 5},
		{name: "backorder bajo el piso", onHand: -6, allowBackorder: true, maxBackorder: 5, wantErr: entity.ErrOnHandBelowFloor},
		{name: "committed con colchón de backorder", onHand: 2, committed: 7, allowBackorder: true, maxBackorder: 5},
		{name: "committed excede incluso el colchón", onHand: 2, committed: 8, allowBackorder: true, maxBackorder: 5, wantErr: entity.ErrCommittedExceedsOnHand},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			level := &entity.StockLevel{OnHand: tc.onHand, Committed: tc.committed}
			err := level.CheckInvariants(tc.allowBackorder, tc.maxBackorder)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAggregateProduct(t *testing.T) {
	agg := entity.AggregateProduct("SKU-001", []*entity.StockLevel{
		{ProductID: "SKU-001", LocationID: "a", OnHand: 10, Committed: 2},
		{ProductID: "SKU-001", LocationID: "b", OnHand: 5, Committed: 1},
	})
	assert.Equal(t, int64(15), agg.TotalOnHand)
	assert.Equal(t, int64(3), agg.TotalCommitted)
	assert.Equal(t, int64(12), agg.TotalAvailable)

	empty := entity.AggregateProduct("SKU-NUEVO", nil)
	assert.Equal(t, int64(0), empty.TotalOnHand)
	assert.Equal(t, int64(0), empty.TotalAvailable)
}
