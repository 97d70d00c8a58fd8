package ledger

import (
	"sort"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// Replay suma los deltas de los ajustes de una pareja (producto, ubicación) en
// orden cronológico partiendo de cero. El resultado debe coincidir con el
// on-hand materializado en stock_levels; si no coincide, el ledger y la caché
// divergieron y hay un defecto que investigar (servicio de dominio puro).
func Replay(adjustments []*entity.Adjustment) int64 {
	ordered := make([]*entity.Adjustment, len(adjustments))
	copy(ordered, adjustments)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].ID < ordered[j].ID
	})

	var onHand int64
	for _, a := range ordered {
		onHand += a.Quantity
	}
	return onHand
}

// Consistent verifica que el on-hand materializado coincida con el replay del ledger.
func Consistent(level *entity.StockLevel, adjustments []*entity.Adjustment) bool {
	if level == nil {
		return Replay(adjustments) == 0
	}
	return Replay(adjustments) == level.OnHand
}
