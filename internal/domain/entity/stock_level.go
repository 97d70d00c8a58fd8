package entity

import "time"

// StockLevel representa el stock actual de un producto en una ubicación
// (fila materializada del ledger de ajustes). Se crea de forma perezosa con el
// primer ajuste y nunca se borra físicamente.
type StockLevel struct {
	ProductID  string
	LocationID string
	OnHand     int64 // unidades físicas presentes (negativo solo con backorder)
	Committed  int64 // reservado para órdenes sin despachar
	Bin        string
	UpdatedAt  time.Time
}

// Available devuelve las unidades vendibles ahora mismo (on-hand menos comprometido).
func (s *StockLevel) Available() int64 {
	return s.OnHand - s.Committed
}

// CheckInvariants valida las invariantes del ledger para esta fila.
// Sin backorder: onHand >= 0 y committed <= onHand.
// Con backorder: onHand >= -maxBackorder y committed <= onHand + maxBackorder.
func (s *StockLevel) CheckInvariants(allowBackorder bool, maxBackorder int64) error {
	floor := int64(0)
	ceiling := s.OnHand
	if allowBackorder {
		floor = -maxBackorder
		ceiling = s.OnHand + maxBackorder
	}
	if s.OnHand < floor {
		return ErrOnHandBelowFloor
	}
	if s.Committed < 0 || s.Committed > ceiling {
		return ErrCommittedExceedsOnHand
	}
	return nil
}

// ProductStock vista agregada del stock de un producto en todas las ubicaciones.
// Derivada, nunca almacenada. "incoming" pertenece al subsistema de compras.
type ProductStock struct {
	ProductID      string
	TotalOnHand    int64
	TotalCommitted int64
	TotalAvailable int64
	Levels         []*StockLevel
}

// AggregateProduct construye la vista agregada a partir de las filas por ubicación.
func AggregateProduct(productID string, levels []*StockLevel) *ProductStock {
	agg := &ProductStock{ProductID: productID, Levels: levels}
	for _, lv := range levels {
		agg.TotalOnHand += lv.OnHand
		agg.TotalCommitted += lv.Committed
	}
	agg.TotalAvailable = agg.TotalOnHand - agg.TotalCommitted
	return agg
}
