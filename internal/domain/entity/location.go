package entity

import "time"

// Tipos de ubicación de stock.
const (
	LocationKindWarehouse = "warehouse"
	LocationKindRetail    = "retail"
)

// Location representa una ubicación física donde se almacena inventario
// (bodega o punto de venta). Se desactiva, nunca se borra con stock.
type Location struct {
	ID        string
	Code      string // único, legible (ej. "BOG-01")
	Name      string
	Kind      string // warehouse, retail
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidKind verifica que el tipo de ubicación sea conocido.
func ValidKind(kind string) bool {
	return kind == LocationKindWarehouse || kind == LocationKindRetail
}
