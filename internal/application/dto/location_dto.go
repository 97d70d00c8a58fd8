package dto

import "time"

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Kind string `json:"kind"` // warehouse, retail
}

// LocationResponse representación de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationListResponse listado paginado de ubicaciones.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// LocationLevelsResponse stock por producto de una ubicación, paginado.
type LocationLevelsResponse struct {
	LocationID string               `json:"location_id"`
	Items      []StockLevelResponse `json:"items"`
	Page       PageResponse         `json:"page"`
}
