package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger/internal/application/ports"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/pkg/config"
)

// Verificar en tiempo de compilación que HTTPClient implementa CatalogService.
var _ ports.CatalogService = (*HTTPClient)(nil)

// HTTPClient adaptador hacia el servicio de catálogo vía REST.
// No cachea nada: la política de reorden y el costo se leen frescos por operación.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient construye el cliente con la configuración del colaborador.
func NewHTTPClient(cfg config.CatalogConfig) *HTTPClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// productPayload respuesta del catálogo para GET /products/:id.
type productPayload struct {
	ProductID      string          `json:"product_id"`
	Cost           decimal.Decimal `json:"cost"`
	ReorderPoint   int64           `json:"reorder_point"`
	ReorderQty     int64           `json:"reorder_qty"`
	AllowBackorder bool            `json:"allow_backorder"`
	MaxBackorder   int64           `json:"max_backorder"`
}

// GetProduct consulta el producto en el catálogo. 404 -> ErrProductNotFound.
func (c *HTTPClient) GetProduct(ctx context.Context, productID string) (*ports.ProductInfo, error) {
	url := fmt.Sprintf("%s/products/%s", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog call: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// sigue abajo
	case http.StatusNotFound:
		return nil, domain.ErrProductNotFound
	default:
		return nil, fmt.Errorf("catalog respondió %d", resp.StatusCode)
	}

	var p productPayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("catalog decode: %w", err)
	}
	if p.ProductID == "" {
		p.ProductID = productID
	}
	return &ports.ProductInfo{
		ProductID:      p.ProductID,
		Cost:           p.Cost,
		ReorderPoint:   p.ReorderPoint,
		ReorderQty:     p.ReorderQty,
		AllowBackorder: p.AllowBackorder,
		MaxBackorder:   p.MaxBackorder,
	}, nil
}
