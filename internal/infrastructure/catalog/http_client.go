package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/shared"
)

// maxCatalogResponseSize limits the response body size to prevent memory exhaustion
const maxCatalogResponseSize = 1 * 1024 * 1024

// HTTPClient implements catalog.Service against the catalog service's REST API
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a catalog client for the given base URL
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Product fetches one product by ID. A 404 maps to shared.ErrNotFound so
// callers can distinguish a delisted product from a catalog outage.
func (c *HTTPClient) Product(ctx context.Context, productID uuid.UUID) (*catalog.Product, error) {
	url := fmt.Sprintf("%s/api/v1/products/%s", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, shared.ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("catalog: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogResponseSize))
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to read response: %w", err)
	}

	var product catalog.Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("catalog: failed to parse response: %w", err)
	}
	return &product, nil
}

var _ catalog.Service = (*HTTPClient)(nil)
