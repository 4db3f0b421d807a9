package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/checkout"
)

// maxOrderResponseSize limits the response body size to prevent memory exhaustion
const maxOrderResponseSize = 1 * 1024 * 1024

// HTTPClient implements checkout.OrderService against the order service's
// REST API. It sends each submission exactly once; retry policy belongs to
// the caller, who knows whether the user asked again.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates an order client for the given base URL
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type createOrderResponse struct {
	OrderID uuid.UUID `json:"order_id"`
}

// CreateOrder submits the order and returns the ID the order service assigned
func (c *HTTPClient) CreateOrder(ctx context.Context, submission checkout.OrderSubmission) (uuid.UUID, error) {
	bodyBytes, err := json.Marshal(submission)
	if err != nil {
		return uuid.Nil, fmt.Errorf("order: failed to marshal submission: %w", err)
	}

	url := c.baseURL + "/api/v1/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return uuid.Nil, fmt.Errorf("order: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("order: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxOrderResponseSize))
	if err != nil {
		return uuid.Nil, fmt.Errorf("order: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return uuid.Nil, fmt.Errorf("order: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var created createOrderResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return uuid.Nil, fmt.Errorf("order: failed to parse response: %w", err)
	}
	if created.OrderID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("order: response missing order_id")
	}
	return created.OrderID, nil
}

var _ checkout.OrderService = (*HTTPClient)(nil)
