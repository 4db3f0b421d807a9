package order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/checkout"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSubmission(userID uuid.UUID) checkout.OrderSubmission {
	return checkout.OrderSubmission{
		UserID:        userID,
		PaymentMethod: checkout.PaymentMethodCOD,
		Lines: []checkout.OrderLine{{
			ProductID:       uuid.New(),
			ProductName:     "Ceramic mug",
			Quantity:        2,
			PriceAtPurchase: valueobject.NewMoneyVNDFromInt(55000),
		}},
		ShippingFee: valueobject.NewMoneyVNDFromInt(18000),
		Discount:    valueobject.ZeroVND(),
	}
}

func TestHTTPClient_CreateOrder(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()

	var received checkout.OrderSubmission
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/orders", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"order_id": orderID})
	}))
	t.Cleanup(server.Close)

	client := NewHTTPClient(server.URL, time.Second)
	created, err := client.CreateOrder(context.Background(), testSubmission(userID))

	require.NoError(t, err)
	assert.Equal(t, orderID, created)
	assert.Equal(t, userID, received.UserID)
	require.Len(t, received.Lines, 1)
	assert.True(t, received.Lines[0].PriceAtPurchase.Equals(valueobject.NewMoneyVNDFromInt(55000)))
}

func TestHTTPClient_CreateOrderRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"product out of stock"}`))
	}))
	t.Cleanup(server.Close)

	client := NewHTTPClient(server.URL, time.Second)
	_, err := client.CreateOrder(context.Background(), testSubmission(uuid.New()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 422")
	assert.Contains(t, err.Error(), "out of stock")
}

func TestHTTPClient_CreateOrderMissingOrderID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{})
	}))
	t.Cleanup(server.Close)

	client := NewHTTPClient(server.URL, time.Second)
	_, err := client.CreateOrder(context.Background(), testSubmission(uuid.New()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing order_id")
}
