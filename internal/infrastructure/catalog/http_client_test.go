package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Product(t *testing.T) {
	productID := uuid.New()
	sellerID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, fmt.Sprintf("/api/v1/products/%s", productID), r.URL.Path)
		_ = json.NewEncoder(w).Encode(catalog.Product{
			ProductID:   productID,
			Name:        "Bamboo cutting board",
			Price:       valueobject.NewMoneyVNDFromInt(120000),
			SellerID:    sellerID,
			SellerName:  "Kitchen Corner",
			WeightGrams: 900,
			InStock:     true,
		})
	}))
	t.Cleanup(server.Close)

	client := NewHTTPClient(server.URL, time.Second)
	product, err := client.Product(context.Background(), productID)

	require.NoError(t, err)
	assert.Equal(t, productID, product.ProductID)
	assert.Equal(t, "Bamboo cutting board", product.Name)
	assert.True(t, product.Price.Equals(valueobject.NewMoneyVNDFromInt(120000)))
	assert.Equal(t, sellerID, product.SellerID)
	assert.True(t, product.InStock)
}

func TestHTTPClient_ProductNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client := NewHTTPClient(server.URL, time.Second)
	_, err := client.Product(context.Background(), uuid.New())

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestHTTPClient_ProductServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewHTTPClient(server.URL, time.Second)
	_, err := client.Product(context.Background(), uuid.New())

	require.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrNotFound, "outage must not read as a delisted product")
}
