package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcart "github.com/shopmall/backend/internal/application/cart"
	"github.com/shopmall/backend/internal/application/session"
	"github.com/shopmall/backend/internal/domain/address"
	"github.com/shopmall/backend/internal/domain/cart"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/checkout"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
	"github.com/shopmall/backend/internal/infrastructure/auth"
	"github.com/shopmall/backend/internal/infrastructure/cache"
	"github.com/shopmall/backend/internal/infrastructure/config"
	"github.com/shopmall/backend/internal/infrastructure/event"
	"github.com/shopmall/backend/internal/interfaces/http/middleware"
	"github.com/shopmall/backend/internal/interfaces/http/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memAccountStore is an in-memory cart.AccountCartStore for handler tests
type memAccountStore struct {
	mu    sync.Mutex
	lines map[uuid.UUID][]cart.PersistedLine
}

func newMemAccountStore() *memAccountStore {
	return &memAccountStore{lines: make(map[uuid.UUID][]cart.PersistedLine)}
}

func (s *memAccountStore) Load(_ context.Context, userID uuid.UUID) ([]cart.PersistedLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]cart.PersistedLine(nil), s.lines[userID]...), nil
}

func (s *memAccountStore) Replace(_ context.Context, userID uuid.UUID, lines []cart.PersistedLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[userID] = append([]cart.PersistedLine(nil), lines...)
	return nil
}

func (s *memAccountStore) RemoveProducts(_ context.Context, userID uuid.UUID, productIDs []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := make(map[uuid.UUID]bool, len(productIDs))
	for _, id := range productIDs {
		drop[id] = true
	}
	kept := make([]cart.PersistedLine, 0, len(s.lines[userID]))
	for _, line := range s.lines[userID] {
		if !drop[line.ProductID] {
			kept = append(kept, line)
		}
	}
	s.lines[userID] = kept
	return nil
}

func (s *memAccountStore) Clear(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lines, userID)
	return nil
}

// memCatalog serves a fixed product set
type memCatalog struct {
	products map[uuid.UUID]catalog.Product
}

func (c *memCatalog) Product(_ context.Context, productID uuid.UUID) (*catalog.Product, error) {
	if product, ok := c.products[productID]; ok {
		return &product, nil
	}
	return nil, shared.ErrNotFound
}

type nullDelivery struct{}

func (nullDelivery) Quote(_ context.Context, req checkout.QuoteRequest) (*checkout.QuoteResult, error) {
	result := &checkout.QuoteResult{
		Fees:  make(map[uuid.UUID]valueobject.Money),
		Total: valueobject.ZeroVND(),
	}
	for _, shipment := range req.Shipments {
		result.Fees[shipment.SellerID] = valueobject.ZeroVND()
	}
	return result, nil
}

type nullAddressRepo struct{}

func (nullAddressRepo) Save(_ context.Context, _ *address.Address) error { return nil }
func (nullAddressRepo) FindByID(_ context.Context, _ uuid.UUID) (*address.Address, error) {
	return nil, shared.ErrNotFound
}
func (nullAddressRepo) FindByUser(_ context.Context, _ uuid.UUID) ([]*address.Address, error) {
	return nil, nil
}
func (nullAddressRepo) FindDefault(_ context.Context, _ uuid.UUID) (*address.Address, error) {
	return nil, shared.ErrNotFound
}
func (nullAddressRepo) SetDefault(_ context.Context, _, _ uuid.UUID) error { return nil }
func (nullAddressRepo) Delete(_ context.Context, _ uuid.UUID) error        { return nil }

type nullOrderService struct{}

func (nullOrderService) CreateOrder(_ context.Context, _ checkout.OrderSubmission) (uuid.UUID, error) {
	return uuid.New(), nil
}

// fixture wires the full request path: gin, identity middleware, session
// registry, event bus with the merge handler, and in-memory stores
type fixture struct {
	engine       *gin.Engine
	guestStore   cart.GuestCartStore
	accountStore *memAccountStore
	catalog      *memCatalog
	jwt          *auth.JWTService
	blacklist    auth.TokenBlacklist
	registry     *session.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterValidations())
	logger := zap.NewNop()

	guestStore := cache.NewInMemoryGuestCartStore(time.Hour)
	accountStore := newMemAccountStore()
	productCatalog := &memCatalog{products: make(map[uuid.UUID]catalog.Product)}

	registry := session.NewRegistry(session.Deps{
		GuestStore:      guestStore,
		AccountStore:    accountStore,
		Catalog:         productCatalog,
		Delivery:        nullDelivery{},
		Addresses:       nullAddressRepo{},
		Orders:          nullOrderService{},
		Logger:          logger,
		PersistDebounce: 10 * time.Millisecond,
	})
	t.Cleanup(func() { _ = registry.Close() })

	bus := event.NewInMemoryEventBus(logger)
	merger := appcart.NewCartMerger(guestStore, accountStore, bus, logger)
	idempotency := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idempotency.Close() })
	bus.Subscribe(appcart.NewSessionEventHandler(merger, idempotency, logger))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "handler-test-secret",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "shopmall",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	engine := gin.New()
	router.NewRouter(engine,
		router.WithMiddleware(middleware.Identity(middleware.IdentityConfig{
			JWTService: jwtService,
			Blacklist:  blacklist,
			Logger:     logger,
		})),
	).
		Register(NewCartHandler(registry)).
		Register(NewSessionHandler(registry, bus, jwtService, blacklist)).
		Setup()

	return &fixture{
		engine:       engine,
		guestStore:   guestStore,
		accountStore: accountStore,
		catalog:      productCatalog,
		jwt:          jwtService,
		blacklist:    blacklist,
		registry:     registry,
	}
}

func (f *fixture) addProduct(price int64) catalog.Product {
	product := catalog.Product{
		ProductID:   uuid.New(),
		Name:        "Test product",
		Price:       valueobject.NewMoneyVNDFromInt(price),
		SellerID:    uuid.New(),
		SellerName:  "Test seller",
		WeightGrams: 250,
		InStock:     true,
	}
	f.catalog.products[product.ProductID] = product
	return product
}

func (f *fixture) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	recorder := httptest.NewRecorder()
	f.engine.ServeHTTP(recorder, req)
	return recorder
}

func guestHeaders(deviceID uuid.UUID) map[string]string {
	return map[string]string{"X-Device-ID": deviceID.String()}
}

func bearerHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func decodeData(t *testing.T, recorder *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "expected success envelope, got %s", recorder.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) (string, []string) {
	t.Helper()
	var envelope struct {
		Success bool `json:"success"`
		Error   *struct {
			Code    string   `json:"code"`
			Message string   `json:"message"`
			Details []string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	return envelope.Error.Code, envelope.Error.Details
}

func TestCartHandler_GuestAddAndView(t *testing.T) {
	f := newFixture(t)
	deviceID := uuid.New()
	product := f.addProduct(55000)

	recorder := f.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{
		ProductID: product.ProductID.String(),
		Quantity:  2,
	}, guestHeaders(deviceID))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var view appcart.CartView
	decodeData(t, recorder, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.True(t, view.Items[0].Selected, "new lines start selected")

	recorder = f.do(t, http.MethodGet, "/api/v1/cart", nil, guestHeaders(deviceID))
	require.Equal(t, http.StatusOK, recorder.Code)
	decodeData(t, recorder, &view)
	assert.Len(t, view.Items, 1)
}

func TestCartHandler_MissingDeviceHeader(t *testing.T) {
	f := newFixture(t)

	recorder := f.do(t, http.MethodGet, "/api/v1/cart", nil, nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCartHandler_UnknownProductIs404(t *testing.T) {
	f := newFixture(t)
	deviceID := uuid.New()

	recorder := f.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{
		ProductID: uuid.New().String(),
		Quantity:  1,
	}, guestHeaders(deviceID))

	require.Equal(t, http.StatusNotFound, recorder.Code)
	code, _ := decodeError(t, recorder)
	assert.Equal(t, "NOT_FOUND", code)
}

func TestCartHandler_QuantityOutOfRangeRejected(t *testing.T) {
	f := newFixture(t)
	deviceID := uuid.New()
	product := f.addProduct(10000)

	for _, quantity := range []int{0, -1, 1000} {
		recorder := f.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{
			ProductID: product.ProductID.String(),
			Quantity:  quantity,
		}, guestHeaders(deviceID))
		assert.Equal(t, http.StatusBadRequest, recorder.Code, "quantity %d", quantity)
	}
}

func TestCartHandler_RemoveUnknownItemIs404(t *testing.T) {
	f := newFixture(t)
	deviceID := uuid.New()

	recorder := f.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/cart/items/%s", uuid.New()), nil, guestHeaders(deviceID))

	require.Equal(t, http.StatusNotFound, recorder.Code)
	code, _ := decodeError(t, recorder)
	assert.Equal(t, "ITEM_NOT_FOUND", code)
}

func TestCartHandler_ToggleAndDeselectAll(t *testing.T) {
	f := newFixture(t)
	deviceID := uuid.New()
	product := f.addProduct(20000)

	recorder := f.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{
		ProductID: product.ProductID.String(),
		Quantity:  1,
	}, guestHeaders(deviceID))
	require.Equal(t, http.StatusOK, recorder.Code)

	var view appcart.CartView
	decodeData(t, recorder, &view)
	itemID := view.Items[0].ID

	recorder = f.do(t, http.MethodPost, fmt.Sprintf("/api/v1/cart/items/%s/toggle", itemID), nil, guestHeaders(deviceID))
	require.Equal(t, http.StatusOK, recorder.Code)
	decodeData(t, recorder, &view)
	assert.False(t, view.Items[0].Selected)

	recorder = f.do(t, http.MethodPost, "/api/v1/cart/select-all", nil, guestHeaders(deviceID))
	require.Equal(t, http.StatusOK, recorder.Code)
	decodeData(t, recorder, &view)
	assert.True(t, view.Items[0].Selected)
}
