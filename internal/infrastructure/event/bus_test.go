package event

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/cart"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// captureHandler records the events it receives
type captureHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     bool
}

func (h *captureHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	h.received = append(h.received, evt)
	if h.fail {
		return assert.AnError
	}
	return nil
}

func (h *captureHandler) EventTypes() []string {
	return h.types
}

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	loginHandler := &captureHandler{types: []string{cart.EventTypeUserLoggedIn}}
	logoutHandler := &captureHandler{types: []string{cart.EventTypeUserLoggedOut}}
	bus.Subscribe(loginHandler)
	bus.Subscribe(logoutHandler)

	evt := cart.NewUserLoggedInEvent(uuid.New(), uuid.New())
	require.NoError(t, bus.Publish(context.Background(), evt))

	require.Len(t, loginHandler.received, 1)
	assert.Equal(t, evt.EventID(), loginHandler.received[0].EventID())
	assert.Empty(t, logoutHandler.received)
}

func TestInMemoryEventBus_CatchAllHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	all := &captureHandler{}
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(),
		cart.NewUserLoggedInEvent(uuid.New(), uuid.New()),
		cart.NewUserLoggedOutEvent(uuid.New(), uuid.New()),
	))

	assert.Len(t, all.received, 2)
}

func TestInMemoryEventBus_FailingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := &captureHandler{types: []string{cart.EventTypeUserLoggedIn}, fail: true}
	healthy := &captureHandler{types: []string{cart.EventTypeUserLoggedIn}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(),
		cart.NewUserLoggedInEvent(uuid.New(), uuid.New())))

	assert.Len(t, failing.received, 1)
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := &captureHandler{types: []string{cart.EventTypeUserLoggedIn}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(),
		cart.NewUserLoggedInEvent(uuid.New(), uuid.New())))

	assert.Empty(t, handler.received)
}
