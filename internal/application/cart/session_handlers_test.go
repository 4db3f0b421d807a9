package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/cart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeIdempotencyStore remembers processed event IDs in memory
type fakeIdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{seen: make(map[string]bool)}
}

func (s *fakeIdempotencyStore) MarkProcessed(_ context.Context, eventID string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[eventID] {
		return false, nil
	}
	s.seen[eventID] = true
	return true, nil
}

func (s *fakeIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[eventID], nil
}

func (s *fakeIdempotencyStore) Close() error { return nil }

func TestSessionEventHandler_DuplicateLoginIsNoOp(t *testing.T) {
	userID := uuid.New()
	deviceID := uuid.New()

	guestStore := newFakeGuestStore()
	guestStore.carts[deviceID] = cart.NewPersistedCart([]cart.PersistedLine{persistedLine(3)})
	accountStore := newFakeAccountStore()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	merger := NewCartMerger(guestStore, accountStore, publisher, zap.NewNop())
	handler := NewSessionEventHandler(merger, newFakeIdempotencyStore(), zap.NewNop())

	event := cart.NewUserLoggedInEvent(userID, deviceID)

	require.NoError(t, handler.Handle(context.Background(), event))
	lines, _ := accountStore.Load(context.Background(), userID)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)

	// The same event delivered again does not merge a second time
	require.NoError(t, handler.Handle(context.Background(), event))
	lines, _ = accountStore.Load(context.Background(), userID)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 1, accountStore.replaces)
}

func TestSessionEventHandler_LogoutSnapshotsCart(t *testing.T) {
	userID := uuid.New()
	deviceID := uuid.New()

	guestStore := newFakeGuestStore()
	accountStore := newFakeAccountStore()
	require.NoError(t, accountStore.Replace(context.Background(), userID,
		[]cart.PersistedLine{persistedLine(2)}))
	accountStore.replaces = 0

	publisher := new(MockEventPublisher)
	merger := NewCartMerger(guestStore, accountStore, publisher, zap.NewNop())
	handler := NewSessionEventHandler(merger, newFakeIdempotencyStore(), zap.NewNop())

	require.NoError(t, handler.Handle(context.Background(), cart.NewUserLoggedOutEvent(userID, deviceID)))

	snapshot := guestStore.stored(deviceID)
	require.Len(t, snapshot.Lines, 1)
	assert.Equal(t, 2, snapshot.Lines[0].Quantity)

	// Remote cart untouched
	lines, _ := accountStore.Load(context.Background(), userID)
	assert.Len(t, lines, 1)
	assert.Equal(t, 0, accountStore.replaces)
}

func TestSessionEventHandler_EventTypes(t *testing.T) {
	handler := NewSessionEventHandler(nil, newFakeIdempotencyStore(), zap.NewNop())
	assert.ElementsMatch(t,
		[]string{cart.EventTypeUserLoggedIn, cart.EventTypeUserLoggedOut},
		handler.EventTypes())
}
