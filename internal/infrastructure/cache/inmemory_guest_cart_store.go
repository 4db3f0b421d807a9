package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/cart"
)

// InMemoryGuestCartStore implements cart.GuestCartStore with a map, for
// single-instance deployments and tests. Expiry is checked lazily on load.
type InMemoryGuestCartStore struct {
	mu    sync.RWMutex
	ttl   time.Duration
	carts map[uuid.UUID]guestCartEntry
}

type guestCartEntry struct {
	persisted cart.PersistedCart
	expiresAt time.Time
}

// NewInMemoryGuestCartStore creates an in-memory guest cart store
func NewInMemoryGuestCartStore(ttl time.Duration) *InMemoryGuestCartStore {
	return &InMemoryGuestCartStore{
		ttl:   ttl,
		carts: make(map[uuid.UUID]guestCartEntry),
	}
}

// Load returns the stored guest cart, or an empty one if absent or expired
func (s *InMemoryGuestCartStore) Load(_ context.Context, deviceID uuid.UUID) (cart.PersistedCart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.carts[deviceID]
	if !ok || time.Now().After(entry.expiresAt) {
		return cart.NewPersistedCart(nil), nil
	}
	return entry.persisted, nil
}

// Save replaces the stored guest cart and slides its expiry
func (s *InMemoryGuestCartStore) Save(_ context.Context, deviceID uuid.UUID, persisted cart.PersistedCart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[deviceID] = guestCartEntry{
		persisted: persisted,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Clear removes the stored guest cart
func (s *InMemoryGuestCartStore) Clear(_ context.Context, deviceID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, deviceID)
	return nil
}

var _ cart.GuestCartStore = (*InMemoryGuestCartStore)(nil)
