package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	appcart "github.com/shopmall/backend/internal/application/cart"
	appcheckout "github.com/shopmall/backend/internal/application/checkout"
	"github.com/shopmall/backend/internal/domain/address"
	"github.com/shopmall/backend/internal/domain/cart"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/checkout"
	"go.uber.org/zap"
)

// DefaultMaxIdle is how long a session survives without a request before its
// in-memory cart is flushed and released
const DefaultMaxIdle = 30 * time.Minute

// Deps are the shared collaborators every session is built from
type Deps struct {
	GuestStore      cart.GuestCartStore
	AccountStore    cart.AccountCartStore
	Catalog         catalog.Service
	Delivery        checkout.DeliveryFeeService
	Addresses       address.Repository
	Orders          checkout.OrderService
	Logger          *zap.Logger
	PersistDebounce time.Duration
	QuoteTimeout    time.Duration
}

// Session bundles the per-session engines: one working cart and one checkout
// attempt at a time
type Session struct {
	Cart     *appcart.CartManager
	Checkout *appcheckout.CheckoutOrchestrator
}

type sessionEntry struct {
	session  *Session
	lastSeen time.Time
}

// Registry hands out the session for a device or user, creating it on first
// use and hydrating its cart from the matching store. There is exactly one
// live session per key, so the in-memory cart stays the single authority.
type Registry struct {
	deps Deps

	mu       sync.Mutex
	sessions map[string]*sessionEntry
	closed   bool
}

// NewRegistry creates an empty session registry
func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:     deps,
		sessions: make(map[string]*sessionEntry),
	}
}

func guestKey(deviceID uuid.UUID) string { return "guest:" + deviceID.String() }
func accountKey(userID uuid.UUID) string { return "account:" + userID.String() }

// Guest returns the session for an unauthenticated device
func (r *Registry) Guest(ctx context.Context, deviceID uuid.UUID) (*Session, error) {
	return r.getOrCreate(ctx, guestKey(deviceID), func(ctx context.Context, m *appcart.CartManager) error {
		return m.BindGuest(ctx, deviceID)
	})
}

// Account returns the session for an authenticated user
func (r *Registry) Account(ctx context.Context, userID uuid.UUID) (*Session, error) {
	return r.getOrCreate(ctx, accountKey(userID), func(ctx context.Context, m *appcart.CartManager) error {
		return m.BindAccount(ctx, userID)
	})
}

func (r *Registry) getOrCreate(ctx context.Context, key string, bind func(context.Context, *appcart.CartManager) error) (*Session, error) {
	r.mu.Lock()
	if entry, ok := r.sessions[key]; ok {
		entry.lastSeen = time.Now()
		session := entry.session
		r.mu.Unlock()
		return session, nil
	}
	r.mu.Unlock()

	// Build outside the lock; binding hits the store
	manager := appcart.NewCartManager(r.deps.GuestStore, r.deps.AccountStore, r.deps.Catalog, r.deps.Logger)
	if r.deps.PersistDebounce > 0 {
		manager.SetDebounce(r.deps.PersistDebounce)
	}
	if err := bind(ctx, manager); err != nil {
		manager.Discard()
		return nil, err
	}

	quoteEngine := appcheckout.NewShippingQuoteEngine(r.deps.Delivery, r.deps.Logger)
	if r.deps.QuoteTimeout > 0 {
		quoteEngine.SetTimeout(r.deps.QuoteTimeout)
	}
	session := &Session{
		Cart:     manager,
		Checkout: appcheckout.NewCheckoutOrchestrator(manager, quoteEngine, r.deps.Addresses, r.deps.Orders, r.deps.Logger),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.sessions[key]; ok {
		// Lost the race; keep the winner and discard ours before its
		// debounce timer can write anything
		manager.Discard()
		entry.lastSeen = time.Now()
		return entry.session, nil
	}
	r.sessions[key] = &sessionEntry{session: session, lastSeen: time.Now()}
	return session, nil
}

// DiscardGuest drops a device's in-memory session without a final write.
// Called after the login merge moved the guest cart into the account store.
func (r *Registry) DiscardGuest(deviceID uuid.UUID) {
	r.mu.Lock()
	entry, ok := r.sessions[guestKey(deviceID)]
	if ok {
		delete(r.sessions, guestKey(deviceID))
	}
	r.mu.Unlock()

	if ok {
		entry.session.Cart.Discard()
	}
}

// ReleaseAccount flushes and drops a user's session. Called at logout, after
// the account cart was snapshotted back to the guest store.
func (r *Registry) ReleaseAccount(userID uuid.UUID) {
	r.mu.Lock()
	entry, ok := r.sessions[accountKey(userID)]
	if ok {
		delete(r.sessions, accountKey(userID))
	}
	r.mu.Unlock()

	if ok {
		entry.session.Checkout.Abandon()
		if err := entry.session.Cart.Close(); err != nil {
			r.deps.Logger.Warn("failed to flush cart on session release",
				zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
}

// EvictIdle flushes and removes sessions idle longer than maxIdle, returning
// how many were evicted
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	expired := make([]*sessionEntry, 0)
	for key, entry := range r.sessions {
		if entry.lastSeen.Before(cutoff) {
			expired = append(expired, entry)
			delete(r.sessions, key)
		}
	}
	r.mu.Unlock()

	for _, entry := range expired {
		entry.session.Checkout.Abandon()
		if err := entry.session.Cart.Close(); err != nil {
			r.deps.Logger.Warn("failed to flush cart on idle eviction", zap.Error(err))
		}
	}
	return len(expired)
}

// Close flushes every live session. Used at shutdown so debounced writes are
// not lost.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	remaining := make([]*sessionEntry, 0, len(r.sessions))
	for key, entry := range r.sessions {
		remaining = append(remaining, entry)
		delete(r.sessions, key)
	}
	r.mu.Unlock()

	var firstErr error
	for _, entry := range remaining {
		if err := entry.session.Cart.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
