package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/cart"
	"github.com/shopmall/backend/internal/domain/catalog"
	"github.com/shopmall/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	// DefaultPersistDebounce coalesces rapid mutations into one store write
	DefaultPersistDebounce = 400 * time.Millisecond

	// DefaultPersistTimeout bounds the background store write
	DefaultPersistTimeout = 5 * time.Second
)

// CartManager owns the in-memory working copy of one session's cart and its
// persistence to the active storage tier.
//
// Mutations apply to the in-memory cart synchronously, so reads immediately
// after a mutation see the new state. Persistence is debounced: a burst of
// mutations collapses into a single whole-cart write, and the latest write
// wins. A failed write marks the cart dirty again so the next mutation or
// flush retries it.
type CartManager struct {
	guestStore   cart.GuestCartStore
	accountStore cart.AccountCartStore
	catalog      catalog.Service
	logger       *zap.Logger

	debounce       time.Duration
	persistTimeout time.Duration

	mu      sync.Mutex
	cart    *cart.Cart
	timer   *time.Timer
	dirty   bool
	closed  bool
	version uint64
}

// NewCartManager creates a cart manager with default debounce settings
func NewCartManager(guestStore cart.GuestCartStore, accountStore cart.AccountCartStore, catalogSvc catalog.Service, logger *zap.Logger) *CartManager {
	return &CartManager{
		guestStore:     guestStore,
		accountStore:   accountStore,
		catalog:        catalogSvc,
		logger:         logger,
		debounce:       DefaultPersistDebounce,
		persistTimeout: DefaultPersistTimeout,
	}
}

// SetDebounce overrides the persist debounce window, mainly for tests
func (m *CartManager) SetDebounce(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debounce = d
}

// BindGuest hydrates the working cart from the device's guest store
func (m *CartManager) BindGuest(ctx context.Context, deviceID uuid.UUID) error {
	persisted, err := m.guestStore.Load(ctx, deviceID)
	if err != nil {
		return err
	}
	if persisted.SchemaVersion > cart.GuestCartSchemaVersion {
		return cart.ErrUnsupportedSchema
	}

	guestCart, err := cart.NewGuestCart(deviceID)
	if err != nil {
		return err
	}
	guestCart.ReplaceItems(cart.ItemsFromLines(persisted.Lines))

	m.bind(guestCart)
	return nil
}

// BindAccount hydrates the working cart from the account store
func (m *CartManager) BindAccount(ctx context.Context, userID uuid.UUID) error {
	lines, err := m.accountStore.Load(ctx, userID)
	if err != nil {
		return err
	}
	return m.BindAccountLines(userID, lines)
}

// BindAccountLines hydrates the working cart from an already-loaded line set,
// used right after a login merge so the merge result is not re-read
func (m *CartManager) BindAccountLines(userID uuid.UUID, lines []cart.PersistedLine) error {
	accountCart, err := cart.NewAuthenticatedCart(userID)
	if err != nil {
		return err
	}
	accountCart.ReplaceItems(cart.ItemsFromLines(lines))

	m.bind(accountCart)
	return nil
}

func (m *CartManager) bind(c *cart.Cart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
	m.cart = c
	m.dirty = false
	m.version++
}

// AddProduct looks the product up in the catalog, snapshots it and adds it to
// the cart. The snapshot is what the line carries from here on; later catalog
// changes do not touch it.
func (m *CartManager) AddProduct(ctx context.Context, productID uuid.UUID, qty int) (*cart.LineItem, error) {
	product, err := m.catalog.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	return m.AddItem(ctx, product.Snapshot(), qty)
}

// AddItem adds a snapshot to the cart, summing into an existing line for the
// same product
func (m *CartManager) AddItem(_ context.Context, product cart.ProductSnapshot, qty int) (*cart.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cart == nil {
		return nil, shared.NewDomainError("CART_NOT_BOUND", "No active cart")
	}

	item, err := m.cart.Add(product, qty)
	if err != nil {
		return nil, err
	}
	line := *item
	m.schedulePersistLocked()
	return &line, nil
}

// SetQuantity replaces a line's quantity
func (m *CartManager) SetQuantity(_ context.Context, itemID uuid.UUID, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cart == nil {
		return shared.NewDomainError("CART_NOT_BOUND", "No active cart")
	}
	if err := m.cart.SetQuantity(itemID, qty); err != nil {
		return err
	}
	m.schedulePersistLocked()
	return nil
}

// RemoveItem deletes a line
func (m *CartManager) RemoveItem(_ context.Context, itemID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cart == nil {
		return shared.NewDomainError("CART_NOT_BOUND", "No active cart")
	}
	if err := m.cart.Remove(itemID); err != nil {
		return err
	}
	m.schedulePersistLocked()
	return nil
}

// ToggleSelect flips a line's selection flag
func (m *CartManager) ToggleSelect(_ context.Context, itemID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cart == nil {
		return shared.NewDomainError("CART_NOT_BOUND", "No active cart")
	}
	if err := m.cart.ToggleSelect(itemID); err != nil {
		return err
	}
	m.schedulePersistLocked()
	return nil
}

// SelectAll marks every line selected
func (m *CartManager) SelectAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cart == nil {
		return shared.NewDomainError("CART_NOT_BOUND", "No active cart")
	}
	m.cart.SelectAll()
	m.schedulePersistLocked()
	return nil
}

// DeselectAll clears the selection flag on every line
func (m *CartManager) DeselectAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cart == nil {
		return shared.NewDomainError("CART_NOT_BOUND", "No active cart")
	}
	m.cart.DeselectAll()
	m.schedulePersistLocked()
	return nil
}

// ClearSubmitted removes the given products from the cart and persists
// immediately, bypassing the debounce. Used after a successful order so only
// the purchased lines disappear.
func (m *CartManager) ClearSubmitted(ctx context.Context, productIDs []uuid.UUID) error {
	m.mu.Lock()
	if m.cart == nil {
		m.mu.Unlock()
		return shared.NewDomainError("CART_NOT_BOUND", "No active cart")
	}
	m.cart.RemoveProducts(productIDs)
	m.dirty = true
	m.version++
	m.mu.Unlock()

	return m.Flush(ctx)
}

// SelectedItems returns a copy of the currently selected lines
func (m *CartManager) SelectedItems() []cart.LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cart == nil {
		return nil
	}
	return m.cart.SelectedItems()
}

// DistinctSellers returns the seller set of the currently selected lines in
// first-seen order
func (m *CartManager) DistinctSellers() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cart == nil {
		return nil
	}
	return m.cart.DistinctSellers()
}

// Version returns the cart mutation counter. Every successful mutation or
// rebind advances it; checkout stamps a prepared draft with the version it
// was built from and refuses to submit once they diverge.
func (m *CartManager) Version() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version
}

// Snapshot returns a read-only copy of the working cart state
func (m *CartManager) Snapshot() CartView {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cart == nil {
		return CartView{}
	}
	return NewCartView(m.cart)
}

// Flush persists the cart now if there are unsaved changes, cancelling any
// pending debounce timer
func (m *CartManager) Flush(ctx context.Context) error {
	m.mu.Lock()
	m.stopTimerLocked()
	if !m.dirty || m.cart == nil {
		m.mu.Unlock()
		return nil
	}
	tier := m.cart.Tier
	owner := m.cart.OwnerID
	lines := cart.LinesFromItems(m.cart.Items)
	m.dirty = false
	m.mu.Unlock()

	if err := m.write(ctx, tier, owner, lines); err != nil {
		m.mu.Lock()
		m.dirty = true
		m.mu.Unlock()
		return err
	}
	return nil
}

// Close flushes any unsaved changes and releases the debounce timer
func (m *CartManager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), m.persistTimeout)
	defer cancel()
	return m.Flush(ctx)
}

// Discard releases the manager without a final write. Used when the cart's
// contents have already been moved elsewhere, such as after the login merge;
// flushing here would resurrect the cleared guest cart.
func (m *CartManager) Discard() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.stopTimerLocked()
	m.dirty = false
}

// schedulePersistLocked arms the debounce timer; an already-armed timer is
// pushed back so only the final state of a burst is written. Caller holds mu.
func (m *CartManager) schedulePersistLocked() {
	m.dirty = true
	m.version++
	if m.closed {
		return
	}
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.debounce, m.persistNow)
}

func (m *CartManager) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// persistNow runs on the timer goroutine when the debounce window closes
func (m *CartManager) persistNow() {
	ctx, cancel := context.WithTimeout(context.Background(), m.persistTimeout)
	defer cancel()

	if err := m.Flush(ctx); err != nil {
		// Flush re-marked the cart dirty; the next mutation or flush retries
		m.logger.Warn("debounced cart persist failed, will retry", zap.Error(err))
	}
}

func (m *CartManager) write(ctx context.Context, tier cart.Tier, owner uuid.UUID, lines []cart.PersistedLine) error {
	switch tier {
	case cart.TierGuest:
		return m.guestStore.Save(ctx, owner, cart.NewPersistedCart(lines))
	case cart.TierAuthenticated:
		return m.accountStore.Replace(ctx, owner, lines)
	default:
		return shared.NewDomainError("INVALID_TIER", "Unknown cart tier")
	}
}
