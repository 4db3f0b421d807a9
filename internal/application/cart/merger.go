package cart

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/cart"
	"github.com/shopmall/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CartMerger reconciles the guest and account cart tiers at the two session
// boundaries. It runs as a one-shot orchestration per boundary crossing, not
// as a continuous sync.
type CartMerger struct {
	guestStore   cart.GuestCartStore
	accountStore cart.AccountCartStore
	publisher    shared.EventPublisher
	logger       *zap.Logger
	inFlight     atomic.Bool
}

// NewCartMerger creates a new cart merger
func NewCartMerger(guestStore cart.GuestCartStore, accountStore cart.AccountCartStore, publisher shared.EventPublisher, logger *zap.Logger) *CartMerger {
	return &CartMerger{
		guestStore:   guestStore,
		accountStore: accountStore,
		publisher:    publisher,
		logger:       logger,
	}
}

// OnLogin merges the device's guest cart into the account cart and returns
// the merged line set.
//
// The merge is a union by product ID with quantities summed, applied to the
// account store in a single bulk write. The guest cart is cleared only after
// that write succeeds; if it fails the guest cart is left intact so no items
// are lost, and the caller may retry at the next login.
func (m *CartMerger) OnLogin(ctx context.Context, userID, deviceID uuid.UUID) ([]cart.PersistedLine, error) {
	if !m.inFlight.CompareAndSwap(false, true) {
		return nil, cart.ErrMergeInProgress
	}
	defer m.inFlight.Store(false)

	guest, err := m.guestStore.Load(ctx, deviceID)
	if err != nil {
		m.logger.Error("failed to load guest cart for merge",
			zap.String("device_id", deviceID.String()),
			zap.Error(err))
		return nil, err
	}
	if guest.SchemaVersion > cart.GuestCartSchemaVersion {
		// Written by a newer build. Leave it alone rather than guess at it.
		m.logger.Warn("guest cart schema ahead of this build, skipping merge",
			zap.Int("schema_version", guest.SchemaVersion))
		return nil, cart.ErrUnsupportedSchema
	}

	account, err := m.accountStore.Load(ctx, userID)
	if err != nil {
		m.logger.Error("failed to load account cart for merge",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, err
	}

	if len(guest.Lines) == 0 {
		// Nothing to reconcile; the account cart stands as is
		return account, nil
	}

	merged := cart.MergeLines(account, guest.Lines)

	if err := m.accountStore.Replace(ctx, userID, merged); err != nil {
		// Guest cart stays untouched so the items survive for a retry
		m.logger.Error("merge write to account store failed, guest cart preserved",
			zap.String("user_id", userID.String()),
			zap.String("device_id", deviceID.String()),
			zap.Error(err))
		return nil, cart.ErrMergeWriteFailed
	}

	if err := m.guestStore.Clear(ctx, deviceID); err != nil {
		// The merge itself is durable. A stale guest cart would double-count
		// on the next login, so surface this loudly.
		m.logger.Error("failed to clear guest cart after merge",
			zap.String("device_id", deviceID.String()),
			zap.Error(err))
	}

	event := cart.NewCartMergedEvent(userID, deviceID, len(merged), len(guest.Lines))
	if err := m.publisher.Publish(ctx, event); err != nil {
		m.logger.Warn("failed to publish cart merged event", zap.Error(err))
	}

	m.logger.Info("guest cart merged into account",
		zap.String("user_id", userID.String()),
		zap.Int("guest_lines", len(guest.Lines)),
		zap.Int("merged_lines", len(merged)))

	return merged, nil
}

// OnLogout snapshots the account cart into the device's guest store so the
// items remain visible after sign-out. The account cart is not modified.
func (m *CartMerger) OnLogout(ctx context.Context, userID, deviceID uuid.UUID) ([]cart.PersistedLine, error) {
	account, err := m.accountStore.Load(ctx, userID)
	if err != nil {
		m.logger.Error("failed to load account cart for logout snapshot",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, err
	}

	if err := m.guestStore.Save(ctx, deviceID, cart.NewPersistedCart(account)); err != nil {
		m.logger.Error("failed to snapshot account cart to guest store",
			zap.String("device_id", deviceID.String()),
			zap.Error(err))
		return nil, err
	}

	m.logger.Info("account cart snapshotted to guest store",
		zap.String("user_id", userID.String()),
		zap.Int("lines", len(account)))

	return account, nil
}
