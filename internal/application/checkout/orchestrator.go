package checkout

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	appcart "github.com/shopmall/backend/internal/application/cart"
	"github.com/shopmall/backend/internal/domain/address"
	"github.com/shopmall/backend/internal/domain/checkout"
	"go.uber.org/zap"
)

// CheckoutOrchestrator drives one checkout attempt from preparation through
// order submission.
//
// Prepare validates every precondition and reports all failures at once, then
// freezes the selected items, address and payment method into a draft and
// refreshes the shipping quote. Submit sends the draft to the order service
// exactly once per call; it never auto-retries, and cart state changes only
// on confirmed success.
type CheckoutOrchestrator struct {
	cartManager *appcart.CartManager
	quoteEngine *ShippingQuoteEngine
	addresses   address.Repository
	orders      checkout.OrderService
	logger      *zap.Logger

	mu           sync.Mutex
	draft        *checkout.CheckoutDraft
	draftVersion uint64
	submitting   atomic.Bool
}

// NewCheckoutOrchestrator creates a new checkout orchestrator
func NewCheckoutOrchestrator(cartManager *appcart.CartManager, quoteEngine *ShippingQuoteEngine, addresses address.Repository, orders checkout.OrderService, logger *zap.Logger) *CheckoutOrchestrator {
	return &CheckoutOrchestrator{
		cartManager: cartManager,
		quoteEngine: quoteEngine,
		addresses:   addresses,
		orders:      orders,
		logger:      logger,
	}
}

// Prepare validates the checkout preconditions, refreshes the shipping quote
// and freezes a draft for submission.
//
// Every failed precondition is reported in one IncompleteCheckout error
// rather than one at a time. The delivery provider is never called while the
// address lacks resolved geo codes.
func (o *CheckoutOrchestrator) Prepare(ctx context.Context, userID, addressID uuid.UUID, method checkout.PaymentMethod) (*PrepareView, error) {
	// Version before items: a mutation racing with prepare then leaves the
	// draft stale rather than silently current
	cartVersion := o.cartManager.Version()
	items := o.cartManager.SelectedItems()

	var missing []string
	if len(items) == 0 {
		missing = append(missing, checkout.PreconditionItemsSelected)
	}

	var addr *address.Address
	if addressID == uuid.Nil {
		missing = append(missing, checkout.PreconditionAddressChosen)
	} else {
		found, err := o.addresses.FindByID(ctx, addressID)
		if err != nil || found == nil || found.UserID != userID {
			missing = append(missing, checkout.PreconditionAddressChosen)
		} else if !found.IsDeliverable() {
			missing = append(missing, checkout.PreconditionAddressResolved)
		} else {
			addr = found
		}
	}

	if len(missing) > 0 {
		return nil, checkout.NewIncompleteCheckoutError(missing...)
	}

	snapshot := checkout.AddressSnapshot{
		AddressID:   addr.ID,
		Recipient:   addr.Recipient,
		Phone:       addr.Phone,
		Line1:       addr.Line1,
		Destination: addr.Destination,
	}

	if err := o.quoteEngine.Refresh(ctx, addr.Destination, items); err != nil {
		// No draft without a priced shipment; the caller retries prepare
		o.clearDraft()
		return nil, err
	}
	groups := checkout.Partition(items)

	quotes, ready := o.quoteEngine.ReadyQuotes()
	if !ready {
		o.clearDraft()
		return nil, checkout.ErrShippingNotReady
	}

	draft, err := checkout.NewCheckoutDraft(snapshot, method, items, quotes.Total, zeroDiscount())
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.draft = draft
	o.draftVersion = cartVersion
	o.mu.Unlock()

	return newPrepareView(snapshot, method, groups, quotes, o.quoteEngine.State()), nil
}

// Submit sends the prepared draft to the order service.
//
// Exactly one create call is made per invocation. On success the submitted
// lines, and only those, are cleared from the cart and the draft is
// destroyed. On failure nothing changes: the cart keeps its items and the
// caller may submit again deliberately.
func (o *CheckoutOrchestrator) Submit(ctx context.Context, userID uuid.UUID) (*SubmitView, error) {
	if !o.submitting.CompareAndSwap(false, true) {
		return nil, checkout.ErrSubmitInProgress
	}
	defer o.submitting.Store(false)

	o.mu.Lock()
	draft := o.draft
	draftVersion := o.draftVersion
	o.mu.Unlock()

	if draft == nil {
		return nil, checkout.ErrNoActiveDraft
	}

	if o.cartManager.Version() != draftVersion {
		// The cart changed after prepare; submitting the frozen draft would
		// order lines the user no longer has selected
		o.clearDraft()
		o.quoteEngine.Cancel()
		return nil, checkout.ErrDraftStale
	}

	quotes, ready := o.quoteEngine.ReadyQuotes()
	if !ready || !quotes.CoversSellers(o.cartManager.DistinctSellers()) {
		// A missing fee is a blocked checkout, never a free one
		return nil, checkout.ErrShippingNotReady
	}
	if !quotes.Destination.SameShippingRegion(draft.Address.Destination) {
		return nil, checkout.ErrShippingNotReady
	}

	orderID, err := o.orders.CreateOrder(ctx, draft.ToSubmission(userID))
	if err != nil {
		o.logger.Error("order submission failed, cart left untouched",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, checkout.ErrOrderSubmissionFailed
	}

	// Only the purchased lines leave the cart; unselected items survive
	if err := o.cartManager.ClearSubmitted(ctx, draft.ProductIDs()); err != nil {
		o.logger.Error("failed to clear submitted lines after order creation",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
	}

	o.clearDraft()
	o.quoteEngine.Cancel()

	o.logger.Info("order submitted",
		zap.String("order_id", orderID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("lines", len(draft.Items)))

	return &SubmitView{
		OrderID:    orderID,
		GrandTotal: draft.GrandTotal(),
	}, nil
}

// Abandon discards the draft and resets the quote engine, leaving the cart
// exactly as it was
func (o *CheckoutOrchestrator) Abandon() {
	o.clearDraft()
	o.quoteEngine.Cancel()
}

func (o *CheckoutOrchestrator) clearDraft() {
	o.mu.Lock()
	o.draft = nil
	o.draftVersion = 0
	o.mu.Unlock()
}
