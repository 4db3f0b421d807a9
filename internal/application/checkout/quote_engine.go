package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/shopmall/backend/internal/domain/cart"
	"github.com/shopmall/backend/internal/domain/checkout"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// QuoteState is the lifecycle of the shipping quote engine
type QuoteState string

const (
	// QuoteStateIdle means no fetch has run for the current inputs
	QuoteStateIdle QuoteState = "IDLE"
	// QuoteStateLoading means a fetch is in flight
	QuoteStateLoading QuoteState = "LOADING"
	// QuoteStateReady means quotes for the current inputs are available
	QuoteStateReady QuoteState = "READY"
	// QuoteStateFailed means the last fetch errored; checkout stays blocked
	QuoteStateFailed QuoteState = "FAILED"
)

// DefaultQuoteTimeout bounds one delivery provider call
const DefaultQuoteTimeout = 10 * time.Second

// ShippingQuoteEngine fetches per-seller shipping fees for the current
// destination and selected items.
//
// Every refresh takes a new generation token; when a fetch returns, its
// result is applied only if its token is still current. A response from a
// superseded fetch is discarded, so quotes can never describe an earlier
// destination or item set.
type ShippingQuoteEngine struct {
	delivery checkout.DeliveryFeeService
	logger   *zap.Logger
	timeout  time.Duration

	mu      sync.Mutex
	state   QuoteState
	token   uint64
	quotes  checkout.QuoteSet
	lastErr error
}

// NewShippingQuoteEngine creates a quote engine in the idle state
func NewShippingQuoteEngine(delivery checkout.DeliveryFeeService, logger *zap.Logger) *ShippingQuoteEngine {
	return &ShippingQuoteEngine{
		delivery: delivery,
		logger:   logger,
		timeout:  DefaultQuoteTimeout,
		state:    QuoteStateIdle,
	}
}

// SetTimeout overrides the per-fetch timeout, mainly for tests
func (e *ShippingQuoteEngine) SetTimeout(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.timeout = d
}

// Refresh fetches quotes for the given destination and selected items,
// superseding any fetch still in flight.
//
// An unresolved destination or an empty item set resets the engine to idle
// without calling the provider; there is nothing meaningful to quote yet.
func (e *ShippingQuoteEngine) Refresh(ctx context.Context, dest valueobject.Destination, items []cart.LineItem) error {
	groups := checkout.Partition(items)

	e.mu.Lock()
	e.token++
	myToken := e.token

	if !dest.IsResolved() || len(groups) == 0 {
		e.state = QuoteStateIdle
		e.quotes = checkout.QuoteSet{}
		e.lastErr = nil
		e.mu.Unlock()
		return nil
	}

	e.state = QuoteStateLoading
	timeout := e.timeout
	e.mu.Unlock()

	req := checkout.QuoteRequest{
		Shipments:  make([]checkout.SellerShipment, len(groups)),
		DistrictID: dest.DistrictID(),
		WardCode:   dest.WardCode(),
	}
	for i, g := range groups {
		req.Shipments[i] = checkout.SellerShipment{
			SellerID:    g.SellerID,
			WeightGrams: g.WeightGrams,
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	result, fetchErr := e.delivery.Quote(fetchCtx, req)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.token != myToken {
		// A later refresh or cancel superseded this fetch; its result no
		// longer describes the current inputs
		e.logger.Debug("stale shipping quote discarded",
			zap.Uint64("token", myToken),
			zap.Uint64("current", e.token))
		return nil
	}

	if fetchErr != nil {
		e.state = QuoteStateFailed
		e.quotes = checkout.QuoteSet{}
		e.lastErr = checkout.ErrQuoteFetchFailed
		e.logger.Warn("shipping quote fetch failed",
			zap.Int("district_id", dest.DistrictID()),
			zap.Error(fetchErr))
		return checkout.ErrQuoteFetchFailed
	}

	e.state = QuoteStateReady
	e.quotes = checkout.NewReadyQuoteSet(dest, result.Fees)
	e.lastErr = nil
	return nil
}

// Cancel invalidates any fetch in flight and resets the engine to idle
func (e *ShippingQuoteEngine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.token++
	e.state = QuoteStateIdle
	e.quotes = checkout.QuoteSet{}
	e.lastErr = nil
}

// State returns the current engine state
func (e *ShippingQuoteEngine) State() QuoteState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// ReadyQuotes returns the current quote set if the engine is ready
func (e *ShippingQuoteEngine) ReadyQuotes() (checkout.QuoteSet, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != QuoteStateReady {
		return checkout.QuoteSet{}, false
	}
	return e.quotes, true
}
