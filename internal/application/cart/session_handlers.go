package cart

import (
	"context"
	"time"

	"github.com/shopmall/backend/internal/domain/cart"
	"github.com/shopmall/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// sessionEventTTL bounds how long a processed session event ID is remembered
// for duplicate suppression
const sessionEventTTL = 24 * time.Hour

// SessionEventHandler reacts to session boundary events by running the cart
// merger. Processed event IDs are tracked so a duplicate emission of the same
// login or logout is a no-op instead of a second merge.
type SessionEventHandler struct {
	merger      *CartMerger
	idempotency shared.IdempotencyStore
	logger      *zap.Logger
}

// NewSessionEventHandler creates a new session event handler
func NewSessionEventHandler(merger *CartMerger, idempotency shared.IdempotencyStore, logger *zap.Logger) *SessionEventHandler {
	return &SessionEventHandler{
		merger:      merger,
		idempotency: idempotency,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *SessionEventHandler) EventTypes() []string {
	return []string{cart.EventTypeUserLoggedIn, cart.EventTypeUserLoggedOut}
}

// Handle processes a session event
func (h *SessionEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fresh, err := h.idempotency.MarkProcessed(ctx, event.EventID().String(), sessionEventTTL)
	if err != nil {
		return err
	}
	if !fresh {
		h.logger.Debug("duplicate session event skipped",
			zap.String("event_id", event.EventID().String()),
			zap.String("event_type", event.EventType()))
		return nil
	}

	switch e := event.(type) {
	case *cart.UserLoggedInEvent:
		_, err := h.merger.OnLogin(ctx, e.UserID, e.DeviceID)
		if err == cart.ErrUnsupportedSchema {
			// Merge skipped, login itself is unaffected
			return nil
		}
		return err
	case *cart.UserLoggedOutEvent:
		_, err := h.merger.OnLogout(ctx, e.UserID, e.DeviceID)
		return err
	default:
		return nil
	}
}
