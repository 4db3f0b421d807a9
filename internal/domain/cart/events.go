package cart

import (
	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeCart    = "Cart"
	AggregateTypeSession = "Session"
)

// Event type constants
const (
	EventTypeUserLoggedIn  = "UserLoggedIn"
	EventTypeUserLoggedOut = "UserLoggedOut"
	EventTypeCartMerged    = "CartMerged"
)

// UserLoggedInEvent is emitted when a session transitions to authenticated.
// It triggers the one-shot guest-to-account cart merge.
type UserLoggedInEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	DeviceID uuid.UUID `json:"device_id"`
}

// NewUserLoggedInEvent creates a new UserLoggedInEvent
func NewUserLoggedInEvent(userID, deviceID uuid.UUID) *UserLoggedInEvent {
	return &UserLoggedInEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserLoggedIn, AggregateTypeSession, userID),
		UserID:          userID,
		DeviceID:        deviceID,
	}
}

// EventType returns the event type name
func (e *UserLoggedInEvent) EventType() string {
	return EventTypeUserLoggedIn
}

// UserLoggedOutEvent is emitted when a session returns to guest. It triggers
// the account-to-guest cart snapshot.
type UserLoggedOutEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	DeviceID uuid.UUID `json:"device_id"`
}

// NewUserLoggedOutEvent creates a new UserLoggedOutEvent
func NewUserLoggedOutEvent(userID, deviceID uuid.UUID) *UserLoggedOutEvent {
	return &UserLoggedOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserLoggedOut, AggregateTypeSession, userID),
		UserID:          userID,
		DeviceID:        deviceID,
	}
}

// EventType returns the event type name
func (e *UserLoggedOutEvent) EventType() string {
	return EventTypeUserLoggedOut
}

// CartMergedEvent is emitted after a guest cart is reconciled into the
// account cart at login
type CartMergedEvent struct {
	shared.BaseDomainEvent
	UserID     uuid.UUID `json:"user_id"`
	DeviceID   uuid.UUID `json:"device_id"`
	LineCount  int       `json:"line_count"`
	GuestLines int       `json:"guest_lines"`
}

// NewCartMergedEvent creates a new CartMergedEvent
func NewCartMergedEvent(userID, deviceID uuid.UUID, lineCount, guestLines int) *CartMergedEvent {
	return &CartMergedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartMerged, AggregateTypeCart, userID),
		UserID:          userID,
		DeviceID:        deviceID,
		LineCount:       lineCount,
		GuestLines:      guestLines,
	}
}

// EventType returns the event type name
func (e *CartMergedEvent) EventType() string {
	return EventTypeCartMerged
}
