package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GuestCartSchemaVersion tags the persisted guest-cart shape so a future
// change to the stored fields can be migrated instead of failing to decode
const GuestCartSchemaVersion = 1

// PersistedLine is the stored shape of one cart line
type PersistedLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Selected  bool            `json:"selected"`
	Product   ProductSnapshot `json:"product"`
}

// PersistedCart is the durable shape of a guest cart
type PersistedCart struct {
	SchemaVersion int             `json:"schema_version"`
	Lines         []PersistedLine `json:"lines"`
	SavedAt       time.Time       `json:"saved_at"`
}

// GuestCartStore is the device-scoped storage tier for unauthenticated
// sessions. The whole cart is written as one unit; last write wins.
type GuestCartStore interface {
	// Load returns the persisted guest cart, or an empty cart if none exists
	Load(ctx context.Context, deviceID uuid.UUID) (PersistedCart, error)

	// Save replaces the persisted guest cart wholesale
	Save(ctx context.Context, deviceID uuid.UUID, persisted PersistedCart) error

	// Clear removes the persisted guest cart
	Clear(ctx context.Context, deviceID uuid.UUID) error
}

// AccountCartStore is the server-of-record storage tier for authenticated
// sessions, one row per (user, product) pair.
type AccountCartStore interface {
	// Load returns the account's cart lines in insertion order
	Load(ctx context.Context, userID uuid.UUID) ([]PersistedLine, error)

	// Replace writes the full line set in one bulk operation. Merge results
	// go through this single write, never through incremental adds, so a
	// retried merge cannot double-count.
	Replace(ctx context.Context, userID uuid.UUID, lines []PersistedLine) error

	// RemoveProducts deletes the rows for the given products, used to clear
	// only submitted lines after checkout
	RemoveProducts(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error

	// Clear removes every row for the account
	Clear(ctx context.Context, userID uuid.UUID) error
}

// LinesFromItems converts in-memory cart lines to their persisted shape
func LinesFromItems(items []LineItem) []PersistedLine {
	lines := make([]PersistedLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, PersistedLine{
			ProductID: item.Product.ProductID,
			Quantity:  item.Quantity,
			Selected:  item.Selected,
			Product:   item.Product,
		})
	}
	return lines
}

// ItemsFromLines hydrates in-memory cart lines from their persisted shape,
// dropping lines whose quantity fell below 1
func ItemsFromLines(lines []PersistedLine) []LineItem {
	items := make([]LineItem, 0, len(lines))
	now := time.Now()
	for _, line := range lines {
		if line.Quantity < 1 {
			continue
		}
		items = append(items, LineItem{
			ID:       uuid.New(),
			Product:  line.Product,
			Quantity: line.Quantity,
			Selected: line.Selected,
			AddedAt:  now,
		})
	}
	return items
}

// NewPersistedCart wraps lines in the current schema version
func NewPersistedCart(lines []PersistedLine) PersistedCart {
	return PersistedCart{
		SchemaVersion: GuestCartSchemaVersion,
		Lines:         lines,
		SavedAt:       time.Now(),
	}
}
