package cart

import "github.com/shopmall/backend/internal/domain/shared"

// Cart domain errors
var (
	// ErrInvalidQuantity is returned when a quantity is below 1 or above the
	// per-line cap; callers should remove the line instead of setting 0
	ErrInvalidQuantity = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be between 1 and 999")

	// ErrItemNotFound is returned when the referenced line is not in the cart
	ErrItemNotFound = shared.NewDomainError("ITEM_NOT_FOUND", "Cart item not found")

	// ErrMergeWriteFailed is returned when the bulk write of a merge result to
	// the account store fails; the guest store is preserved and the merge is
	// retried at the next opportunity. Non-fatal to login.
	ErrMergeWriteFailed = shared.NewDomainError("MERGE_WRITE_FAILED", "Failed to write merged cart to account store")

	// ErrMergeInProgress is returned when a merge is invoked while another is
	// still running for the same session
	ErrMergeInProgress = shared.NewDomainError("MERGE_IN_PROGRESS", "Cart merge already in progress")

	// ErrUnsupportedSchema is returned when a persisted guest cart carries a
	// schema version this build does not understand
	ErrUnsupportedSchema = shared.NewDomainError("UNSUPPORTED_CART_SCHEMA", "Persisted cart schema version is not supported")
)
