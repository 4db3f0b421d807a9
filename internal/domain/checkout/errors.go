package checkout

import "github.com/shopmall/backend/internal/domain/shared"

// Checkout precondition identifiers, enumerated in IncompleteCheckout errors
const (
	PreconditionItemsSelected   = "at least one cart item must be selected"
	PreconditionAddressChosen   = "a delivery address must be chosen"
	PreconditionAddressResolved = "the delivery address must have resolved district and ward codes"
)

// Checkout domain errors
var (
	// ErrShippingNotReady is returned when submission is attempted without a
	// ready shipping quote; the fee is never silently charged as zero
	ErrShippingNotReady = shared.NewDomainError("SHIPPING_NOT_READY", "Shipping quote is not ready")

	// ErrQuoteFetchFailed marks a failed delivery-fee call. Checkout is
	// blocked until the quote is retried, not charged a zero fee.
	ErrQuoteFetchFailed = shared.NewDomainError("QUOTE_FETCH_FAILED", "Failed to fetch shipping quote")

	// ErrOrderSubmissionFailed marks a failed order call. No cart state was
	// changed, so the caller may retry submission safely.
	ErrOrderSubmissionFailed = shared.NewDomainError("ORDER_SUBMISSION_FAILED", "Order submission failed")

	// ErrSubmitInProgress is returned when submit is re-entered while an
	// earlier attempt is still running
	ErrSubmitInProgress = shared.NewDomainError("SUBMIT_IN_PROGRESS", "Order submission already in progress")

	// ErrNoActiveDraft is returned when submit is called before prepare
	ErrNoActiveDraft = shared.NewDomainError("NO_ACTIVE_DRAFT", "No checkout draft prepared")

	// ErrDraftStale is returned when the cart changed after the draft was
	// prepared. The stale draft is discarded so a deselected or removed line
	// can never be ordered; checkout must be prepared again.
	ErrDraftStale = shared.NewDomainError("DRAFT_STALE", "Cart changed since checkout was prepared")
)

// NewIncompleteCheckoutError builds an IncompleteCheckout error enumerating
// every precondition that failed
func NewIncompleteCheckoutError(missing ...string) *shared.DomainError {
	return shared.NewDomainErrorWithDetails("INCOMPLETE_CHECKOUT", "Checkout preconditions not met", missing...)
}
