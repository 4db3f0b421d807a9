package checkout

import (
	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/cart"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
)

// PaymentMethod enumerates the supported payment options
type PaymentMethod string

const (
	PaymentMethodCOD          PaymentMethod = "COD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodWallet       PaymentMethod = "WALLET"
)

// IsValid checks if the payment method is a known value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodBankTransfer, PaymentMethodWallet:
		return true
	}
	return false
}

// AddressSnapshot is a copy of the chosen delivery address frozen into the
// checkout attempt. The order carries this snapshot, not a live reference,
// so a later address-book edit cannot change a placed order.
type AddressSnapshot struct {
	AddressID   uuid.UUID               `json:"address_id"`
	Recipient   string                  `json:"recipient"`
	Phone       string                  `json:"phone"`
	Line1       string                  `json:"line1"`
	Destination valueobject.Destination `json:"destination"`
}

// CheckoutDraft exists for the duration of one checkout attempt. It is
// destroyed on success (submitted cart lines cleared) and discarded without
// touching the cart on failure or navigation away.
type CheckoutDraft struct {
	Address       AddressSnapshot   `json:"address"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	Items         []cart.LineItem   `json:"items"`
	ShippingTotal valueobject.Money `json:"shipping_total"`
	Discount      valueobject.Money `json:"discount"`
}

// NewCheckoutDraft freezes the selected items, address and quote total into
// one submission attempt
func NewCheckoutDraft(address AddressSnapshot, method PaymentMethod, items []cart.LineItem, shippingTotal, discount valueobject.Money) (*CheckoutDraft, error) {
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if len(items) == 0 {
		return nil, NewIncompleteCheckoutError(PreconditionItemsSelected)
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	frozen := make([]cart.LineItem, len(items))
	copy(frozen, items)

	return &CheckoutDraft{
		Address:       address,
		PaymentMethod: method,
		Items:         frozen,
		ShippingTotal: shippingTotal,
		Discount:      discount,
	}, nil
}

// ItemsSubtotal returns the sum of line subtotals in the draft
func (d *CheckoutDraft) ItemsSubtotal() valueobject.Money {
	total := valueobject.ZeroVND()
	for _, item := range d.Items {
		total = total.MustAdd(item.Subtotal())
	}
	return total
}

// GrandTotal returns items plus shipping minus discount
func (d *CheckoutDraft) GrandTotal() valueobject.Money {
	total := d.ItemsSubtotal().MustAdd(d.ShippingTotal)
	result, err := total.Subtract(d.Discount)
	if err != nil {
		return total
	}
	return result
}

// ProductIDs returns the products frozen into the draft, used to clear only
// the submitted lines from the cart after success
func (d *CheckoutDraft) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(d.Items))
	for i, item := range d.Items {
		ids[i] = item.Product.ProductID
	}
	return ids
}

// ToSubmission converts the draft to the order-service payload
func (d *CheckoutDraft) ToSubmission(userID uuid.UUID) OrderSubmission {
	lines := make([]OrderLine, len(d.Items))
	for i, item := range d.Items {
		lines[i] = OrderLine{
			ProductID:       item.Product.ProductID,
			ProductName:     item.Product.Name,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.Product.Price,
		}
	}
	return OrderSubmission{
		UserID:        userID,
		Address:       d.Address,
		PaymentMethod: d.PaymentMethod,
		Lines:         lines,
		ShippingFee:   d.ShippingTotal,
		Discount:      d.Discount,
	}
}
