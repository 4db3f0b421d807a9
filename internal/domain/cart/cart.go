package cart

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
)

// Tier identifies which storage tier owns the cart. A cart belongs to exactly
// one tier at a time; CartMerger is the only legal transition between them.
type Tier string

const (
	// TierGuest is a device-scoped cart for an unauthenticated session
	TierGuest Tier = "GUEST"
	// TierAuthenticated is the server-of-record cart for a signed-in account
	TierAuthenticated Tier = "AUTHENTICATED"
)

// IsValid checks if the tier is a known value
func (t Tier) IsValid() bool {
	return t == TierGuest || t == TierAuthenticated
}

// String returns the string representation of the tier
func (t Tier) String() string {
	return string(t)
}

// MaxLineQuantity caps a single line's quantity. Merge sums are clamped to
// this cap instead of failing so a login never loses items.
const MaxLineQuantity = 999

// ProductSnapshot is a lightweight copy of product data captured at add-time.
// It is not a live join; later price or name changes elsewhere do not mutate
// an existing cart line.
type ProductSnapshot struct {
	ProductID   uuid.UUID         `json:"product_id"`
	Name        string            `json:"name"`
	Price       valueobject.Money `json:"price"`
	ImageURL    string            `json:"image_url,omitempty"`
	SellerID    uuid.UUID         `json:"seller_id"`
	SellerName  string            `json:"seller_name,omitempty"`
	WeightGrams int64             `json:"weight_grams"`
}

// Validate checks the snapshot carries the fields a cart line needs
func (p ProductSnapshot) Validate() error {
	if p.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if p.Name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if p.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	if p.WeightGrams < 0 {
		return shared.NewDomainError("INVALID_WEIGHT", "Product weight cannot be negative")
	}
	return nil
}

// LineItem is one cart line, unique per cart by product ID
type LineItem struct {
	ID       uuid.UUID       `json:"id"`
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
	Selected bool            `json:"selected"`
	AddedAt  time.Time       `json:"added_at"`
}

// Subtotal returns price-at-add-time times quantity
func (i LineItem) Subtotal() valueobject.Money {
	return i.Product.Price.MultiplyByInt(int64(i.Quantity))
}

// WeightGrams returns the shipment weight contribution of this line
func (i LineItem) WeightGrams() int64 {
	return i.Product.WeightGrams * int64(i.Quantity)
}

// Cart is the aggregate root for one session's cart. Items stay ordered by
// insertion and unique by product ID; quantity is always >= 1.
type Cart struct {
	shared.BaseAggregateRoot
	Tier    Tier
	OwnerID uuid.UUID // device ID for guest carts, user ID for authenticated carts
	Items   []LineItem
}

// NewGuestCart creates an empty device-scoped cart
func NewGuestCart(deviceID uuid.UUID) (*Cart, error) {
	if deviceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Device ID cannot be empty")
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Tier:              TierGuest,
		OwnerID:           deviceID,
		Items:             make([]LineItem, 0),
	}, nil
}

// NewAuthenticatedCart creates an empty account-scoped cart
func NewAuthenticatedCart(userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "User ID cannot be empty")
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Tier:              TierAuthenticated,
		OwnerID:           userID,
		Items:             make([]LineItem, 0),
	}, nil
}

// Add inserts a new line for the product, or sums quantity into the existing
// line. Stock is not checked here; it is validated at order submission.
func (c *Cart) Add(product ProductSnapshot, qty int) (*LineItem, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	if existing := c.ItemByProduct(product.ProductID); existing != nil {
		newQty := existing.Quantity + qty
		if newQty > MaxLineQuantity {
			newQty = MaxLineQuantity
		}
		existing.Quantity = newQty
		c.Touch()
		return existing, nil
	}

	if qty > MaxLineQuantity {
		return nil, ErrInvalidQuantity
	}

	item := LineItem{
		ID:       uuid.New(),
		Product:  product,
		Quantity: qty,
		Selected: true,
		AddedAt:  time.Now(),
	}
	c.Items = append(c.Items, item)
	c.Touch()
	return &c.Items[len(c.Items)-1], nil
}

// SetQuantity replaces the quantity of an existing line idempotently.
// Quantities below 1 are rejected; callers remove the line instead.
func (c *Cart) SetQuantity(itemID uuid.UUID, qty int) error {
	if qty < 1 || qty > MaxLineQuantity {
		return ErrInvalidQuantity
	}
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			c.Items[idx].Quantity = qty
			c.Touch()
			return nil
		}
	}
	return ErrItemNotFound
}

// Remove deletes a line from the cart
func (c *Cart) Remove(itemID uuid.UUID) error {
	for idx, item := range c.Items {
		if item.ID == itemID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.Touch()
			return nil
		}
	}
	return ErrItemNotFound
}

// ToggleSelect flips the selection flag of a line
func (c *Cart) ToggleSelect(itemID uuid.UUID) error {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			c.Items[idx].Selected = !c.Items[idx].Selected
			c.Touch()
			return nil
		}
	}
	return ErrItemNotFound
}

// SelectAll marks every line selected
func (c *Cart) SelectAll() {
	for idx := range c.Items {
		c.Items[idx].Selected = true
	}
	c.Touch()
}

// DeselectAll clears the selection flag on every line
func (c *Cart) DeselectAll() {
	for idx := range c.Items {
		c.Items[idx].Selected = false
	}
	c.Touch()
}

// Item returns a line by its ID
func (c *Cart) Item(itemID uuid.UUID) *LineItem {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			return &c.Items[idx]
		}
	}
	return nil
}

// ItemByProduct returns a line by product ID
func (c *Cart) ItemByProduct(productID uuid.UUID) *LineItem {
	for idx := range c.Items {
		if c.Items[idx].Product.ProductID == productID {
			return &c.Items[idx]
		}
	}
	return nil
}

// SelectedItems returns a copy of the currently selected lines
func (c *Cart) SelectedItems() []LineItem {
	selected := make([]LineItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.Selected {
			selected = append(selected, item)
		}
	}
	return selected
}

// SelectedSubtotal returns the sum of selected line subtotals
func (c *Cart) SelectedSubtotal() valueobject.Money {
	total := valueobject.ZeroVND()
	for _, item := range c.Items {
		if item.Selected {
			total = total.MustAdd(item.Subtotal())
		}
	}
	return total
}

// RemoveProducts deletes the lines holding the given products, used to clear
// only the submitted lines after a successful checkout
func (c *Cart) RemoveProducts(productIDs []uuid.UUID) {
	if len(productIDs) == 0 {
		return
	}
	remove := make(map[uuid.UUID]bool, len(productIDs))
	for _, id := range productIDs {
		remove[id] = true
	}
	kept := c.Items[:0]
	for _, item := range c.Items {
		if !remove[item.Product.ProductID] {
			kept = append(kept, item)
		}
	}
	c.Items = kept
	c.Touch()
}

// ReplaceItems swaps the cart contents wholesale, used when hydrating from a
// store or applying a merge result
func (c *Cart) ReplaceItems(items []LineItem) {
	c.Items = make([]LineItem, len(items))
	copy(c.Items, items)
	c.Touch()
}

// IsEmpty returns true if the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the number of lines in the cart
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// SelectedCount returns the number of selected lines
func (c *Cart) SelectedCount() int {
	n := 0
	for _, item := range c.Items {
		if item.Selected {
			n++
		}
	}
	return n
}

// DistinctSellers returns the seller IDs of the selected lines in first-seen
// order; items without a seller contribute the nil UUID sentinel
func (c *Cart) DistinctSellers() []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	sellers := make([]uuid.UUID, 0)
	for _, item := range c.Items {
		if !item.Selected {
			continue
		}
		if !seen[item.Product.SellerID] {
			seen[item.Product.SellerID] = true
			sellers = append(sellers, item.Product.SellerID)
		}
	}
	return sellers
}

// String returns a compact representation for logging
func (c *Cart) String() string {
	return fmt.Sprintf("cart[%s owner=%s items=%d]", c.Tier, c.OwnerID, len(c.Items))
}
