package checkout

import (
	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/cart"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
)

// UnassignedSellerName labels the sentinel bucket for items whose snapshot
// carries no seller. Such items stay in the checkout total; they are never
// silently dropped.
const UnassignedSellerName = "Unassigned seller"

// SellerGroup is a derived partition of selected cart items by owning seller.
// Groups are rebuilt from the current selection, never mutated in place.
type SellerGroup struct {
	SellerID    uuid.UUID         `json:"seller_id"`
	SellerName  string            `json:"seller_name"`
	Items       []cart.LineItem   `json:"items"`
	Subtotal    valueobject.Money `json:"subtotal"`
	WeightGrams int64             `json:"weight_grams"`
}

// Partition groups the given items by seller in first-seen order. It is a
// pure function: every input item lands in exactly one group, items without
// a seller fall into the nil-UUID sentinel bucket, and group subtotals sum
// to the input subtotal.
func Partition(items []cart.LineItem) []SellerGroup {
	groups := make([]SellerGroup, 0)
	index := make(map[uuid.UUID]int)

	for _, item := range items {
		sellerID := item.Product.SellerID
		at, ok := index[sellerID]
		if !ok {
			name := item.Product.SellerName
			if sellerID == uuid.Nil || name == "" {
				name = UnassignedSellerName
			}
			at = len(groups)
			index[sellerID] = at
			groups = append(groups, SellerGroup{
				SellerID:   sellerID,
				SellerName: name,
				Items:      make([]cart.LineItem, 0, 1),
				Subtotal:   valueobject.ZeroVND(),
			})
		}
		groups[at].Items = append(groups[at].Items, item)
		groups[at].Subtotal = groups[at].Subtotal.MustAdd(item.Subtotal())
		groups[at].WeightGrams += item.WeightGrams()
	}

	return groups
}
