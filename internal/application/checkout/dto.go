package checkout

import (
	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/checkout"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
)

// SellerGroupView is the read model of one seller's share of the checkout
type SellerGroupView struct {
	SellerID    uuid.UUID         `json:"seller_id"`
	SellerName  string            `json:"seller_name"`
	ItemCount   int               `json:"item_count"`
	Subtotal    valueobject.Money `json:"subtotal"`
	WeightGrams int64             `json:"weight_grams"`
	ShippingFee *valueobject.Money `json:"shipping_fee,omitempty"`
}

// PrepareView is the read model of a prepared checkout
type PrepareView struct {
	Address       checkout.AddressSnapshot `json:"address"`
	PaymentMethod checkout.PaymentMethod   `json:"payment_method"`
	Groups        []SellerGroupView        `json:"groups"`
	QuoteState    QuoteState               `json:"quote_state"`
	ItemsSubtotal valueobject.Money        `json:"items_subtotal"`
	ShippingTotal valueobject.Money        `json:"shipping_total"`
	GrandTotal    valueobject.Money        `json:"grand_total"`
}

// SubmitView is the read model of a submitted order
type SubmitView struct {
	OrderID    uuid.UUID         `json:"order_id"`
	GrandTotal valueobject.Money `json:"grand_total"`
}

func newPrepareView(addr checkout.AddressSnapshot, method checkout.PaymentMethod, groups []checkout.SellerGroup, quotes checkout.QuoteSet, state QuoteState) *PrepareView {
	views := make([]SellerGroupView, len(groups))
	itemsSubtotal := valueobject.ZeroVND()
	for i, g := range groups {
		views[i] = SellerGroupView{
			SellerID:    g.SellerID,
			SellerName:  g.SellerName,
			ItemCount:   len(g.Items),
			Subtotal:    g.Subtotal,
			WeightGrams: g.WeightGrams,
		}
		if quote, ok := quotes.Quotes[g.SellerID]; ok {
			fee := quote.Fee
			views[i].ShippingFee = &fee
		}
		itemsSubtotal = itemsSubtotal.MustAdd(g.Subtotal)
	}

	view := &PrepareView{
		Address:       addr,
		PaymentMethod: method,
		Groups:        views,
		QuoteState:    state,
		ItemsSubtotal: itemsSubtotal,
		ShippingTotal: valueobject.ZeroVND(),
		GrandTotal:    itemsSubtotal,
	}
	if state == QuoteStateReady {
		view.ShippingTotal = quotes.Total
		view.GrandTotal = itemsSubtotal.MustAdd(quotes.Total)
	}
	return view
}

func zeroDiscount() valueobject.Money {
	return valueobject.ZeroVND()
}
