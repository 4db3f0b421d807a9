package cart

import (
	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/cart"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
)

// LineItemView is the read model of one cart line
type LineItemView struct {
	ID         uuid.UUID         `json:"id"`
	ProductID  uuid.UUID         `json:"product_id"`
	Name       string            `json:"name"`
	Price      valueobject.Money `json:"price"`
	ImageURL   string            `json:"image_url,omitempty"`
	SellerID   uuid.UUID         `json:"seller_id"`
	SellerName string            `json:"seller_name,omitempty"`
	Quantity   int               `json:"quantity"`
	Selected   bool              `json:"selected"`
	Subtotal   valueobject.Money `json:"subtotal"`
}

// CartView is the read model of the working cart
type CartView struct {
	Tier             cart.Tier         `json:"tier"`
	OwnerID          uuid.UUID         `json:"owner_id"`
	Items            []LineItemView    `json:"items"`
	ItemCount        int               `json:"item_count"`
	SelectedCount    int               `json:"selected_count"`
	SelectedSubtotal valueobject.Money `json:"selected_subtotal"`
}

// NewCartView builds the read model from the aggregate
func NewCartView(c *cart.Cart) CartView {
	items := make([]LineItemView, len(c.Items))
	for i, item := range c.Items {
		items[i] = LineItemView{
			ID:         item.ID,
			ProductID:  item.Product.ProductID,
			Name:       item.Product.Name,
			Price:      item.Product.Price,
			ImageURL:   item.Product.ImageURL,
			SellerID:   item.Product.SellerID,
			SellerName: item.Product.SellerName,
			Quantity:   item.Quantity,
			Selected:   item.Selected,
			Subtotal:   item.Subtotal(),
		}
	}
	return CartView{
		Tier:             c.Tier,
		OwnerID:          c.OwnerID,
		Items:            items,
		ItemCount:        c.ItemCount(),
		SelectedCount:    c.SelectedCount(),
		SelectedSubtotal: c.SelectedSubtotal(),
	}
}
