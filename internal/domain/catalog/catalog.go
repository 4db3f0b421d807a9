package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/cart"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
)

// Product is the catalog view of a sellable item. The cart does not hold a
// live reference to it; adding to cart takes a snapshot of the fields the
// cart needs at that moment.
type Product struct {
	ProductID   uuid.UUID         `json:"product_id"`
	Name        string            `json:"name"`
	Price       valueobject.Money `json:"price"`
	ImageURL    string            `json:"image_url"`
	SellerID    uuid.UUID         `json:"seller_id"`
	SellerName  string            `json:"seller_name"`
	WeightGrams int64             `json:"weight_grams"`
	InStock     bool              `json:"in_stock"`
}

// Snapshot freezes the product into the form carried by a cart line
func (p Product) Snapshot() cart.ProductSnapshot {
	return cart.ProductSnapshot{
		ProductID:   p.ProductID,
		Name:        p.Name,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		SellerID:    p.SellerID,
		SellerName:  p.SellerName,
		WeightGrams: p.WeightGrams,
	}
}

// Service looks up catalog products at add-to-cart time
type Service interface {
	Product(ctx context.Context, productID uuid.UUID) (*Product, error)
}
