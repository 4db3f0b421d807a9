package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
)

// SellerShipment is one seller's share of a shipment for fee quoting:
// the summed weight of that seller's selected items
type SellerShipment struct {
	SellerID    uuid.UUID `json:"seller_id"`
	WeightGrams int64     `json:"weight_grams"`
}

// QuoteRequest asks the delivery provider for per-seller fees to one
// destination. This is the only call that needs cart and address data at
// the same time.
type QuoteRequest struct {
	Shipments  []SellerShipment `json:"shipments"`
	DistrictID int              `json:"district_id"`
	WardCode   string           `json:"ward_code"`
}

// QuoteResult carries one fee per seller plus the aggregate total
type QuoteResult struct {
	Fees  map[uuid.UUID]valueobject.Money `json:"fees"`
	Total valueobject.Money               `json:"total"`
}

// DeliveryFeeService is the delivery provider consumed for shipping quotes
type DeliveryFeeService interface {
	Quote(ctx context.Context, req QuoteRequest) (*QuoteResult, error)
}

// OrderLine is one line of an order submission, with price frozen at
// purchase time
type OrderLine struct {
	ProductID       uuid.UUID         `json:"product_id"`
	ProductName     string            `json:"product_name"`
	Quantity        int               `json:"quantity"`
	PriceAtPurchase valueobject.Money `json:"price_at_purchase"`
}

// OrderSubmission is the payload handed to the order service
type OrderSubmission struct {
	UserID        uuid.UUID         `json:"user_id"`
	Address       AddressSnapshot   `json:"address"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	Lines         []OrderLine       `json:"lines"`
	ShippingFee   valueobject.Money `json:"shipping_fee"`
	Discount      valueobject.Money `json:"discount"`
}

// OrderService persists submitted orders. CreateOrder is called exactly once
// per submit attempt; the engine never auto-retries a send.
type OrderService interface {
	CreateOrder(ctx context.Context, submission OrderSubmission) (uuid.UUID, error)
}
