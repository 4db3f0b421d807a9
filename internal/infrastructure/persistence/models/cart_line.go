package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/cart"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CartLineModel is the persistence model for one account-cart line, one row
// per (user, product) pair. Position preserves insertion order across loads.
type CartLineModel struct {
	UserID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position    int             `gorm:"not null"`
	Quantity    int             `gorm:"not null"`
	Selected    bool            `gorm:"not null;default:true"`
	Name        string          `gorm:"not null"`
	PriceAmount decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'VND'"`
	ImageURL    string
	SellerID    uuid.UUID `gorm:"type:uuid;index"`
	SellerName  string
	WeightGrams int64     `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name
func (CartLineModel) TableName() string {
	return "account_cart_lines"
}

// ToPersistedLine converts the row to its domain shape
func (m *CartLineModel) ToPersistedLine() cart.PersistedLine {
	price, err := valueobject.NewMoney(m.PriceAmount, valueobject.Currency(m.Currency))
	if err != nil {
		price = valueobject.NewMoneyVND(m.PriceAmount)
	}
	return cart.PersistedLine{
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Selected:  m.Selected,
		Product: cart.ProductSnapshot{
			ProductID:   m.ProductID,
			Name:        m.Name,
			Price:       price,
			ImageURL:    m.ImageURL,
			SellerID:    m.SellerID,
			SellerName:  m.SellerName,
			WeightGrams: m.WeightGrams,
		},
	}
}

// CartLineModelFromPersisted converts a domain line to its row shape
func CartLineModelFromPersisted(userID uuid.UUID, position int, line cart.PersistedLine) CartLineModel {
	return CartLineModel{
		UserID:      userID,
		ProductID:   line.ProductID,
		Position:    position,
		Quantity:    line.Quantity,
		Selected:    line.Selected,
		Name:        line.Product.Name,
		PriceAmount: line.Product.Price.Amount(),
		Currency:    string(line.Product.Price.Currency()),
		ImageURL:    line.Product.ImageURL,
		SellerID:    line.Product.SellerID,
		SellerName:  line.Product.SellerName,
		WeightGrams: line.Product.WeightGrams,
	}
}
