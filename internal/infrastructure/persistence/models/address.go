package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/address"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
)

// AddressModel is the persistence model for an address book entry. The
// destination is flattened into plain geo columns.
type AddressModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Recipient  string    `gorm:"not null"`
	Phone      string    `gorm:"not null"`
	Line1      string    `gorm:"not null"`
	ProvinceID int       `gorm:"not null;default:0"`
	DistrictID int       `gorm:"not null;default:0"`
	WardCode   string    `gorm:"not null;default:''"`
	IsDefault  bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name
func (AddressModel) TableName() string {
	return "addresses"
}

// ToDomain converts the row to the domain aggregate
func (m *AddressModel) ToDomain() *address.Address {
	dest := valueobject.EmptyDestination()
	if d, err := valueobject.NewDestination(m.ProvinceID, m.DistrictID, m.WardCode); err == nil {
		dest = d
	}

	addr := &address.Address{
		UserID:      m.UserID,
		Recipient:   m.Recipient,
		Phone:       m.Phone,
		Line1:       m.Line1,
		Destination: dest,
		IsDefault:   m.IsDefault,
	}
	addr.BaseAggregateRoot = shared.BaseAggregateRoot{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
	return addr
}

// AddressModelFromDomain converts the domain aggregate to its row shape
func AddressModelFromDomain(addr *address.Address) AddressModel {
	return AddressModel{
		ID:         addr.ID,
		UserID:     addr.UserID,
		Recipient:  addr.Recipient,
		Phone:      addr.Phone,
		Line1:      addr.Line1,
		ProvinceID: addr.Destination.ProvinceID(),
		DistrictID: addr.Destination.DistrictID(),
		WardCode:   addr.Destination.WardCode(),
		IsDefault:  addr.IsDefault,
		CreatedAt:  addr.CreatedAt,
		UpdatedAt:  addr.UpdatedAt,
	}
}
