package address

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
)

// Address is a delivery address in a user's address book
type Address struct {
	shared.BaseAggregateRoot
	UserID      uuid.UUID               `json:"user_id"`
	Recipient   string                  `json:"recipient"`
	Phone       string                  `json:"phone"`
	Line1       string                  `json:"line1"`
	Destination valueobject.Destination `json:"destination"`
	IsDefault   bool                    `json:"is_default"`
}

// NewAddress creates a validated address book entry
func NewAddress(userID uuid.UUID, recipient, phone, line1 string, dest valueobject.Destination) (*Address, error) {
	recipient = strings.TrimSpace(recipient)
	phone = strings.TrimSpace(phone)
	line1 = strings.TrimSpace(line1)

	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID is required")
	}
	if recipient == "" {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient name is required")
	}
	if phone == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone number is required")
	}
	if line1 == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS_LINE", "Street address is required")
	}

	return &Address{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Recipient:         recipient,
		Phone:             phone,
		Line1:             line1,
		Destination:       dest,
	}, nil
}

// Update replaces the mutable fields of the address
func (a *Address) Update(recipient, phone, line1 string, dest valueobject.Destination) error {
	recipient = strings.TrimSpace(recipient)
	phone = strings.TrimSpace(phone)
	line1 = strings.TrimSpace(line1)

	if recipient == "" {
		return shared.NewDomainError("INVALID_RECIPIENT", "Recipient name is required")
	}
	if phone == "" {
		return shared.NewDomainError("INVALID_PHONE", "Phone number is required")
	}
	if line1 == "" {
		return shared.NewDomainError("INVALID_ADDRESS_LINE", "Street address is required")
	}

	a.Recipient = recipient
	a.Phone = phone
	a.Line1 = line1
	a.Destination = dest
	a.Touch()
	return nil
}

// MarkDefault flags the address as the user's default delivery address
func (a *Address) MarkDefault() {
	a.IsDefault = true
	a.Touch()
}

// ClearDefault removes the default flag
func (a *Address) ClearDefault() {
	a.IsDefault = false
	a.Touch()
}

// IsDeliverable reports whether the address carries enough geo detail for a
// shipping quote. Quotes need a district and a ward, nothing less.
func (a *Address) IsDeliverable() bool {
	return a.Destination.IsResolved()
}
