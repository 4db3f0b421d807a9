package address

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists address book entries
type Repository interface {
	Save(ctx context.Context, addr *Address) error
	FindByID(ctx context.Context, id uuid.UUID) (*Address, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Address, error)
	FindDefault(ctx context.Context, userID uuid.UUID) (*Address, error)
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
