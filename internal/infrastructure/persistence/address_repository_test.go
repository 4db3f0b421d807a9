package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/address"
	"github.com/shopmall/backend/internal/domain/shared"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAddress(t *testing.T, userID uuid.UUID) *address.Address {
	t.Helper()
	dest, err := valueobject.NewDestination(201, 1442, "21211")
	require.NoError(t, err)
	addr, err := address.NewAddress(userID, "Nguyen Van A", "0900000001", "12 Ly Thuong Kiet", dest)
	require.NoError(t, err)
	return addr
}

func TestGormAddressRepository_SaveAndFind(t *testing.T) {
	repo := NewGormAddressRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	addr := newAddress(t, userID)
	require.NoError(t, repo.Save(ctx, addr))

	found, err := repo.FindByID(ctx, addr.ID)
	require.NoError(t, err)
	assert.Equal(t, addr.Recipient, found.Recipient)
	assert.Equal(t, addr.Phone, found.Phone)
	assert.True(t, found.Destination.Equals(addr.Destination))
	assert.True(t, found.IsDeliverable())
}

func TestGormAddressRepository_FindByID_NotFound(t *testing.T) {
	repo := NewGormAddressRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormAddressRepository_UnresolvedDestinationRoundTrip(t *testing.T) {
	repo := NewGormAddressRepository(newTestDB(t))
	ctx := context.Background()

	addr, err := address.NewAddress(uuid.New(), "Nguyen Van B", "0900000002", "5 Trang Tien",
		valueobject.EmptyDestination())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, addr))

	found, err := repo.FindByID(ctx, addr.ID)
	require.NoError(t, err)
	assert.False(t, found.IsDeliverable(), "unresolved geo codes stay unresolved")
}

func TestGormAddressRepository_FindByUser(t *testing.T) {
	repo := NewGormAddressRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	first := newAddress(t, userID)
	second := newAddress(t, userID)
	second.MarkDefault()
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, newAddress(t, uuid.New()))) // someone else's

	addresses, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.Equal(t, second.ID, addresses[0].ID, "default entry listed first")
}

func TestGormAddressRepository_SetDefault(t *testing.T) {
	repo := NewGormAddressRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	first := newAddress(t, userID)
	first.MarkDefault()
	second := newAddress(t, userID)
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	require.NoError(t, repo.SetDefault(ctx, userID, second.ID))

	def, err := repo.FindDefault(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)

	// The old default lost its flag
	old, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, old.IsDefault)
}

func TestGormAddressRepository_SetDefault_UnknownAddress(t *testing.T) {
	repo := NewGormAddressRepository(newTestDB(t))

	err := repo.SetDefault(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormAddressRepository_Delete(t *testing.T) {
	repo := NewGormAddressRepository(newTestDB(t))
	ctx := context.Background()

	addr := newAddress(t, uuid.New())
	require.NoError(t, repo.Save(ctx, addr))
	require.NoError(t, repo.Delete(ctx, addr.ID))

	_, err := repo.FindByID(ctx, addr.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
