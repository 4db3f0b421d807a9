package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/cart"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
	"github.com/shopmall/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CartLineModel{}, &models.AddressModel{}))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return db
}

func storedLine(qty int, selected bool) cart.PersistedLine {
	productID := uuid.New()
	return cart.PersistedLine{
		ProductID: productID,
		Quantity:  qty,
		Selected:  selected,
		Product: cart.ProductSnapshot{
			ProductID:   productID,
			Name:        "P-" + productID.String()[:8],
			Price:       valueobject.NewMoneyVNDFromInt(45000),
			SellerID:    uuid.New(),
			SellerName:  "Shop A",
			WeightGrams: 120,
		},
	}
}

func TestGormAccountCartStore_ReplaceAndLoad(t *testing.T) {
	store := NewGormAccountCartStore(newTestDB(t))
	userID := uuid.New()
	ctx := context.Background()

	first := storedLine(2, true)
	second := storedLine(1, false)
	require.NoError(t, store.Replace(ctx, userID, []cart.PersistedLine{first, second}))

	loaded, err := store.Load(ctx, userID)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// Insertion order and full snapshot survive the round trip
	assert.Equal(t, first.ProductID, loaded[0].ProductID)
	assert.Equal(t, 2, loaded[0].Quantity)
	assert.True(t, loaded[0].Selected)
	assert.Equal(t, first.Product.Name, loaded[0].Product.Name)
	assert.True(t, loaded[0].Product.Price.Equals(valueobject.NewMoneyVNDFromInt(45000)))
	assert.Equal(t, first.Product.SellerID, loaded[0].Product.SellerID)
	assert.Equal(t, int64(120), loaded[0].Product.WeightGrams)
	assert.Equal(t, second.ProductID, loaded[1].ProductID)
	assert.False(t, loaded[1].Selected)
}

func TestGormAccountCartStore_ReplaceIsWholesale(t *testing.T) {
	store := NewGormAccountCartStore(newTestDB(t))
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, userID, []cart.PersistedLine{storedLine(1, true), storedLine(2, true)}))

	replacement := storedLine(7, true)
	require.NoError(t, store.Replace(ctx, userID, []cart.PersistedLine{replacement}))

	loaded, err := store.Load(ctx, userID)
	require.NoError(t, err)
	require.Len(t, loaded, 1, "earlier rows do not leak into the new set")
	assert.Equal(t, replacement.ProductID, loaded[0].ProductID)
	assert.Equal(t, 7, loaded[0].Quantity)
}

func TestGormAccountCartStore_ReplaceEmptyClears(t *testing.T) {
	store := NewGormAccountCartStore(newTestDB(t))
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, userID, []cart.PersistedLine{storedLine(1, true)}))
	require.NoError(t, store.Replace(ctx, userID, nil))

	loaded, err := store.Load(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestGormAccountCartStore_RemoveProducts(t *testing.T) {
	store := NewGormAccountCartStore(newTestDB(t))
	userID := uuid.New()
	ctx := context.Background()

	kept := storedLine(2, true)
	sold := storedLine(1, true)
	require.NoError(t, store.Replace(ctx, userID, []cart.PersistedLine{kept, sold}))

	require.NoError(t, store.RemoveProducts(ctx, userID, []uuid.UUID{sold.ProductID}))

	loaded, err := store.Load(ctx, userID)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, kept.ProductID, loaded[0].ProductID)

	// Removing nothing is a no-op
	require.NoError(t, store.RemoveProducts(ctx, userID, nil))
}

func TestGormAccountCartStore_IsolatesUsers(t *testing.T) {
	store := NewGormAccountCartStore(newTestDB(t))
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	require.NoError(t, store.Replace(ctx, alice, []cart.PersistedLine{storedLine(1, true)}))
	require.NoError(t, store.Replace(ctx, bob, []cart.PersistedLine{storedLine(5, true)}))

	require.NoError(t, store.Clear(ctx, alice))

	aliceLines, err := store.Load(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, aliceLines)

	bobLines, err := store.Load(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, bobLines, 1)
}
