package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/cart"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress(t *testing.T) AddressSnapshot {
	dest, err := valueobject.NewDestination(201, 1442, "21211")
	require.NoError(t, err)
	return AddressSnapshot{
		AddressID:   uuid.New(),
		Recipient:   "Nguyen Van A",
		Phone:       "0900000001",
		Line1:       "12 Ly Thuong Kiet",
		Destination: dest,
	}
}

func TestPaymentMethod_IsValid(t *testing.T) {
	assert.True(t, PaymentMethodCOD.IsValid())
	assert.True(t, PaymentMethodBankTransfer.IsValid())
	assert.True(t, PaymentMethodWallet.IsValid())
	assert.False(t, PaymentMethod("CRYPTO").IsValid())
}

func TestNewCheckoutDraft(t *testing.T) {
	s1 := uuid.New()
	items := []cart.LineItem{testItem(s1, "Shop A", 10000, 2)}

	t.Run("freezes items and totals", func(t *testing.T) {
		draft, err := NewCheckoutDraft(testAddress(t), PaymentMethodCOD, items,
			valueobject.NewMoneyVNDFromInt(25000), valueobject.ZeroVND())
		require.NoError(t, err)

		assert.True(t, draft.ItemsSubtotal().Equals(valueobject.NewMoneyVNDFromInt(20000)))
		assert.True(t, draft.GrandTotal().Equals(valueobject.NewMoneyVNDFromInt(45000)))
	})

	t.Run("applies discount", func(t *testing.T) {
		draft, err := NewCheckoutDraft(testAddress(t), PaymentMethodCOD, items,
			valueobject.NewMoneyVNDFromInt(25000), valueobject.NewMoneyVNDFromInt(5000))
		require.NoError(t, err)
		assert.True(t, draft.GrandTotal().Equals(valueobject.NewMoneyVNDFromInt(40000)))
	})

	t.Run("rejects empty item set", func(t *testing.T) {
		_, err := NewCheckoutDraft(testAddress(t), PaymentMethodCOD, nil,
			valueobject.ZeroVND(), valueobject.ZeroVND())
		require.Error(t, err)
	})

	t.Run("rejects unknown payment method", func(t *testing.T) {
		_, err := NewCheckoutDraft(testAddress(t), PaymentMethod("CRYPTO"), items,
			valueobject.ZeroVND(), valueobject.ZeroVND())
		require.Error(t, err)
	})

	t.Run("rejects negative discount", func(t *testing.T) {
		_, err := NewCheckoutDraft(testAddress(t), PaymentMethodCOD, items,
			valueobject.ZeroVND(), valueobject.NewMoneyVNDFromInt(-1))
		require.Error(t, err)
	})
}

func TestCheckoutDraft_ToSubmission(t *testing.T) {
	s1 := uuid.New()
	items := []cart.LineItem{
		testItem(s1, "Shop A", 10000, 2),
		testItem(s1, "Shop A", 20000, 1),
	}
	draft, err := NewCheckoutDraft(testAddress(t), PaymentMethodWallet, items,
		valueobject.NewMoneyVNDFromInt(15000), valueobject.ZeroVND())
	require.NoError(t, err)

	userID := uuid.New()
	sub := draft.ToSubmission(userID)

	assert.Equal(t, userID, sub.UserID)
	assert.Equal(t, PaymentMethodWallet, sub.PaymentMethod)
	require.Len(t, sub.Lines, 2)
	assert.Equal(t, items[0].Product.ProductID, sub.Lines[0].ProductID)
	assert.Equal(t, 2, sub.Lines[0].Quantity)
	assert.True(t, sub.Lines[0].PriceAtPurchase.Equals(valueobject.NewMoneyVNDFromInt(10000)))
	assert.True(t, sub.ShippingFee.Equals(valueobject.NewMoneyVNDFromInt(15000)))
}

func TestQuoteSet(t *testing.T) {
	dest, err := valueobject.NewDestination(201, 1442, "21211")
	require.NoError(t, err)
	s1 := uuid.New()
	s2 := uuid.New()

	set := NewReadyQuoteSet(dest, map[uuid.UUID]valueobject.Money{
		s1: valueobject.NewMoneyVNDFromInt(18000),
		s2: valueobject.NewMoneyVNDFromInt(22000),
	})

	assert.True(t, set.IsReady())
	assert.True(t, set.Total.Equals(valueobject.NewMoneyVNDFromInt(40000)))
	assert.True(t, set.CoversSellers([]uuid.UUID{s1, s2}))
	assert.False(t, set.CoversSellers([]uuid.UUID{s1, uuid.New()}))

	assert.False(t, QuoteSet{}.IsReady(), "empty set is never ready")
}
