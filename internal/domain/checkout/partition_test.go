package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/cart"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItem(sellerID uuid.UUID, sellerName string, priceVND int64, qty int) cart.LineItem {
	productID := uuid.New()
	return cart.LineItem{
		ID: uuid.New(),
		Product: cart.ProductSnapshot{
			ProductID:   productID,
			Name:        "P-" + productID.String()[:8],
			Price:       valueobject.NewMoneyVNDFromInt(priceVND),
			SellerID:    sellerID,
			SellerName:  sellerName,
			WeightGrams: 100,
		},
		Quantity: qty,
		Selected: true,
	}
}

func TestPartition_GroupsBySeller(t *testing.T) {
	s1 := uuid.New()
	s2 := uuid.New()
	items := []cart.LineItem{
		testItem(s1, "Shop A", 10000, 2),
		testItem(s2, "Shop B", 20000, 1),
		testItem(s1, "Shop A", 5000, 3),
	}

	groups := Partition(items)

	require.Len(t, groups, 2)
	assert.Equal(t, s1, groups[0].SellerID)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, s2, groups[1].SellerID)
	assert.Len(t, groups[1].Items, 1)
}

// Partitioning is a total, lossless cover: every item lands in exactly one
// group and group subtotals sum to the input subtotal.
func TestPartition_LosslessCover(t *testing.T) {
	s1 := uuid.New()
	s2 := uuid.New()
	items := []cart.LineItem{
		testItem(s1, "Shop A", 10000, 2),
		testItem(s2, "Shop B", 20000, 1),
		testItem(uuid.Nil, "", 7000, 4),
		testItem(s1, "Shop A", 3000, 1),
	}

	groups := Partition(items)

	covered := 0
	seen := make(map[uuid.UUID]bool)
	groupTotal := valueobject.ZeroVND()
	for _, g := range groups {
		covered += len(g.Items)
		for _, item := range g.Items {
			assert.False(t, seen[item.ID], "item duplicated across groups")
			seen[item.ID] = true
		}
		groupTotal = groupTotal.MustAdd(g.Subtotal)
	}

	inputTotal := valueobject.ZeroVND()
	for _, item := range items {
		inputTotal = inputTotal.MustAdd(item.Subtotal())
	}

	assert.Equal(t, len(items), covered)
	assert.True(t, groupTotal.Equals(inputTotal))
}

func TestPartition_UnassignedSellerBucket(t *testing.T) {
	items := []cart.LineItem{testItem(uuid.Nil, "", 9000, 1)}

	groups := Partition(items)

	require.Len(t, groups, 1)
	assert.Equal(t, uuid.Nil, groups[0].SellerID)
	assert.Equal(t, UnassignedSellerName, groups[0].SellerName)
	assert.Len(t, groups[0].Items, 1, "orphan item stays in the checkout total")
}

func TestPartition_WeightSums(t *testing.T) {
	s1 := uuid.New()
	items := []cart.LineItem{
		testItem(s1, "Shop A", 10000, 2), // 200g
		testItem(s1, "Shop A", 5000, 3),  // 300g
	}

	groups := Partition(items)

	require.Len(t, groups, 1)
	assert.Equal(t, int64(500), groups[0].WeightGrams)
}

func TestPartition_Empty(t *testing.T) {
	assert.Empty(t, Partition(nil))
}

func TestPartition_Deterministic(t *testing.T) {
	s1 := uuid.New()
	s2 := uuid.New()
	items := []cart.LineItem{
		testItem(s2, "Shop B", 20000, 1),
		testItem(s1, "Shop A", 10000, 2),
	}

	first := Partition(items)
	second := Partition(items)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].SellerID, second[i].SellerID)
	}
	assert.Equal(t, s2, first[0].SellerID, "first-seen seller order")
}
