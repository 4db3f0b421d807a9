package cart

import "github.com/google/uuid"

// MergeLines unions account and guest cart lines by product ID. When both
// sides hold the same product the quantities are summed (clamped to
// MaxLineQuantity), never overwritten. Account lines keep their position;
// guest-only lines follow in guest order.
//
// The function is pure: running it twice over the same inputs yields the same
// result, and quantity sums are commutative across the two sides. Callers
// persist the result with one bulk write so a retry cannot double-count.
func MergeLines(account, guest []PersistedLine) []PersistedLine {
	merged := make([]PersistedLine, 0, len(account)+len(guest))
	index := make(map[uuid.UUID]int, len(account))

	for _, line := range account {
		if line.Quantity < 1 {
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}

	for _, line := range guest {
		if line.Quantity < 1 {
			continue
		}
		if at, ok := index[line.ProductID]; ok {
			qty := merged[at].Quantity + line.Quantity
			if qty > MaxLineQuantity {
				qty = MaxLineQuantity
			}
			merged[at].Quantity = qty
			// A line selected on either side stays selected
			merged[at].Selected = merged[at].Selected || line.Selected
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}

	return merged
}
