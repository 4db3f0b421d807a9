package checkout

import (
	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
)

// QuoteStatus is the lifecycle of one per-seller shipping quote
type QuoteStatus string

const (
	QuoteStatusPending QuoteStatus = "PENDING"
	QuoteStatusReady   QuoteStatus = "READY"
	QuoteStatusFailed  QuoteStatus = "FAILED"
)

// ShippingQuote is one seller's shipping fee for the current destination
type ShippingQuote struct {
	SellerID uuid.UUID         `json:"seller_id"`
	Fee      valueobject.Money `json:"fee"`
	Status   QuoteStatus       `json:"status"`
}

// QuoteSet is a snapshot of per-seller quotes plus the aggregate total,
// valid for one (destination, seller set) combination. It is rebuilt, never
// patched, when either input changes.
type QuoteSet struct {
	Destination valueobject.Destination     `json:"destination"`
	Quotes      map[uuid.UUID]ShippingQuote `json:"quotes"`
	Total       valueobject.Money           `json:"total"`
}

// NewReadyQuoteSet builds a ready quote set from per-seller fees
func NewReadyQuoteSet(dest valueobject.Destination, fees map[uuid.UUID]valueobject.Money) QuoteSet {
	quotes := make(map[uuid.UUID]ShippingQuote, len(fees))
	total := valueobject.ZeroVND()
	for sellerID, fee := range fees {
		quotes[sellerID] = ShippingQuote{
			SellerID: sellerID,
			Fee:      fee,
			Status:   QuoteStatusReady,
		}
		total = total.MustAdd(fee)
	}
	return QuoteSet{
		Destination: dest,
		Quotes:      quotes,
		Total:       total,
	}
}

// IsReady returns true if every quote in the set is ready
func (q QuoteSet) IsReady() bool {
	if len(q.Quotes) == 0 {
		return false
	}
	for _, quote := range q.Quotes {
		if quote.Status != QuoteStatusReady {
			return false
		}
	}
	return true
}

// CoversSellers returns true if the set holds a quote for every given seller
func (q QuoteSet) CoversSellers(sellerIDs []uuid.UUID) bool {
	for _, id := range sellerIDs {
		if _, ok := q.Quotes[id]; !ok {
			return false
		}
	}
	return true
}
