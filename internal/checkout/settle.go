package checkout

import (
	"context"

	"github.com/roach88/cardvault/internal/card"
)

// Collector receives purchased copies. *collection.Engine implements it.
type Collector interface {
	AddToCollection(ctx context.Context, c card.Card, source card.Source) (card.CollectionCard, bool)
}

// Receipt records a settled cart.
type Receipt struct {
	// Lines and Total cover only the lines that were bought.
	Lines []Line  `json:"lines"`
	Total float64 `json:"total"`
	// EntryIDs lists the collection entries that received copies, without
	// repeats, in the order they were first touched.
	EntryIDs []string `json:"entryIds"`
	// SoldListings lists the marketplace listings closed by this purchase.
	SoldListings []string `json:"soldListings"`
	// Unavailable lists listings in the cart that were no longer open.
	Unavailable []string `json:"unavailable"`
}

// Settle moves every copy in cart into the collection, one AddToCollection
// call per copy, then clears the cart.
//
// When market is non-nil a listing line is bought only if its listing is
// still open; the listing is removed before any copy is added. Lines whose
// listing is gone are skipped and reported in Receipt.Unavailable.
func Settle(ctx context.Context, cart *Cart, collector Collector, market *Market) Receipt {
	r := Receipt{
		Lines:        []Line{},
		EntryIDs:     []string{},
		SoldListings: []string{},
		Unavailable:  []string{},
	}

	seen := make(map[string]bool)
	for _, line := range cart.Lines() {
		if line.ListingID != "" && market != nil {
			if !market.Remove(line.ListingID) {
				r.Unavailable = append(r.Unavailable, line.ListingID)
				continue
			}
			r.SoldListings = append(r.SoldListings, line.ListingID)
		}

		for i := 0; i < line.Quantity; i++ {
			entry, _ := collector.AddToCollection(ctx, line.Card, line.Source)
			if entry.ID != "" && !seen[entry.ID] {
				seen[entry.ID] = true
				r.EntryIDs = append(r.EntryIDs, entry.ID)
			}
		}
		r.Lines = append(r.Lines, line)
		r.Total += line.Card.Price * float64(line.Quantity)
	}

	cart.Clear()
	return r
}
