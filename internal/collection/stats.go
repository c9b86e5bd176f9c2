package collection

// Stats summarizes a collection.
type Stats struct {
	// TotalCards is the sum of quantities, not the number of entries.
	TotalCards int `json:"totalCards"`
	// DistinctSets counts distinct set names across entries.
	DistinctSets int `json:"distinctSets"`
	// FavoriteCards counts favorite entries, not weighted by quantity.
	FavoriteCards int `json:"favoriteCards"`
	// TotalValue is the sum of price * quantity.
	TotalValue float64 `json:"totalValue"`
	// Entries is the number of distinct entries.
	Entries int `json:"entries"`
}

// Stats aggregates the current collection. It does not modify state.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	var s Stats
	sets := make(map[string]struct{})
	for _, c := range e.cards {
		s.TotalCards += c.Quantity
		s.TotalValue += c.Price * float64(c.Quantity)
		if c.IsFavorite {
			s.FavoriteCards++
		}
		sets[c.Set] = struct{}{}
	}
	s.DistinctSets = len(sets)
	s.Entries = len(e.cards)
	return s
}
