package collection

import "github.com/roach88/cardvault/internal/card"

// sanitize repairs a stored collection so that it satisfies the collection
// invariants. Caller must hold e.mu.
//
//   - entries without an id or with Quantity < 1 are dropped
//   - entries with an unknown source are dropped; a missing source means catalog
//   - OriginalID is derived for catalog entries and cleared for the rest
//   - a repeated id is replaced by a freshly generated one
//
// Entries sharing a signature are kept as they are: a catalog sync can leave
// two entries of one catalog card with identical fields.
func (e *Engine) sanitize(stored []card.CollectionCard) []card.CollectionCard {
	out := make([]card.CollectionCard, 0, len(stored))
	ids := make(map[string]bool, len(stored))
	var dropped, renamed int

	for _, entry := range stored {
		if entry.ID == "" || entry.Quantity < 1 {
			dropped++
			continue
		}
		if entry.Source == "" {
			entry.Source = card.SourceCatalog
		}
		if !entry.Source.Valid() {
			dropped++
			continue
		}
		switch {
		case entry.Source != card.SourceCatalog:
			entry.OriginalID = ""
		case entry.OriginalID == "":
			entry.OriginalID = card.BaseID(entry.ID)
		}

		if ids[entry.ID] {
			entry.ID = e.newEntryID(card.BaseID(entry.ID), entry.AddedAt, func(id string) bool { return ids[id] })
			renamed++
		}
		ids[entry.ID] = true
		out = append(out, entry)
	}

	if dropped+renamed > 0 {
		e.logger.Warn("repaired stored collection",
			"user", e.userID,
			"dropped", dropped,
			"renamed", renamed,
		)
	}
	return out
}
