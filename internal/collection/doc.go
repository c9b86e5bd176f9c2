// Package collection implements the card collection engine.
//
// An Engine owns the list of CollectionCard entries for exactly one user and
// is the sole writer of that user's persisted blob. It decides, per incoming
// card, whether the card merges into an existing entry (quantity + 1) or
// becomes a new entry, using card.Signature as the equality key.
//
// STATE MODEL:
//
// The in-memory list is authoritative for the session. Every mutation runs
// under the engine mutex against the latest state and then writes the whole
// list through the kv.Store as a JSON array. A failed write is logged and the
// in-memory state is kept.
//
// INVARIANTS:
//   - Every entry has Quantity >= 1; an entry reaching 0 is removed.
//   - No two entries share a signature.
//   - Entry ids are unique and differ from the originating card id.
//   - OriginalID is set if and only if Source is card.SourceCatalog.
//
// Before Load is called with a non-empty user id the engine is inert: Cards is
// empty and every mutator is a no-op.
package collection
