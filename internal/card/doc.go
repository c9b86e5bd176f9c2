// Package card provides the card data model and the identity rules that decide
// when two card instances are the same ownable thing.
//
// This package contains types and pure functions only. Every other internal
// package imports card; card imports nothing internal.
//
// Key constraints:
//   - Condition is optional on input and always present on stored entries (Normalize)
//   - CollectionCard ids are generated, never the originating card id
//   - OriginalID is set if and only if Source == SourceCatalog
//   - JSON tags use the camelCase keys of the persisted collection blob
package card
