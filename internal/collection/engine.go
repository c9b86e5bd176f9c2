package collection

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/roach88/cardvault/internal/card"
	"github.com/roach88/cardvault/internal/kv"
)

// maxTokenRetries bounds how many fresh tokens are drawn for a colliding
// entry id before the attempt counter is appended to the token.
const maxTokenRetries = 4

// Engine is the collection engine for one user.
//
// Thread-safety: all methods are safe for concurrent use. Each operation runs
// under a single mutex against the latest state, so N concurrent
// AddToCollection calls with one signature always yield quantity N.
type Engine struct {
	mu     sync.Mutex
	store  kv.Store
	clock  Clock
	tokens TokenSource
	logger *slog.Logger

	userID string
	cards  []card.CollectionCard
}

// New creates an engine backed by store. A nil store behaves as kv.Unavailable.
//
// The engine is inert until Load is called with a user id.
func New(store kv.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		clock:  SystemClock{},
		tokens: RandomTokens{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = kv.Unavailable{}
	}
	return e
}

// UserID returns the user the engine is bound to, or "" before Load.
func (e *Engine) UserID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.userID
}

// Load binds the engine to userID and reads the persisted collection.
//
// Missing, unreadable or corrupt data yields an empty collection and is only
// logged. Stored entries that break collection invariants are repaired (see
// sanitize). Load never writes to the store.
func (e *Engine) Load(ctx context.Context, userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.userID = userID
	e.cards = nil
	if userID == "" {
		return
	}

	key := kv.CollectionKey(userID)
	data, ok, err := e.store.Get(ctx, key)
	if err != nil {
		e.logger.Warn("collection storage unavailable, starting empty", "user", userID, "error", err)
		return
	}
	if !ok {
		return
	}

	var stored []card.CollectionCard
	if err := json.Unmarshal(data, &stored); err != nil {
		e.logger.Warn("discarding corrupt collection", "user", userID, "key", key, "error", err)
		return
	}
	e.cards = e.sanitize(stored)
}

// AddToCollection adds one copy of c under source (card.SourceCatalog when empty).
//
// If an entry with the same signature exists its quantity is incremented and
// no id is generated. Otherwise a new entry is appended with a fresh id,
// quantity 1 and the condition defaulted. Returns a copy of the resulting
// entry and whether it was newly created.
func (e *Engine) AddToCollection(ctx context.Context, c card.Card, source card.Source) (card.CollectionCard, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.userID == "" {
		return card.CollectionCard{}, false
	}
	if source == "" {
		source = card.SourceCatalog
	}
	if !source.Valid() {
		e.logger.Warn("ignoring card with unknown source", "card", c.ID, "source", source)
		return card.CollectionCard{}, false
	}

	sig := card.SignatureOf(c, source)
	for i := range e.cards {
		if e.cards[i].Signature() == sig {
			e.cards[i].Quantity++
			e.persist(ctx)
			return e.cards[i].Clone(), false
		}
	}

	now := e.clock.Now().UTC().Truncate(time.Millisecond)
	// A catalog id that already ends in an entry suffix loses it here too.
	base := card.BaseID(c.ID)
	entry := card.CollectionCard{
		Card:     card.Normalize(c),
		AddedAt:  now,
		Quantity: 1,
		Source:   source,
	}
	entry.ID = e.newEntryID(base, now, e.hasID)
	if source == card.SourceCatalog {
		entry.OriginalID = base
	}

	e.cards = append(e.cards, entry)
	e.persist(ctx)
	return entry.Clone(), true
}

// RemoveFromCollection removes one copy of the entry with the given id.
// Reports whether an entry was found.
func (e *Engine) RemoveFromCollection(ctx context.Context, id string) bool {
	return e.RemoveQuantity(ctx, id, 1)
}

// RemoveQuantity removes min(n, quantity) copies of the entry with the given
// id, deleting the entry when none remain. n <= 0 is a no-op.
// Reports whether the collection changed.
func (e *Engine) RemoveQuantity(ctx context.Context, id string, n int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if n <= 0 {
		return false
	}
	i := e.indexOf(id)
	if i < 0 {
		return false
	}

	e.cards[i].Quantity -= min(n, e.cards[i].Quantity)
	if e.cards[i].Quantity <= 0 {
		e.cards = slices.Delete(e.cards, i, i+1)
	}
	e.persist(ctx)
	return true
}

// UpdateCard replaces the card fields of the entry whose id equals updated.ID.
//
// Only name, image, rarity, color, type, set, description, price, mana cost,
// attack, defense and condition change; the entry keeps its id, quantity,
// favorite flag, AddedAt, source and OriginalID. The edit is rejected when it
// changes the entry's signature to that of another entry.
// Reports whether the entry exists and now holds the updated fields.
func (e *Engine) UpdateCard(ctx context.Context, updated card.Card) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOf(updated.ID)
	if i < 0 {
		return false
	}

	next := e.cards[i].Clone()
	setCardFields(&next, card.Normalize(updated))
	if sameCard(next.Card, e.cards[i].Card) {
		return true
	}

	// Sync can leave twins behind; an edit that keeps the signature is fine.
	if sig := next.Signature(); sig != e.cards[i].Signature() {
		for j := range e.cards {
			if j != i && e.cards[j].Signature() == sig {
				e.logger.Warn("rejecting edit that duplicates another entry",
					"entry", updated.ID, "duplicate", e.cards[j].ID)
				return false
			}
		}
	}

	e.cards[i] = next
	e.persist(ctx)
	return true
}

// ToggleFavorite flips IsFavorite on the entry with the given id.
// Reports whether an entry was found.
func (e *Engine) ToggleFavorite(ctx context.Context, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOf(id)
	if i < 0 {
		return false
	}
	e.cards[i].IsFavorite = !e.cards[i].IsFavorite
	e.persist(ctx)
	return true
}

// SyncWithCatalog propagates catalog changes into catalog-sourced entries.
//
// Each entry with Source catalog and a non-empty OriginalID is matched to the
// catalog card with that id. Name, image, price, description, rarity, color,
// type, set, mana cost, attack and defense are overwritten when any differ.
// Entries without a matching catalog card are left untouched. Nothing is
// persisted unless an entry changed. Returns the number of updated entries.
//
// When the catalog lists an id more than once the first occurrence wins.
func (e *Engine) SyncWithCatalog(ctx context.Context, catalog []card.Card) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.cards) == 0 || len(catalog) == 0 {
		return 0
	}

	byID := make(map[string]card.Card, len(catalog))
	for _, c := range catalog {
		if _, dup := byID[c.ID]; !dup {
			byID[c.ID] = c
		}
	}

	updated := 0
	for i := range e.cards {
		entry := &e.cards[i]
		if entry.Source != card.SourceCatalog || entry.OriginalID == "" {
			continue
		}
		src, ok := byID[entry.OriginalID]
		if !ok {
			continue
		}
		if syncFields(entry, src) {
			updated++
		}
	}

	if updated > 0 {
		e.logger.Debug("synced collection with catalog", "user", e.userID, "updated", updated)
		e.persist(ctx)
	}
	return updated
}

// Cards returns a deep copy of the current entries in insertion order.
// The result is never nil.
func (e *Engine) Cards() []card.CollectionCard {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]card.CollectionCard, len(e.cards))
	for i, c := range e.cards {
		out[i] = c.Clone()
	}
	return out
}

// Entry returns a copy of the entry with the given id.
func (e *Engine) Entry(id string) (card.CollectionCard, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOf(id)
	if i < 0 {
		return card.CollectionCard{}, false
	}
	return e.cards[i].Clone(), true
}

// persist writes the whole collection. Caller must hold e.mu.
func (e *Engine) persist(ctx context.Context) {
	if e.userID == "" {
		return
	}

	cards := e.cards
	if cards == nil {
		cards = []card.CollectionCard{}
	}
	data, err := json.Marshal(cards)
	if err != nil {
		e.logger.Warn("encode collection failed", "user", e.userID, "error", err)
		return
	}
	if err := e.store.Set(ctx, kv.CollectionKey(e.userID), data); err != nil {
		e.logger.Warn("persist collection failed", "user", e.userID, "error", err)
	}
}

func (e *Engine) indexOf(id string) int {
	for i := range e.cards {
		if e.cards[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) hasID(id string) bool {
	return e.indexOf(id) >= 0
}

// newEntryID builds an entry id for base that taken does not report as used.
func (e *Engine) newEntryID(base string, at time.Time, taken func(string) bool) string {
	token := e.tokens.Token()
	for attempt := 1; ; attempt++ {
		id := card.EntryID(base, at, token)
		if !taken(id) {
			return id
		}
		token = e.tokens.Token()
		if attempt >= maxTokenRetries {
			token += strconv.FormatInt(int64(attempt), 36)
		}
	}
}
