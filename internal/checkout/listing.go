package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/cardvault/internal/card"
	"github.com/roach88/cardvault/internal/kv"
)

// Listing is one marketplace offer of a single copy.
type Listing struct {
	ID        string         `json:"id"`
	Card      card.Card      `json:"card"`
	SellerID  string         `json:"sellerId"`
	Price     float64        `json:"price"`
	Condition card.Condition `json:"condition"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Item returns the listed card as it is bought: the listing's price and
// condition replace the card's own.
func (l Listing) Item() card.Card {
	c := l.Card.Clone()
	c.Price = l.Price
	c.Condition = l.Condition.OrDefault()
	return c
}

// ErrInvalidListing is returned by Publish for listings that cannot be sold.
var ErrInvalidListing = errors.New("invalid listing")

// Filter selects listings. Zero fields match everything.
type Filter struct {
	MinPrice  float64
	MaxPrice  float64
	Condition card.Condition
}

func (f Filter) match(l Listing) bool {
	if f.MinPrice > 0 && l.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && l.Price > f.MaxPrice {
		return false
	}
	if f.Condition != "" && l.Condition != f.Condition {
		return false
	}
	return true
}

// Market is the shared list of open listings.
// It is not safe for concurrent use.
type Market struct {
	listings []Listing
}

// Publish adds a listing. The listing id must be unique.
func (m *Market) Publish(l Listing) error {
	switch {
	case l.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidListing)
	case l.SellerID == "":
		return fmt.Errorf("%w: missing seller", ErrInvalidListing)
	case !(l.Price >= 0):
		return fmt.Errorf("%w: negative price", ErrInvalidListing)
	case !l.Condition.Valid():
		return fmt.Errorf("%w: unknown condition %q", ErrInvalidListing, l.Condition)
	}
	if err := l.Card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidListing, err)
	}
	if _, ok := m.Get(l.ID); ok {
		return fmt.Errorf("%w: duplicate id %q", ErrInvalidListing, l.ID)
	}
	l.Card = l.Card.Clone()
	l.Condition = l.Condition.OrDefault()
	m.listings = append(m.listings, l)
	return nil
}

// Get returns the listing with the given id.
func (m *Market) Get(id string) (Listing, bool) {
	for _, l := range m.listings {
		if l.ID == id {
			l.Card = l.Card.Clone()
			return l, true
		}
	}
	return Listing{}, false
}

// Listings returns the open listings matching f, oldest first.
func (m *Market) Listings(f Filter) []Listing {
	out := []Listing{}
	for _, l := range m.listings {
		if f.match(l) {
			l.Card = l.Card.Clone()
			out = append(out, l)
		}
	}
	return out
}

// Remove closes the listing with the given id. Reports whether it was open.
func (m *Market) Remove(id string) bool {
	for i, l := range m.listings {
		if l.ID == id {
			m.listings = append(m.listings[:i], m.listings[i+1:]...)
			return true
		}
	}
	return false
}

// LoadMarket reads the marketplace from store. Missing or corrupt data yields
// an empty market; only storage errors are returned.
func LoadMarket(ctx context.Context, store kv.Store, logger *slog.Logger) (*Market, error) {
	data, ok, err := store.Get(ctx, kv.MarketplaceKey)
	if err != nil {
		return nil, fmt.Errorf("load marketplace: %w", err)
	}
	m := &Market{}
	if !ok {
		return m, nil
	}
	if err := json.Unmarshal(data, &m.listings); err != nil {
		logger.Warn("discarding corrupt marketplace", "error", err)
		m.listings = nil
	}
	return m, nil
}

// SaveMarket writes the marketplace to store.
func SaveMarket(ctx context.Context, store kv.Store, m *Market) error {
	listings := m.listings
	if listings == nil {
		listings = []Listing{}
	}
	data, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("encode marketplace: %w", err)
	}
	if err := store.Set(ctx, kv.MarketplaceKey, data); err != nil {
		return fmt.Errorf("save marketplace: %w", err)
	}
	return nil
}
