package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/roach88/cardvault/internal/card"
	"github.com/roach88/cardvault/internal/kv"
)

// Line is one cart row: quantity copies of a card from one source.
type Line struct {
	Card     card.Card   `json:"card"`
	Quantity int         `json:"quantity"`
	Source   card.Source `json:"source"`

	// ListingID is set when the line was added from a marketplace listing.
	ListingID string `json:"listingId,omitempty"`
}

// Cart holds the lines a user intends to buy.
// It is not safe for concurrent use.
type Cart struct {
	lines []Line
}

// Add puts quantity copies of c into the cart. A line with the same card id
// and source absorbs the quantity. quantity <= 0 is ignored and an empty
// source means catalog.
func (c *Cart) Add(item card.Card, quantity int, source card.Source) {
	c.add(Line{Card: item, Quantity: quantity, Source: source})
}

// AddListing puts the listed copy into the cart as a marketplace line.
// A listing holds one copy, so adding it again changes nothing.
func (c *Cart) AddListing(l Listing) {
	c.add(Line{Card: l.Item(), Quantity: 1, Source: card.SourceMarketplace, ListingID: l.ID})
}

func (c *Cart) add(line Line) {
	if line.Quantity <= 0 {
		return
	}
	if line.Source == "" {
		line.Source = card.SourceCatalog
	}
	for i := range c.lines {
		existing := &c.lines[i]
		if existing.Card.ID != line.Card.ID || existing.Source != line.Source || existing.ListingID != line.ListingID {
			continue
		}
		if line.ListingID == "" {
			existing.Quantity += line.Quantity
		}
		return
	}
	line.Card = line.Card.Clone()
	c.lines = append(c.lines, line)
}

// Remove drops the line for cardID and source. Listing lines are only
// reachable through RemoveListing. Reports whether the line existed.
func (c *Cart) Remove(cardID string, source card.Source) bool {
	return c.removeAt(c.indexOf(cardID, source))
}

// RemoveListing drops the line holding listingID. Reports whether it existed.
func (c *Cart) RemoveListing(listingID string) bool {
	if listingID == "" {
		return false
	}
	for i := range c.lines {
		if c.lines[i].ListingID == listingID {
			return c.removeAt(i)
		}
	}
	return false
}

func (c *Cart) removeAt(i int) bool {
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

// SetQuantity sets the quantity of the line for cardID and source;
// quantity <= 0 removes it. Listing lines are not matched.
// Reports whether the line existed.
func (c *Cart) SetQuantity(cardID string, source card.Source, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(cardID, source)
	}
	i := c.indexOf(cardID, source)
	if i < 0 {
		return false
	}
	c.lines[i].Quantity = quantity
	return true
}

// Lines returns copies of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	for i, l := range c.lines {
		l.Card = l.Card.Clone()
		out[i] = l
	}
	return out
}

// Count returns the number of copies in the cart.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Total returns the sum of price * quantity.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, l := range c.lines {
		total += l.Card.Price * float64(l.Quantity)
	}
	return total
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) indexOf(cardID string, source card.Source) int {
	if source == "" {
		source = card.SourceCatalog
	}
	for i := range c.lines {
		l := &c.lines[i]
		if l.ListingID == "" && l.Card.ID == cardID && l.Source == source {
			return i
		}
	}
	return -1
}

// LoadCart reads userID's cart. Missing or corrupt data yields an empty cart;
// only storage errors are returned.
func LoadCart(ctx context.Context, store kv.Store, userID string, logger *slog.Logger) (*Cart, error) {
	data, ok, err := store.Get(ctx, kv.CartKey(userID))
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	c := &Cart{}
	if !ok {
		return c, nil
	}
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		logger.Warn("discarding corrupt cart", "user", userID, "error", err)
		return c, nil
	}
	for _, l := range lines {
		c.add(l)
	}
	return c, nil
}

// SaveCart writes userID's cart.
func SaveCart(ctx context.Context, store kv.Store, userID string, c *Cart) error {
	lines := c.lines
	if lines == nil {
		lines = []Line{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := store.Set(ctx, kv.CartKey(userID), data); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
