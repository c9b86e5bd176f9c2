package catalog

import (
	"fmt"

	"github.com/roach88/cardvault/internal/card"
)

// Catalog is an editable, ordered set of catalog cards keyed by id.
// It is not safe for concurrent use.
type Catalog struct {
	cards []card.Card
}

// New creates a catalog holding copies of cards.
func New(cards []card.Card) *Catalog {
	c := &Catalog{cards: make([]card.Card, 0, len(cards))}
	for _, item := range cards {
		c.cards = append(c.cards, item.Clone())
	}
	return c
}

// Open loads the catalog stored at path.
func Open(path string) (*Catalog, error) {
	cards, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Catalog{cards: cards}, nil
}

// Len returns the number of cards.
func (c *Catalog) Len() int {
	return len(c.cards)
}

// Cards returns copies of all cards in catalog order.
func (c *Catalog) Cards() []card.Card {
	out := make([]card.Card, len(c.cards))
	for i, item := range c.cards {
		out[i] = item.Clone()
	}
	return out
}

// Get returns the card with the given id.
func (c *Catalog) Get(id string) (card.Card, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return card.Card{}, false
	}
	return c.cards[i].Clone(), true
}

// Upsert validates item and adds it, or replaces the card with the same id in
// place. The condition is defaulted. Reports whether the card was added.
func (c *Catalog) Upsert(item card.Card) (bool, error) {
	if err := item.Validate(); err != nil {
		return false, fmt.Errorf("upsert catalog card: %w", err)
	}
	item = card.Normalize(item)

	if i := c.indexOf(item.ID); i >= 0 {
		c.cards[i] = item
		return false, nil
	}
	c.cards = append(c.cards, item)
	return true, nil
}

// Remove deletes the card with the given id. Reports whether it existed.
func (c *Catalog) Remove(id string) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.cards = append(c.cards[:i], c.cards[i+1:]...)
	return true
}

// Save writes the catalog to path. See the package-level Save.
func (c *Catalog) Save(path string) error {
	return Save(path, c.cards)
}

func (c *Catalog) indexOf(id string) int {
	for i := range c.cards {
		if c.cards[i].ID == id {
			return i
		}
	}
	return -1
}
