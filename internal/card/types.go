package card

import (
	"errors"
	"fmt"
	"time"
)

// Rarity is the printed rarity of a card.
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityUncommon  Rarity = "Uncommon"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
)

// AllRarities lists rarities in ascending order.
var AllRarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}

// Valid reports whether r is a known rarity.
func (r Rarity) Valid() bool { return contains(AllRarities, r) }

// Color is the mana color identity of a card.
type Color string

const (
	ColorWhite     Color = "White"
	ColorBlue      Color = "Blue"
	ColorBlack     Color = "Black"
	ColorRed       Color = "Red"
	ColorGreen     Color = "Green"
	ColorColorless Color = "Colorless"
)

// AllColors lists every color.
var AllColors = []Color{ColorWhite, ColorBlue, ColorBlack, ColorRed, ColorGreen, ColorColorless}

// Valid reports whether c is a known color.
func (c Color) Valid() bool { return contains(AllColors, c) }

// Type is the card type line.
type Type string

const (
	TypeCreature Type = "Creature"
	TypeSpell    Type = "Spell"
	TypeArtifact Type = "Artifact"
	TypeLand     Type = "Land"
)

// AllTypes lists every card type.
var AllTypes = []Type{TypeCreature, TypeSpell, TypeArtifact, TypeLand}

// Valid reports whether t is a known card type.
func (t Type) Valid() bool { return contains(AllTypes, t) }

// Condition is the physical grade of a copy.
// The zero value means "not stated" and is read as ConditionMint.
type Condition string

const (
	ConditionMint             Condition = "Mint"
	ConditionNearMint         Condition = "Near Mint"
	ConditionLightlyPlayed    Condition = "Lightly Played"
	ConditionModeratelyPlayed Condition = "Moderately Played"
	ConditionHeavilyPlayed    Condition = "Heavily Played"
)

// DefaultCondition is applied when a card does not state its condition.
const DefaultCondition = ConditionMint

// AllConditions lists conditions from best to worst.
var AllConditions = []Condition{
	ConditionMint,
	ConditionNearMint,
	ConditionLightlyPlayed,
	ConditionModeratelyPlayed,
	ConditionHeavilyPlayed,
}

// Valid reports whether c is a known condition. The empty condition is valid.
func (c Condition) Valid() bool { return c == "" || contains(AllConditions, c) }

// OrDefault returns c, or DefaultCondition when c is empty.
func (c Condition) OrDefault() Condition {
	if c == "" {
		return DefaultCondition
	}
	return c
}

// Source records where an owned copy came from.
type Source string

const (
	SourceCatalog     Source = "catalog"
	SourceMarketplace Source = "marketplace"
	SourceCustom      Source = "custom"
)

// AllSources lists every provenance tag.
var AllSources = []Source{SourceCatalog, SourceMarketplace, SourceCustom}

// Valid reports whether s is a known source.
func (s Source) Valid() bool { return contains(AllSources, s) }

// Card is a catalog item or marketplace listing card.
type Card struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Image       string    `json:"image" yaml:"image"`
	Rarity      Rarity    `json:"rarity" yaml:"rarity"`
	Color       Color     `json:"color" yaml:"color"`
	Type        Type      `json:"type" yaml:"type"`
	Set         string    `json:"set" yaml:"set"`
	Description string    `json:"description" yaml:"description"`
	Price       float64   `json:"price" yaml:"price"`
	ManaCost    int       `json:"manaCoat" yaml:"manaCoat"`
	Attack      *int      `json:"attack,omitempty" yaml:"attack,omitempty"`
	Defense     *int      `json:"defense,omitempty" yaml:"defense,omitempty"`
	Condition   Condition `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// CollectionCard is one owned entry. Quantity counts identical copies.
type CollectionCard struct {
	Card
	IsFavorite bool      `json:"isFavorite"`
	AddedAt    time.Time `json:"addedAt"`
	Quantity   int       `json:"quantity"`
	Source     Source    `json:"source"`
	OriginalID string    `json:"originalId,omitempty"`
}

// Validation errors returned by Card.Validate.
var (
	ErrMissingID     = errors.New("card id is required")
	ErrMissingName   = errors.New("card name is required")
	ErrNegativePrice = errors.New("price must be non-negative")
	ErrNegativeMana  = errors.New("mana cost must be non-negative")
)

// Validate checks enum membership and numeric bounds.
// The collection engine does not call it; it guards the edges where cards enter
// the system (catalog files, manual edits).
func (c Card) Validate() error {
	switch {
	case c.ID == "":
		return ErrMissingID
	case c.Name == "":
		return fmt.Errorf("card %s: %w", c.ID, ErrMissingName)
	case !c.Rarity.Valid():
		return fmt.Errorf("card %s: unknown rarity %q", c.ID, c.Rarity)
	case !c.Color.Valid():
		return fmt.Errorf("card %s: unknown color %q", c.ID, c.Color)
	case !c.Type.Valid():
		return fmt.Errorf("card %s: unknown type %q", c.ID, c.Type)
	case !c.Condition.Valid():
		return fmt.Errorf("card %s: unknown condition %q", c.ID, c.Condition)
	case !(c.Price >= 0):
		return fmt.Errorf("card %s: %w", c.ID, ErrNegativePrice)
	case c.ManaCost < 0:
		return fmt.Errorf("card %s: %w", c.ID, ErrNegativeMana)
	}
	return nil
}

// Clone returns a copy of c that shares no pointers with it.
func (c Card) Clone() Card {
	c.Attack = cloneInt(c.Attack)
	c.Defense = cloneInt(c.Defense)
	return c
}

// Clone returns a copy of e that shares no pointers with it.
func (e CollectionCard) Clone() CollectionCard {
	e.Card = e.Card.Clone()
	return e
}

// IntPtr returns a pointer to v. Handy for Attack and Defense literals.
func IntPtr(v int) *int { return &v }

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
