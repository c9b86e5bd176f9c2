package card

import (
	"fmt"
	"regexp"
	"time"

	"golang.org/x/text/unicode/norm"
)

// entrySuffix matches one generated uniqueness suffix: -<unix millis>-<base36 token>.
// The millisecond field is at least 13 digits, which keeps ordinary catalog ids
// such as "set-2024-a" from being mistaken for generated ones.
var entrySuffix = regexp.MustCompile(`-[0-9]{13,}-[0-9a-z]{1,8}$`)

// EntryID builds a collection entry id from the originating card id, the
// insertion time and a short random token.
//
// Format: "<baseID>-<unixMillis>-<token>"
func EntryID(baseID string, at time.Time, token string) string {
	return fmt.Sprintf("%s-%d-%s", baseID, at.UnixMilli(), token)
}

// BaseID strips every generated uniqueness suffix from id and returns the
// originating card id. Ids without a suffix are returned unchanged.
//
// Stripping is repeated so that an entry re-added from another entry (whose id
// already carried a suffix) still resolves to the original catalog id.
func BaseID(id string) string {
	for {
		loc := entrySuffix.FindStringIndex(id)
		if loc == nil {
			return id
		}
		id = id[:loc[0]]
	}
}

// Normalize applies the defaulting rules for a card entering the collection.
// It is the only place optional fields receive their defaults.
func Normalize(c Card) Card {
	c = c.Clone()
	c.Condition = c.Condition.OrDefault()
	return c
}

// Signature is the equality key for merging copies into one entry.
//
// Two cards merge into a single quantity-bearing entry if and only if their
// signatures are equal. Signature is comparable and can be used as a map key.
type Signature struct {
	CatalogID   string
	Condition   Condition
	Source      Source
	Set         string
	Name        string
	Rarity      Rarity
	Color       Color
	Type        Type
	ManaCost    int
	Image       string
	Description string

	// Price is zero for catalog-sourced cards. Catalog prices move and are
	// propagated by sync; a marketplace or custom price is a fact of that copy.
	Price float64
}

// SignatureOf computes the signature of c as it would be stored under source.
// The catalog identity is BaseID(c.ID).
func SignatureOf(c Card, source Source) Signature {
	return signature(c, BaseID(c.ID), source)
}

// Signature re-derives the signature of a stored entry. It equals the
// signature the entry had when it was inserted.
func (e CollectionCard) Signature() Signature {
	catalogID := e.OriginalID
	if catalogID == "" {
		catalogID = BaseID(e.ID)
	}
	return signature(e.Card, catalogID, e.Source)
}

func signature(c Card, catalogID string, source Source) Signature {
	sig := Signature{
		CatalogID:   nfc(catalogID),
		Condition:   c.Condition.OrDefault(),
		Source:      source,
		Set:         nfc(c.Set),
		Name:        nfc(c.Name),
		Rarity:      c.Rarity,
		Color:       c.Color,
		Type:        c.Type,
		ManaCost:    c.ManaCost,
		Image:       nfc(c.Image),
		Description: nfc(c.Description),
	}
	if source != SourceCatalog {
		sig.Price = c.Price
	}
	return sig
}

// nfc normalizes text so that composed and decomposed spellings compare equal.
func nfc(s string) string {
	return norm.NFC.String(s)
}
