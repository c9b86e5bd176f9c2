package card

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lightningBolt() Card {
	return Card{
		ID:          "1",
		Name:        "Lightning Bolt",
		Image:       "/img/bolt.jpg",
		Rarity:      RarityCommon,
		Color:       ColorRed,
		Type:        TypeSpell,
		Set:         "Core 2024",
		Description: "Deals 3 damage to any target.",
		Price:       5990,
		ManaCost:    1,
	}
}

func TestEntryIDRoundTripsThroughBaseID(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_123)

	id := EntryID("card-42", at, "k3x9q")

	assert.Equal(t, "card-42-1700000000123-k3x9q", id)
	assert.Equal(t, "card-42", BaseID(id))
}

func TestBaseID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"plain", "1", "1"},
		{"hyphenated catalog id", "set-2024-a", "set-2024-a"},
		{"one suffix", "1-1700000000000-abcde", "1"},
		{"nested suffixes", "1-1700000000000-abcde-1700000000001-zz9", "1"},
		{"short millis is not a suffix", "1-123-abcde", "1-123-abcde"},
		{"empty base", "-1700000000000-abcde", ""},
		{"uppercase token is not generated", "1-1700000000000-ABCDE", "1-1700000000000-ABCDE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseID(tt.id))
		})
	}
}

func TestEntryIDWithEmptyBase(t *testing.T) {
	id := EntryID("", time.UnixMilli(1_700_000_000_000), "abcde")

	assert.Equal(t, "", BaseID(id))
}

func TestNormalizeDefaultsCondition(t *testing.T) {
	c := lightningBolt()
	require.Empty(t, c.Condition)

	assert.Equal(t, ConditionMint, Normalize(c).Condition)

	c.Condition = ConditionLightlyPlayed
	assert.Equal(t, ConditionLightlyPlayed, Normalize(c).Condition)
}

func TestNormalizeDoesNotAliasPointers(t *testing.T) {
	c := lightningBolt()
	c.Attack = IntPtr(3)

	n := Normalize(c)
	*n.Attack = 9

	assert.Equal(t, 3, *c.Attack)
}

func TestSignatureEmptyConditionEqualsMint(t *testing.T) {
	a := lightningBolt()
	b := lightningBolt()
	b.Condition = ConditionMint

	assert.Equal(t, SignatureOf(a, SourceCatalog), SignatureOf(b, SourceCatalog))
}

func TestSignatureIgnoresCatalogPrice(t *testing.T) {
	a := lightningBolt()
	b := lightningBolt()
	b.Price = 7990

	assert.Equal(t, SignatureOf(a, SourceCatalog), SignatureOf(b, SourceCatalog))
}

func TestSignatureIncludesMarketplaceAndCustomPrice(t *testing.T) {
	for _, src := range []Source{SourceMarketplace, SourceCustom} {
		t.Run(string(src), func(t *testing.T) {
			a := lightningBolt()
			b := lightningBolt()
			b.Price = 7990

			assert.NotEqual(t, SignatureOf(a, src), SignatureOf(b, src))
		})
	}
}

func TestSignatureDistinguishesFields(t *testing.T) {
	base := lightningBolt()
	mutations := map[string]func(*Card){
		"id":          func(c *Card) { c.ID = "2" },
		"condition":   func(c *Card) { c.Condition = ConditionNearMint },
		"set":         func(c *Card) { c.Set = "Alpha" },
		"name":        func(c *Card) { c.Name = "Chain Lightning" },
		"rarity":      func(c *Card) { c.Rarity = RarityRare },
		"color":       func(c *Card) { c.Color = ColorBlue },
		"type":        func(c *Card) { c.Type = TypeCreature },
		"mana cost":   func(c *Card) { c.ManaCost = 2 },
		"image":       func(c *Card) { c.Image = "/img/other.jpg" },
		"description": func(c *Card) { c.Description = "Other text." },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			changed := base
			mutate(&changed)
			assert.NotEqual(t, SignatureOf(base, SourceCatalog), SignatureOf(changed, SourceCatalog))
		})
	}
}

func TestSignatureIgnoresAttackAndDefense(t *testing.T) {
	a := lightningBolt()
	b := lightningBolt()
	b.Attack = IntPtr(2)
	b.Defense = IntPtr(2)

	assert.Equal(t, SignatureOf(a, SourceCatalog), SignatureOf(b, SourceCatalog))
}

func TestSignatureDistinguishesSource(t *testing.T) {
	c := lightningBolt()

	assert.NotEqual(t, SignatureOf(c, SourceCatalog), SignatureOf(c, SourceMarketplace))
	assert.NotEqual(t, SignatureOf(c, SourceMarketplace), SignatureOf(c, SourceCustom))
}

func TestSignatureNormalizesUnicode(t *testing.T) {
	composed := lightningBolt()
	composed.Set = "Colecci\u00f3n B\u00e1sica"
	decomposed := lightningBolt()
	decomposed.Set = "Coleccio\u0301n Ba\u0301sica"

	assert.Equal(t, SignatureOf(composed, SourceCatalog), SignatureOf(decomposed, SourceCatalog))
}

func TestStoredEntrySignatureMatchesInsertion(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_000)
	tests := []struct {
		name   string
		source Source
	}{
		{"catalog", SourceCatalog},
		{"marketplace", SourceMarketplace},
		{"custom", SourceCustom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			incoming := lightningBolt()
			entry := CollectionCard{
				Card:     Normalize(incoming),
				Quantity: 1,
				Source:   tt.source,
				AddedAt:  at,
			}
			entry.ID = EntryID(incoming.ID, at, "abcde")
			if tt.source == SourceCatalog {
				entry.OriginalID = incoming.ID
			}

			assert.Equal(t, SignatureOf(incoming, tt.source), entry.Signature())
		})
	}
}

func TestSignatureUsableAsMapKey(t *testing.T) {
	seen := map[Signature]int{}
	seen[SignatureOf(lightningBolt(), SourceCatalog)]++
	seen[SignatureOf(lightningBolt(), SourceCatalog)]++

	assert.Len(t, seen, 1)
}
