package card

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Card)
		wantErr bool
	}{
		{"valid", func(*Card) {}, false},
		{"valid with condition", func(c *Card) { c.Condition = ConditionHeavilyPlayed }, false},
		{"missing id", func(c *Card) { c.ID = "" }, true},
		{"missing name", func(c *Card) { c.Name = "" }, true},
		{"bad rarity", func(c *Card) { c.Rarity = "Mythic" }, true},
		{"bad color", func(c *Card) { c.Color = "Purple" }, true},
		{"bad type", func(c *Card) { c.Type = "Planeswalker" }, true},
		{"bad condition", func(c *Card) { c.Condition = "Damaged" }, true},
		{"negative price", func(c *Card) { c.Price = -1 }, true},
		{"NaN price", func(c *Card) { c.Price = math.NaN() }, true},
		{"negative mana", func(c *Card) { c.ManaCost = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := lightningBolt()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateWrapsSentinels(t *testing.T) {
	c := lightningBolt()
	c.Price = -5

	assert.ErrorIs(t, c.Validate(), ErrNegativePrice)
}

func TestCollectionCardJSONUsesPersistedKeys(t *testing.T) {
	entry := CollectionCard{
		Card:       lightningBolt(),
		IsFavorite: true,
		AddedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Quantity:   2,
		Source:     SourceCatalog,
		OriginalID: "1",
	}
	entry.Condition = ConditionMint

	data, err := json.Marshal(entry)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, key := range []string{"id", "name", "manaCoat", "isFavorite", "addedAt", "quantity", "source", "originalId", "condition"} {
		assert.Contains(t, raw, key)
	}
	assert.NotContains(t, raw, "attack")
	assert.Equal(t, "2024-05-01T12:00:00Z", raw["addedAt"])
}

func TestConditionOrDefault(t *testing.T) {
	assert.Equal(t, ConditionMint, Condition("").OrDefault())
	assert.Equal(t, ConditionNearMint, ConditionNearMint.OrDefault())
}

func TestEnumsValid(t *testing.T) {
	assert.True(t, RarityLegendary.Valid())
	assert.False(t, Rarity("").Valid())
	assert.True(t, ColorColorless.Valid())
	assert.True(t, TypeLand.Valid())
	assert.True(t, Condition("").Valid())
	assert.True(t, SourceMarketplace.Valid())
	assert.False(t, Source("gift").Valid())
}
