package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cardvault/internal/card"
)

func forest() card.Card {
	return card.Card{
		ID:       "4",
		Name:     "Forest",
		Rarity:   card.RarityCommon,
		Color:    card.ColorGreen,
		Type:     card.TypeLand,
		Set:      "Alpha",
		Price:    10,
		ManaCost: 0,
	}
}

func TestCatalog_Upsert(t *testing.T) {
	c, err := Open("testdata/catalog.yaml")
	require.NoError(t, err)

	created, err := c.Upsert(forest())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 4, c.Len())

	got, ok := c.Get("4")
	require.True(t, ok)
	assert.Equal(t, card.ConditionMint, got.Condition)

	repriced := forest()
	repriced.Price = 20
	created, err = c.Upsert(repriced)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 4, c.Len())

	got, _ = c.Get("4")
	assert.Equal(t, 20.0, got.Price)
	assert.Equal(t, "4", c.Cards()[3].ID)
}

func TestCatalog_UpsertRejectsInvalid(t *testing.T) {
	c := New(nil)
	bad := forest()
	bad.Rarity = "Mythic"

	_, err := c.Upsert(bad)
	assert.Error(t, err)
	assert.Zero(t, c.Len())
}

func TestCatalog_Remove(t *testing.T) {
	c, err := Open("testdata/catalog.yaml")
	require.NoError(t, err)

	assert.True(t, c.Remove("2"))
	assert.False(t, c.Remove("2"))

	ids := []string{}
	for _, item := range c.Cards() {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"1", "3"}, ids)
}

func TestCatalog_CardsAreCopies(t *testing.T) {
	c, err := Open("testdata/catalog.yaml")
	require.NoError(t, err)

	cards := c.Cards()
	cards[0].Name = "changed"
	*cards[1].Attack = 99

	got, _ := c.Get("1")
	assert.Equal(t, "Lightning Bolt", got.Name)
	got, _ = c.Get("2")
	assert.Equal(t, 4, *got.Attack)
}

func TestCatalog_SaveAndReopen(t *testing.T) {
	c := New([]card.Card{forest()})
	path := filepath.Join(t.TempDir(), "catalog.yaml")

	require.NoError(t, c.Save(path))
	reopened, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, c.Cards(), reopened.Cards())
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, IsNotFound(err))
}
