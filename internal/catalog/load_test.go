package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cardvault/internal/card"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	cards, err := Load("testdata/catalog.yaml")
	require.NoError(t, err)
	require.Len(t, cards, 3)

	assert.Equal(t, card.Card{
		ID:          "1",
		Name:        "Lightning Bolt",
		Image:       "/img/bolt.jpg",
		Rarity:      card.RarityCommon,
		Color:       card.ColorRed,
		Type:        card.TypeSpell,
		Set:         "Core 2024",
		Description: "Deals 3 damage to any target.",
		Price:       5990,
		ManaCost:    1,
	}, cards[0])
	assert.Equal(t, 4, *cards[1].Attack)
	assert.Equal(t, 4, *cards[1].Defense)
	assert.Equal(t, card.ConditionNearMint, cards[2].Condition)
}

func TestLoad_JSONWithCardsKey(t *testing.T) {
	cards, err := Load("testdata/catalog.json")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "Serra Angel", cards[1].Name)
}

func TestLoad_CUE(t *testing.T) {
	cards, err := Load("testdata/catalog.cue")
	require.NoError(t, err)
	require.Len(t, cards, 2)

	assert.Equal(t, "Forest", cards[1].Name)
	assert.Equal(t, 10.5, cards[1].Price)
	assert.Empty(t, cards[1].Image)
	assert.Nil(t, cards[1].Attack)
}

func TestLoad_FormatsAgree(t *testing.T) {
	yamlCards, err := Load("testdata/catalog.yaml")
	require.NoError(t, err)
	jsonCards, err := Load("testdata/catalog.json")
	require.NoError(t, err)

	assert.Equal(t, yamlCards[:2], jsonCards)
}

func TestLoad_EmptyFileIsEmptyCatalog(t *testing.T) {
	cards, err := Load(writeFile(t, "catalog.yaml", ""))
	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.NotNil(t, cards)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestLoad_Errors(t *testing.T) {
	const valid = `
  name: Bolt
  rarity: Common
  color: Red
  type: Spell
  set: Core
  price: 10
  manaCoat: 1`

	tests := []struct {
		name     string
		file     string
		content  string
		wantCode string
	}{
		{"malformed yaml", "c.yaml", "- id: [unclosed", ErrCodeParse},
		{"malformed cue", "c.cue", "cards: [", ErrCodeParse},
		{"unsupported extension", "c.txt", "[]", ErrCodeParse},
		{"no cards list", "c.yaml", "items: []", ErrCodeParse},
		{"cards not a list", "c.yaml", "cards: 3", ErrCodeParse},
		{"duplicate key", "c.yaml", "- id: a" + valid + "\n  rarity: Rare", ErrCodeParse},
		{"unknown rarity", "c.yaml", "- id: a\n  name: Bolt\n  rarity: Mythic\n  color: Red\n  type: Spell\n  set: Core\n  price: 10\n  manaCoat: 1", ErrCodeSchema},
		{"missing name", "c.yaml", "- id: a\n  rarity: Common\n  color: Red\n  type: Spell\n  set: Core\n  price: 10\n  manaCoat: 1", ErrCodeSchema},
		{"empty id", "c.yaml", "- id: \"\"" + valid, ErrCodeSchema},
		{"negative price", "c.json", `[{"id":"a","name":"Bolt","rarity":"Common","color":"Red","type":"Spell","set":"Core","price":-1,"manaCoat":1}]`, ErrCodeSchema},
		{"fractional mana", "c.yaml", "- id: a\n  name: Bolt\n  rarity: Common\n  color: Red\n  type: Spell\n  set: Core\n  price: 10\n  manaCoat: 1.5", ErrCodeSchema},
		{"bad condition", "c.yaml", "- id: a" + valid + "\n  condition: Damaged", ErrCodeSchema},
		{"unknown field", "c.yaml", "- id: a" + valid + "\n  foil: true", ErrCodeSchema},
		{"duplicate id", "c.yaml", "- id: a" + valid + "\n- id: a" + valid, ErrCodeDuplicateID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))

			require.Error(t, err)
			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.wantCode, le.Code, le.Error())
		})
	}
}

func TestLoadError_Format(t *testing.T) {
	err := &LoadError{Code: ErrCodeSchema, Message: "card 0: bad", Path: "catalog.yaml"}
	assert.Equal(t, "catalog.yaml: E_SCHEMA: card 0: bad", err.Error())

	err.Path = ""
	assert.Equal(t, "E_SCHEMA: card 0: bad", err.Error())
	assert.True(t, IsSchemaError(err))
	assert.False(t, IsDuplicateID(err))
}

func TestSave_RoundTrip(t *testing.T) {
	cards, err := Load("testdata/catalog.yaml")
	require.NoError(t, err)

	for _, name := range []string{"out.yaml", "out.json", "out.cue"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(path, cards))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cards, got)
		})
	}
}

func TestSave_EmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, Save(path, nil))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(filepath.Join(dir, "catalog.yaml"), nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "catalog.yaml", entries[0].Name())
}
