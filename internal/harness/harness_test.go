package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cardvault/internal/card"
	"github.com/roach88/cardvault/internal/kv"
)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func bolt() card.Card {
	return card.Card{
		ID:       "b1",
		Name:     "Lightning Bolt",
		Rarity:   card.RarityCommon,
		Color:    card.ColorRed,
		Type:     card.TypeSpell,
		Set:      "Core",
		Price:    10,
		ManaCost: 1,
	}
}

func TestRun_PassingScenario(t *testing.T) {
	scenario := &Scenario{
		Name:    "pass",
		Catalog: []card.Card{bolt()},
		Steps: []Step{
			{Op: OpAdd, Card: "b1", Repeat: 2, Expect: &Expectation{Created: boolPtr(false)}},
			{Op: OpFavorite, Entry: intPtr(0), Expect: &Expectation{Changed: boolPtr(true), FavoriteCards: intPtr(1)}},
		},
		Expect: &Expectation{Entries: intPtr(1), TotalCards: intPtr(2), Quantities: []int{2}},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, result.Errors)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Cards, 1)
	assert.Equal(t, "b1-1704067200000-00001", result.Cards[0].ID)
	assert.Equal(t, 2, result.Stats.TotalCards)
}

func TestRun_CollectsMismatches(t *testing.T) {
	scenario := &Scenario{
		Name:    "fail",
		Catalog: []card.Card{bolt()},
		Steps: []Step{
			{Op: OpAdd, Card: "b1", Expect: &Expectation{Created: boolPtr(false)}},
		},
		Expect: &Expectation{
			Entries:    intPtr(2),
			Quantities: []int{5},
			Cards:      []EntryExpectation{{Source: card.SourceCustom}, {Name: "missing"}},
		},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 5)
	assert.Contains(t, result.Errors[0], "steps[0] (add): created mismatch")
	assert.Contains(t, result.Errors[1], "expect: entries mismatch")
	assert.Contains(t, result.Errors[2], "quantities")
	assert.Contains(t, result.Errors[3], "cards[0].source")
	assert.Contains(t, result.Errors[4], "cards[1]")
}

func TestRun_OutcomeExpectationOnWrongStep(t *testing.T) {
	scenario := &Scenario{
		Name:    "wrong",
		Catalog: []card.Card{bolt()},
		Steps: []Step{
			{Op: OpAdd, Card: "b1", Expect: &Expectation{Updated: intPtr(0), Changed: boolPtr(true)}},
		},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "not an entry step")
	assert.Contains(t, result.Errors[1], "not a sync step")
}

func TestRun_EntryOutOfRange(t *testing.T) {
	scenario := &Scenario{
		Name:  "range",
		Steps: []Step{{Op: OpRemove, Entry: intPtr(0)}},
	}

	_, err := Run(context.Background(), scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps[0] (remove)")
	assert.Contains(t, err.Error(), "out of range")
}

func TestRun_UpdateUsesFixtureFields(t *testing.T) {
	chipped := bolt()
	chipped.Condition = card.ConditionHeavilyPlayed
	chipped.Price = 4

	scenario := &Scenario{
		Name:    "update",
		Catalog: []card.Card{bolt()},
		Cards:   map[string]card.Card{"chipped": chipped},
		Steps: []Step{
			{Op: OpAdd, Card: "b1", Source: card.SourceCustom},
			{Op: OpUpdate, Entry: intPtr(0), Card: "chipped", Expect: &Expectation{Changed: boolPtr(true)}},
		},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, result.Errors)

	require.Len(t, result.Cards, 1)
	assert.Equal(t, card.ConditionHeavilyPlayed, result.Cards[0].Condition)
	assert.Equal(t, 4.0, result.Cards[0].Price)
	assert.Equal(t, "b1-1704067200000-00001", result.Cards[0].ID)
}

func TestRun_ReloadReadsPersistedCollection(t *testing.T) {
	store := kv.NewMemory()
	scenario := &Scenario{
		Name:    "reload",
		User:    "ana",
		Catalog: []card.Card{bolt()},
		Steps: []Step{
			{Op: OpAdd, Card: "b1", Repeat: 3},
			{Op: OpRemoveQuantity, Entry: intPtr(0), Count: 1},
			{Op: OpReload, Expect: &Expectation{Quantities: []int{2}}},
		},
	}

	result, err := RunWithStore(context.Background(), scenario, store)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)

	_, ok, err := store.Get(context.Background(), kv.CollectionKey("ana"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRun_SyncReplacesCatalog(t *testing.T) {
	repriced := bolt()
	repriced.Price = 25

	scenario := &Scenario{
		Name:    "sync",
		Catalog: []card.Card{bolt()},
		Steps: []Step{
			{Op: OpAdd, Card: "b1"},
			{Op: OpSync, Expect: &Expectation{Updated: intPtr(0)}},
			{Op: OpSync, Catalog: []card.Card{repriced}, Expect: &Expectation{Updated: intPtr(1), TotalValue: floatPtr(25)}},
		},
	}

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func floatPtr(v float64) *float64 { return &v }

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{Where: "expect", Field: "entries", Expected: "1", Actual: "2"}

	assert.Equal(t, "expect: entries mismatch\n  Expected: 1\n  Actual: 2", err.Error())
}
