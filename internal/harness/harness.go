package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/cardvault/internal/card"
	"github.com/roach88/cardvault/internal/collection"
	"github.com/roach88/cardvault/internal/kv"
	"github.com/roach88/cardvault/internal/testutil"
)

// Harness runs one scenario against a collection engine with a deterministic
// clock and token sequence. Entry ids and timestamps are therefore identical
// across runs, which keeps golden snapshots stable.
type Harness struct {
	store   kv.Store
	clock   *testutil.DeterministicClock
	tokens  *testutil.SequenceTokens
	logger  *slog.Logger
	engine  *collection.Engine
	user    string
	catalog []card.Card
}

// Run executes scenario against a fresh in-memory store.
//
// Expectation mismatches are collected in the result. An error is returned
// only when the scenario cannot be executed, for example when a step points
// at an entry index that does not exist.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	return RunWithStore(ctx, scenario, kv.NewMemory())
}

// RunWithStore executes scenario against store. The store should be empty.
func RunWithStore(ctx context.Context, scenario *Scenario, store kv.Store) (*Result, error) {
	user := scenario.User
	if user == "" {
		user = DefaultUser
	}

	h := &Harness{
		store:   store,
		clock:   testutil.NewDeterministicClock(),
		tokens:  testutil.NewSequenceTokens(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		user:    user,
		catalog: scenario.Catalog,
	}
	h.engine = h.newEngine(ctx)

	result := NewResult()
	for i, step := range scenario.Steps {
		outcome, err := h.execute(ctx, scenario, step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d] (%s): %w", i, step.Op, err)
		}
		if step.Expect != nil {
			h.check(fmt.Sprintf("steps[%d] (%s)", i, step.Op), step.Expect, &outcome, result)
		}
	}

	if scenario.Expect != nil {
		h.check("expect", scenario.Expect, nil, result)
	}

	result.Cards = h.engine.Cards()
	result.Stats = h.engine.Stats()
	return result, nil
}

func (h *Harness) newEngine(ctx context.Context) *collection.Engine {
	e := collection.New(h.store,
		collection.WithClock(h.clock),
		collection.WithTokens(h.tokens),
		collection.WithLogger(h.logger),
	)
	e.Load(ctx, h.user)
	return e
}

// stepOutcome holds what an operation reported.
type stepOutcome struct {
	created *bool
	changed *bool
	updated *int
}

func (h *Harness) execute(ctx context.Context, s *Scenario, step Step) (stepOutcome, error) {
	var out stepOutcome
	repeat := max(step.Repeat, 1)

	switch step.Op {
	case OpAdd:
		c, _ := s.lookupCard(step.Card)
		var created bool
		for i := 0; i < repeat; i++ {
			_, created = h.engine.AddToCollection(ctx, c, step.Source)
		}
		out.created = &created

	case OpRemove, OpRemoveQuantity, OpFavorite, OpUpdate:
		id, err := h.entryID(step.Entry)
		if err != nil {
			return out, err
		}
		changed := true
		for i := 0; i < repeat; i++ {
			var ok bool
			switch step.Op {
			case OpRemove:
				ok = h.engine.RemoveFromCollection(ctx, id)
			case OpRemoveQuantity:
				ok = h.engine.RemoveQuantity(ctx, id, step.Count)
			case OpFavorite:
				ok = h.engine.ToggleFavorite(ctx, id)
			case OpUpdate:
				c, _ := s.lookupCard(step.Card)
				c.ID = id
				ok = h.engine.UpdateCard(ctx, c)
			}
			changed = changed && ok
		}
		out.changed = &changed

	case OpSync:
		if step.Catalog != nil {
			h.catalog = step.Catalog
		}
		updated := h.engine.SyncWithCatalog(ctx, h.catalog)
		out.updated = &updated

	case OpReload:
		h.engine = h.newEngine(ctx)

	default:
		return out, fmt.Errorf("unknown op %q", step.Op)
	}
	return out, nil
}

// entryID resolves an entry index against the current collection.
func (h *Harness) entryID(index *int) (string, error) {
	cards := h.engine.Cards()
	if index == nil || *index < 0 || *index >= len(cards) {
		n := -1
		if index != nil {
			n = *index
		}
		return "", fmt.Errorf("entry %d out of range (collection has %d entries)", n, len(cards))
	}
	return cards[*index].ID, nil
}
