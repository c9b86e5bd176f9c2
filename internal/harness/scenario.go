package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/cardvault/internal/card"
	"github.com/roach88/cardvault/internal/catalog"
)

// Scenario is a scripted run of collection operations against a fresh engine.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// User is the collection owner. Defaults to DefaultUser.
	User string `yaml:"user,omitempty"`

	// Catalog is the catalog visible to add and sync steps.
	Catalog []card.Card `yaml:"catalog,omitempty"`

	// CatalogFile names a catalog file loaded with catalog.Load and appended
	// to Catalog. Relative paths resolve against the scenario file.
	CatalogFile string `yaml:"catalog_file,omitempty"`

	// Cards holds named card fixtures for add and update steps.
	Cards map[string]card.Card `yaml:"cards,omitempty"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`

	// Expect is checked against the final collection.
	Expect *Expectation `yaml:"expect,omitempty"`
}

// DefaultUser owns the collection when a scenario names no user.
const DefaultUser = "scenario-user"

// Step is one engine operation.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// Card names a fixture from Scenario.Cards or, failing that, a catalog
	// card id. Used by add and update.
	Card string `yaml:"card,omitempty"`

	// Source is the provenance for add. Empty means catalog.
	Source card.Source `yaml:"source,omitempty"`

	// Entry is the index of the target entry in the collection as it stands
	// before the step. Used by remove, remove_quantity, update and favorite.
	Entry *int `yaml:"entry,omitempty"`

	// Count is the number of copies for remove_quantity.
	Count int `yaml:"count,omitempty"`

	// Repeat runs add or remove this many times. Defaults to 1.
	Repeat int `yaml:"repeat,omitempty"`

	// Catalog replaces the scenario catalog before a sync step.
	Catalog []card.Card `yaml:"catalog,omitempty"`

	// Expect is checked right after the step.
	Expect *Expectation `yaml:"expect,omitempty"`
}

// Step operations.
const (
	OpAdd            = "add"
	OpRemove         = "remove"
	OpRemoveQuantity = "remove_quantity"
	OpUpdate         = "update"
	OpFavorite       = "favorite"
	OpSync           = "sync"
	OpReload         = "reload"
)

// Expectation is a subset match on the collection. Nil fields are not checked.
type Expectation struct {
	Entries       *int     `yaml:"entries,omitempty"`
	TotalCards    *int     `yaml:"total_cards,omitempty"`
	FavoriteCards *int     `yaml:"favorite_cards,omitempty"`
	DistinctSets  *int     `yaml:"distinct_sets,omitempty"`
	TotalValue    *float64 `yaml:"total_value,omitempty"`

	// Quantities lists every entry's quantity in collection order.
	Quantities []int `yaml:"quantities,omitempty"`

	// Cards matches entries by index.
	Cards []EntryExpectation `yaml:"cards,omitempty"`

	// Created is the add result of the last repetition (step expectations only).
	Created *bool `yaml:"created,omitempty"`

	// Changed is true when every repetition of remove, remove_quantity,
	// update or favorite reported a change (step expectations only).
	Changed *bool `yaml:"changed,omitempty"`

	// Updated is the sync result (step expectations only).
	Updated *int `yaml:"updated,omitempty"`
}

// EntryExpectation is a subset match on one entry.
type EntryExpectation struct {
	ID         string         `yaml:"id,omitempty"`
	Name       string         `yaml:"name,omitempty"`
	Source     card.Source    `yaml:"source,omitempty"`
	OriginalID *string        `yaml:"original_id,omitempty"`
	Condition  card.Condition `yaml:"condition,omitempty"`
	Quantity   *int           `yaml:"quantity,omitempty"`
	Price      *float64       `yaml:"price,omitempty"`
	Favorite   *bool          `yaml:"favorite,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.CatalogFile != "" {
		catalogPath := scenario.CatalogFile
		if !filepath.IsAbs(catalogPath) {
			catalogPath = filepath.Join(filepath.Dir(path), catalogPath)
		}
		cards, err := catalog.Load(catalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario catalog: %w", err)
		}
		scenario.Catalog = append(scenario.Catalog, cards...)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and that every
// step carries the fields its operation needs.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(s, i, &step); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(s *Scenario, index int, step *Step) error {
	if step.Repeat < 0 {
		return fmt.Errorf("steps[%d]: repeat must be non-negative", index)
	}

	switch step.Op {
	case OpAdd:
		if step.Card == "" {
			return fmt.Errorf("steps[%d]: card is required for add", index)
		}
		if _, ok := s.lookupCard(step.Card); !ok {
			return fmt.Errorf("steps[%d]: unknown card %q", index, step.Card)
		}
		if step.Source != "" && !step.Source.Valid() {
			return fmt.Errorf("steps[%d]: unknown source %q", index, step.Source)
		}
	case OpUpdate:
		if step.Entry == nil {
			return fmt.Errorf("steps[%d]: entry is required for update", index)
		}
		if _, ok := s.lookupCard(step.Card); !ok {
			return fmt.Errorf("steps[%d]: unknown card %q", index, step.Card)
		}
	case OpRemove, OpFavorite:
		if step.Entry == nil {
			return fmt.Errorf("steps[%d]: entry is required for %s", index, step.Op)
		}
	case OpRemoveQuantity:
		if step.Entry == nil {
			return fmt.Errorf("steps[%d]: entry is required for remove_quantity", index)
		}
	case OpSync, OpReload:
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}
	return nil
}

// lookupCard resolves a fixture name, then a catalog id.
func (s *Scenario) lookupCard(name string) (card.Card, bool) {
	if c, ok := s.Cards[name]; ok {
		return c, true
	}
	for _, c := range s.Catalog {
		if c.ID == name {
			return c, true
		}
	}
	return card.Card{}, false
}
