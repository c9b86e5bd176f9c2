// Package harness runs scripted collection scenarios.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	user: u1                 # optional
//	catalog:                 # cards visible to add and sync steps
//	  - id: c1
//	    name: Serra Angel
//	    ...
//	catalog_file: cards.yaml # optional, loaded with catalog.Load
//	cards:                   # named fixtures
//	  angel_nm: { id: c1, name: Serra Angel, condition: Near Mint, ... }
//	steps:
//	  - op: add
//	    card: c1
//	    source: catalog
//	    repeat: 2
//	    expect: { created: false, quantities: [2] }
//	  - op: remove
//	    entry: 0
//	expect:
//	  entries: 1
//	  total_cards: 1
//	  cards:
//	    - { source: catalog, original_id: c1, quantity: 1 }
//
// Operations: add, remove, remove_quantity, update, favorite, sync, reload.
// Entries are referenced by their index in the collection as it stands
// before the step. A sync step may carry a replacement catalog.
//
// # Deterministic Testing
//
// Every run uses a fresh kv.Memory store, testutil.DeterministicClock and
// testutil.SequenceTokens, so entry ids and timestamps are identical across
// runs. RunWithGolden compares the final collection with a goldie snapshot.
package harness
