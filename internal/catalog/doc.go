// Package catalog loads, edits and watches the canonical card catalog.
//
// Catalog files are YAML, JSON or CUE. YAML and JSON files hold either a
// top-level list of cards or an object with a "cards" list; CUE files declare
// a "cards" list. Every card is checked against the #Card definition in the
// embedded schema.cue before it is decoded, so enum values, numeric bounds and
// unknown fields are rejected with the offending card's index.
//
// A Watcher turns file changes into catalog-sync triggers: it reloads the file
// after each change and hands the cards to a callback only when the load
// succeeds and the catalog is not empty.
package catalog
