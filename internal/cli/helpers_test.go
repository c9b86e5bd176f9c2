package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cardvault/internal/testutil"
)

const testCatalog = `cards:
  - id: c1
    name: Serra Angel
    image: /img/serra.jpg
    rarity: Rare
    color: White
    type: Creature
    set: Alpha
    description: Flying, vigilance.
    price: 100
    manaCoat: 5
    attack: 4
    defense: 4
  - id: c2
    name: Dark Ritual
    image: /img/ritual.jpg
    rarity: Common
    color: Black
    type: Spell
    set: Beta
    description: Add three black mana.
    price: 20
    manaCoat: 1
`

const serraNearMint = `id: c1
name: Serra Angel
image: /img/serra.jpg
rarity: Rare
color: White
type: Creature
set: Alpha
description: Flying, vigilance.
price: 100
manaCoat: 5
attack: 4
defense: 4
condition: Near Mint
`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"CARDVAULT_DB", "CARDVAULT_USER", "CARDVAULT_CATALOG",
		"CARDVAULT_LOG_LEVEL", "CARDVAULT_CURRENCY", "CARDVAULT_WATCH_DEBOUNCE",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

// testOptions returns JSON-format options over a fresh database and a
// writable copy of testCatalog. Entry ids are deterministic.
func testOptions(t *testing.T) *RootOptions {
	t.Helper()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalog), 0o644))

	return &RootOptions{
		Format:   "json",
		DB:       filepath.Join(dir, "cards.db"),
		User:     "alice",
		Catalog:  catalogPath,
		Currency: "CLP",
		LogLevel: "error",
		Clock:    testutil.NewDeterministicClock(),
		Tokens:   testutil.NewSequenceTokens(),
	}
}

func writeCardFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "card.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// response is a decoded CLIResponse with the payload left raw.
type response struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

// execute runs cmd with args and returns its raw stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// run executes cmd in JSON mode and decodes the envelope into data.
func run(t *testing.T, cmd *cobra.Command, data any, args ...string) (response, error) {
	t.Helper()
	out, err := execute(t, cmd, args...)

	var resp response
	if out == "" {
		return resp, err
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	if data != nil && resp.Data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp, err
}
