package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/format"
	"gopkg.in/yaml.v3"

	"github.com/roach88/cardvault/internal/card"
)

//go:embed schema.cue
var schemaCUE string

// Load reads a catalog file and returns its cards in file order.
//
// The format is chosen by extension: .yaml, .yml and .json are decoded with
// yaml.v3, .cue is compiled with the CUE SDK. Every card is validated against
// #Card and ids must be unique. Errors are *LoadError.
func Load(path string) ([]card.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: err.Error(), Path: path}
	}

	ctx := cuecontext.New()
	list, err := parse(ctx, path, data)
	if err != nil {
		return nil, err
	}

	cardDef := ctx.CompileString(schemaCUE, cue.Filename("schema.cue")).LookupPath(cue.ParsePath("#Card"))
	if err := cardDef.Err(); err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}

	iter, err := list.List()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: "cards must be a list", Path: path}
	}

	cards := []card.Card{}
	seen := make(map[string]int)
	for i := 0; iter.Next(); i++ {
		c, err := decodeCard(cardDef, iter.Value())
		if err != nil {
			return nil, &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("card %d: %s", i, err), Path: path}
		}
		if j, dup := seen[c.ID]; dup {
			return nil, &LoadError{
				Code:    ErrCodeDuplicateID,
				Message: fmt.Sprintf("card %d: id %q already used by card %d", i, c.ID, j),
				Path:    path,
			}
		}
		seen[c.ID] = i
		cards = append(cards, c)
	}
	return cards, nil
}

// parse turns file contents into the CUE list holding the cards.
func parse(ctx *cue.Context, path string, data []byte) (cue.Value, error) {
	var v cue.Value
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		v = ctx.CompileBytes(data, cue.Filename(path))
		if err := v.Err(); err != nil {
			return cue.Value{}, &LoadError{Code: ErrCodeParse, Message: firstError(err), Path: path}
		}
	case ".yaml", ".yml", ".json":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return cue.Value{}, &LoadError{Code: ErrCodeParse, Message: err.Error(), Path: path}
		}
		if doc == nil {
			doc = []any{}
		}
		v = ctx.Encode(doc)
		if err := v.Err(); err != nil {
			return cue.Value{}, &LoadError{Code: ErrCodeParse, Message: firstError(err), Path: path}
		}
	default:
		return cue.Value{}, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("unsupported catalog extension %q", ext), Path: path}
	}

	if v.IncompleteKind() == cue.ListKind {
		return v, nil
	}
	cards := v.LookupPath(cue.ParsePath("cards"))
	if !cards.Exists() {
		return cue.Value{}, &LoadError{Code: ErrCodeParse, Message: "no cards list found", Path: path}
	}
	return cards, nil
}

// decodeCard validates v against #Card and decodes it.
func decodeCard(cardDef, v cue.Value) (card.Card, error) {
	unified := cardDef.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return card.Card{}, fmt.Errorf("%s", firstError(err))
	}

	raw, err := unified.MarshalJSON()
	if err != nil {
		return card.Card{}, fmt.Errorf("%s", firstError(err))
	}

	var c card.Card
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return card.Card{}, err
	}
	return c, nil
}

// firstError returns the message of the first error in a CUE error list.
func firstError(err error) string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}
	return errs[0].Error()
}

// Save writes cards to path in the format implied by its extension (YAML when
// the extension is not .json or .cue). The file is replaced atomically.
func Save(path string, cards []card.Card) error {
	if cards == nil {
		cards = []card.Card{}
	}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(cards, "", "  ")
		data = append(data, '\n')
	case ".cue":
		data, err = encodeCUE(cards)
	default:
		data, err = yaml.Marshal(cards)
	}
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	return writeFileAtomic(path, data)
}

// encodeCUE renders cards as a CUE file declaring a "cards" list.
// JSON is valid CUE, so the JSON encoding is formatted in place.
func encodeCUE(cards []card.Card) ([]byte, error) {
	raw, err := json.Marshal(cards)
	if err != nil {
		return nil, err
	}
	src := append([]byte("cards: "), raw...)
	return format.Source(src)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close catalog: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod catalog: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename catalog: %w", err)
	}
	return nil
}
