package cli

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/cardvault/internal/card"
	"github.com/roach88/cardvault/internal/catalog"
	"github.com/roach88/cardvault/internal/collection"
	"github.com/roach88/cardvault/internal/kv"
)

// session is the per-command state: an open store, the user's collection
// engine and the output helpers.
type session struct {
	opts   *RootOptions
	store  *kv.SQLite
	engine *collection.Engine
	logger *slog.Logger
	out    *OutputFormatter
	money  money
}

// openSession opens the database and loads the user's collection.
// The caller must Close the session.
func openSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	if opts.User == "" {
		return nil, NewExitError(ExitCommandError, "no user: pass --user or set CARDVAULT_USER")
	}
	m, err := newMoney(opts.Currency)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid currency", err)
	}

	logger := opts.logger(cmd.ErrOrStderr())
	logger.Debug("opening database", "path", opts.DB)
	out := opts.formatter(cmd)
	store, err := kv.Open(opts.DB)
	if err != nil {
		return nil, out.Fail(ExitCommandError, CodeUnavailable, fmt.Sprintf("failed to open database: %v", err))
	}

	engineOpts := []collection.Option{collection.WithLogger(logger)}
	if opts.Clock != nil {
		engineOpts = append(engineOpts, collection.WithClock(opts.Clock))
	}
	if opts.Tokens != nil {
		engineOpts = append(engineOpts, collection.WithTokens(opts.Tokens))
	}
	engine := collection.New(store, engineOpts...)
	engine.Load(commandContext(cmd), opts.User)

	return &session{
		opts:   opts,
		store:  store,
		engine: engine,
		logger: logger,
		out:    out,
		money:  m,
	}, nil
}

// Close releases the database.
func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
}

// openCatalog loads the catalog file named by --catalog.
func (s *session) openCatalog() (*catalog.Catalog, error) {
	if s.opts.Catalog == "" {
		return nil, NewExitError(ExitCommandError, "no catalog: pass --catalog or set CARDVAULT_CATALOG")
	}
	c, err := catalog.Open(s.opts.Catalog)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load catalog", err)
	}
	s.logger.Debug("catalog loaded", "path", s.opts.Catalog, "cards", c.Len())
	return c, nil
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// readCardFile decodes a single card from a YAML or JSON file.
// Unknown fields are rejected.
func readCardFile(path string) (card.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return card.Card{}, fmt.Errorf("read card file: %w", err)
	}

	var c card.Card
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return card.Card{}, fmt.Errorf("parse card file: %w", err)
	}
	return c, nil
}

// parseSource validates a --source flag value. Empty means catalog.
func parseSource(s string) (card.Source, error) {
	if s == "" {
		return card.SourceCatalog, nil
	}
	src := card.Source(s)
	if !src.Valid() {
		return "", NewExitError(ExitCommandError, fmt.Sprintf("invalid source %q: must be one of %v", s, card.AllSources))
	}
	return src, nil
}
