// Package cli implements the cardvault command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/cardvault/internal/collection"
	"github.com/roach88/cardvault/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	DB       string
	User     string
	Catalog  string
	Currency string
	LogLevel string
	Debounce time.Duration

	// Clock and Tokens override entry id generation (for testing).
	// If nil, the engine uses the system clock and random tokens.
	Clock  collection.Clock
	Tokens collection.TokenSource

	// ConfigErr is set when the environment could not be parsed.
	ConfigErr error
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the cardvault CLI.
// Flag defaults come from CARDVAULT_* environment variables.
func NewRootCommand() *cobra.Command {
	cfg, err := config.Load()
	opts := &RootOptions{LogLevel: cfg.LogLevel, Debounce: cfg.Debounce, ConfigErr: err}
	if err != nil {
		cfg = config.Config{DB: "cardvault.db", User: "local", Catalog: "catalog.yaml", Currency: "CLP", LogLevel: "info"}
	}

	cmd := &cobra.Command{
		Use:   "cardvault",
		Short: "cardvault - trading card collection manager",
		Long: `Track a trading card collection: copies that are the same ownable thing
are merged into one entry with a quantity, and catalog-sourced entries follow
catalog edits through sync.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.ConfigErr != nil {
				return WrapExitError(ExitCommandError, "invalid environment", opts.ConfigErr)
			}
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", cfg.DB, "path to SQLite database (or :memory:)")
	cmd.PersistentFlags().StringVarP(&opts.User, "user", "u", cfg.User, "collection owner")
	cmd.PersistentFlags().StringVar(&opts.Catalog, "catalog", cfg.Catalog, "catalog file (.yaml, .json or .cue)")
	cmd.PersistentFlags().StringVar(&opts.Currency, "currency", cfg.Currency, "ISO 4217 currency for prices")

	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewFavoriteCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewCartCommand(opts))
	cmd.AddCommand(NewMarketCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewUsersCommand(opts))
	cmd.AddCommand(NewScenarioCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// formatter returns the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout(), Verbose: o.Verbose}
}

// logger builds the command logger: a text handler on w, Debug with
// --verbose, otherwise the configured level.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.LogLevel != "" {
		if parsed, err := (config.Config{LogLevel: o.LogLevel}).Level(); err == nil {
			level = parsed
		}
	}
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
