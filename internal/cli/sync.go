package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/cardvault/internal/card"
	"github.com/roach88/cardvault/internal/catalog"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Propagate catalog changes into the collection",
		Long: `Propagate catalog changes into catalog-sourced collection entries.

Names, images, prices, descriptions, rarities, colors, types, sets, mana
costs, attack and defense are copied from the catalog card each entry came
from. Quantities, favorites, conditions and ids never change. Entries whose
catalog card is gone are left as they are.

Example:
  cardvault sync --catalog catalog.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			cat, err := s.openCatalog()
			if err != nil {
				return err
			}
			cards := cat.Cards()
			updated := s.engine.SyncWithCatalog(commandContext(cmd), cards)
			return s.out.Success(syncView{Updated: updated, CatalogCards: len(cards)})
		},
	}
}

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Sync the collection whenever the catalog file changes",
		Long: `Sync the collection once, then again every time the catalog file is
written. Files that fail to load are skipped until the next change. Runs
until interrupted.

Example:
  cardvault watch --catalog catalog.yaml --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", rootOpts.Debounce, "quiet period before reloading")

	return cmd
}

func runWatch(opts *WatchOptions, cmd *cobra.Command) error {
	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := commandContext(cmd)
	if cat, err := s.openCatalog(); err == nil {
		updated := s.engine.SyncWithCatalog(ctx, cat.Cards())
		s.logger.Info("initial sync", "catalog", opts.Catalog, "updated", updated)
	} else {
		s.logger.Warn("initial sync skipped", "error", err)
	}

	onChange := func(ctx context.Context, cards []card.Card) {
		updated := s.engine.SyncWithCatalog(ctx, cards)
		s.logger.Info("catalog changed", "cards", len(cards), "updated", updated)
		if updated > 0 {
			if err := s.out.Success(syncView{Updated: updated, CatalogCards: len(cards)}); err != nil {
				s.logger.Error("write output", "error", err)
			}
		}
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = catalog.DefaultDebounce
	}
	w := catalog.NewWatcher(opts.Catalog, onChange,
		catalog.WithDebounce(debounce),
		catalog.WithWatchLogger(s.logger),
	)

	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	select {
	case <-w.Ready():
		s.logger.Info("watching catalog", "path", opts.Catalog, "user", s.engine.UserID())
		err = <-errc
	case err = <-errc:
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to watch %s", opts.Catalog), err)
	}
	s.logger.Info("watch stopped")
	return nil
}
