package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cardvault/internal/card"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	File   string
	Source string
	Count  int
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add [catalog-card-id]",
		Short: "Add copies of a card to the collection",
		Long: `Add copies of a card to the collection.

The card is taken from the catalog by id, or read from --file. Copies that
match an existing entry (same card, condition, source and, outside the
catalog, price) increase its quantity instead of creating a new entry.

Examples:
  cardvault add c1
  cardvault add c1 --count 3
  cardvault add --file bolt.yaml --source marketplace`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read the card from a YAML or JSON file")
	cmd.Flags().StringVar(&opts.Source, "source", "catalog", "provenance (catalog|marketplace|custom)")
	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of copies")

	return cmd
}

func runAdd(opts *AddOptions, args []string, cmd *cobra.Command) error {
	if (len(args) == 0) == (opts.File == "") {
		return NewExitError(ExitCommandError, "pass either a catalog card id or --file")
	}
	if opts.Count < 1 {
		return NewExitError(ExitCommandError, "--count must be at least 1")
	}
	source, err := parseSource(opts.Source)
	if err != nil {
		return err
	}

	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	var c card.Card
	if opts.File != "" {
		c, err = readCardFile(opts.File)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read card", err)
		}
		if err := c.Validate(); err != nil {
			return WrapExitError(ExitCommandError, "invalid card", err)
		}
	} else {
		cat, err := s.openCatalog()
		if err != nil {
			return err
		}
		var ok bool
		if c, ok = cat.Get(args[0]); !ok {
			return s.out.Fail(ExitFailure, CodeNotFound, fmt.Sprintf("card %q not in catalog", args[0]))
		}
	}

	ctx := commandContext(cmd)
	view := addView{}
	for i := 0; i < opts.Count; i++ {
		entry, created := s.engine.AddToCollection(ctx, c, source)
		view.Entry = entry
		view.Created = view.Created || created
		view.Added++
	}
	s.logger.Debug("card added", "entry", view.Entry.ID, "quantity", view.Entry.Quantity, "source", source)
	return s.out.Success(view)
}

// RemoveOptions holds flags for the remove command.
type RemoveOptions struct {
	*RootOptions
	Count int
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RemoveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "remove <entry-id>",
		Short: "Remove copies from an entry",
		Long: `Remove copies from a collection entry. The entry is deleted when no
copies remain; removing more copies than it holds removes them all.

Examples:
  cardvault remove c1-1704067200000-k3x9q
  cardvault remove c1-1704067200000-k3x9q --count 10`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of copies to remove")

	return cmd
}

func runRemove(opts *RemoveOptions, id string, cmd *cobra.Command) error {
	if opts.Count < 1 {
		return NewExitError(ExitCommandError, "--count must be at least 1")
	}

	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	if !s.engine.RemoveQuantity(commandContext(cmd), id, opts.Count) {
		return s.out.Fail(ExitFailure, CodeNotFound, fmt.Sprintf("entry %q not found", id))
	}

	view := removeView{ID: id, Removed: true}
	if entry, ok := s.engine.Entry(id); ok {
		view.Remaining = entry.Quantity
		view.Removed = false
	}
	return s.out.Success(view)
}

// NewFavoriteCommand creates the favorite command.
func NewFavoriteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "favorite <entry-id>",
		Short:         "Toggle the favorite flag of an entry",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			id := args[0]
			if !s.engine.ToggleFavorite(commandContext(cmd), id) {
				return s.out.Fail(ExitFailure, CodeNotFound, fmt.Sprintf("entry %q not found", id))
			}
			entry, _ := s.engine.Entry(id)
			return s.out.Success(favoriteView{ID: id, IsFavorite: entry.IsFavorite})
		},
	}
}

// EditOptions holds flags for the edit command.
type EditOptions struct {
	*RootOptions
	File string
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <entry-id>",
		Short: "Replace the card fields of an entry",
		Long: `Replace the card fields of an entry with those read from --file.

Quantity, favorite flag, source and the catalog link are kept. An edit that
would make the entry identical to another entry is rejected.

Example:
  cardvault edit c1-1704067200000-k3x9q --file graded.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "card file with the new fields (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runEdit(opts *EditOptions, id string, cmd *cobra.Command) error {
	updated, err := readCardFile(opts.File)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read card", err)
	}
	updated.ID = id
	if err := updated.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid card", err)
	}

	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, ok := s.engine.Entry(id); !ok {
		return s.out.Fail(ExitFailure, CodeNotFound, fmt.Sprintf("entry %q not found", id))
	}
	if !s.engine.UpdateCard(commandContext(cmd), updated) {
		return s.out.Fail(ExitFailure, CodeRejected, fmt.Sprintf("edit of %q would duplicate another entry", id))
	}
	entry, _ := s.engine.Entry(id)
	return s.out.Success(entryView{Entry: entry, money: s.money})
}

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Source    string
	Favorites bool
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List collection entries",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", "", "only entries from this source")
	cmd.Flags().BoolVar(&opts.Favorites, "favorites", false, "only favorite entries")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	var source card.Source
	if opts.Source != "" {
		var err error
		if source, err = parseSource(opts.Source); err != nil {
			return err
		}
	}

	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	entries := []card.CollectionCard{}
	for _, e := range s.engine.Cards() {
		if source != "" && e.Source != source {
			continue
		}
		if opts.Favorites && !e.IsFavorite {
			continue
		}
		entries = append(entries, e)
	}
	return s.out.Success(listView{Entries: entries, money: s.money})
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "stats",
		Short:         "Summarize the collection",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			return s.out.Success(statsView{Stats: s.engine.Stats(), money: s.money})
		},
	}
}
