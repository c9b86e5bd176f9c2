package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cardvault/internal/catalog"
)

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and edit the catalog file",
		Long: `Inspect and edit the catalog file named by --catalog.

Every edit is saved to the file and immediately synced into the user's
collection. Removing a catalog card leaves collection entries that came
from it untouched.`,
	}

	cmd.AddCommand(newCatalogShowCommand(rootOpts))
	cmd.AddCommand(newCatalogUpsertCommand(rootOpts))
	cmd.AddCommand(newCatalogRemoveCommand(rootOpts))

	return cmd
}

func newCatalogShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "List catalog cards",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMoney(rootOpts.Currency)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid currency", err)
			}
			cat, err := catalog.Open(rootOpts.Catalog)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load catalog", err)
			}
			return rootOpts.formatter(cmd).Success(catalogView{Cards: cat.Cards(), money: m})
		},
	}
}

// CatalogUpsertOptions holds flags for catalog upsert.
type CatalogUpsertOptions struct {
	*RootOptions
	File string
}

func newCatalogUpsertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogUpsertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "upsert",
		Short: "Add or replace a catalog card",
		Long: `Add a catalog card, or replace the card with the same id, from --file.

Example:
  cardvault catalog upsert --file serra-angel.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := readCardFile(opts.File)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read card", err)
			}
			return editCatalog(opts.RootOptions, cmd, item.ID, func(cat *catalog.Catalog) (string, error) {
				added, err := cat.Upsert(item)
				if err != nil {
					return "", &editError{code: CodeInvalid, err: err}
				}
				if added {
					return "added", nil
				}
				return "replaced", nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "card file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newCatalogRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <card-id>",
		Short:         "Remove a catalog card",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return editCatalog(rootOpts, cmd, id, func(cat *catalog.Catalog) (string, error) {
				if !cat.Remove(id) {
					return "", &editError{code: CodeNotFound, err: fmt.Errorf("card %q not in catalog", id)}
				}
				return "removed", nil
			})
		},
	}
}

// editCatalog applies edit to the catalog file, saves it and syncs the
// user's collection with the result.
func editCatalog(opts *RootOptions, cmd *cobra.Command, id string, edit func(*catalog.Catalog) (string, error)) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	cat, err := catalog.Open(opts.Catalog)
	if err != nil && !catalog.IsNotFound(err) {
		return WrapExitError(ExitCommandError, "failed to load catalog", err)
	}
	if cat == nil {
		cat = catalog.New(nil)
	}

	action, err := edit(cat)
	if err != nil {
		code := CodeRejected
		var ee *editError
		if errors.As(err, &ee) {
			code = ee.code
		}
		return s.out.Fail(ExitFailure, code, err.Error())
	}
	if err := cat.Save(opts.Catalog); err != nil {
		return WrapExitError(ExitCommandError, "failed to save catalog", err)
	}

	updated := s.engine.SyncWithCatalog(commandContext(cmd), cat.Cards())
	s.logger.Debug("catalog edited", "id", id, "action", action, "updated", updated)
	return s.out.Success(catalogEditView{ID: id, Action: action, Updated: updated})
}

// editError carries the error code reported for a refused catalog edit.
type editError struct {
	code string
	err  error
}

func (e *editError) Error() string { return e.err.Error() }

func (e *editError) Unwrap() error { return e.err }
