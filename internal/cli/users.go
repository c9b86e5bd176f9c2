package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cardvault/internal/kv"
)

// NewUsersCommand creates the users command.
func NewUsersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users with a stored collection",
		Long: `List every user that has a collection in the database.

Example:
  cardvault users --db cards.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := rootOpts.logger(cmd.ErrOrStderr())
			store, err := kv.Open(rootOpts.DB)
			if err != nil {
				return rootOpts.formatter(cmd).Fail(ExitCommandError, CodeUnavailable, fmt.Sprintf("failed to open database: %v", err))
			}
			defer func() {
				if err := store.Close(); err != nil {
					logger.Error("error closing database", "error", err)
				}
			}()

			prefix := kv.CollectionKey("")
			keys, err := store.Keys(commandContext(cmd), prefix)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list collections", err)
			}

			users := make([]string, 0, len(keys))
			for _, k := range keys {
				users = append(users, strings.TrimPrefix(k, prefix))
			}
			return rootOpts.formatter(cmd).Success(usersView{Users: users})
		},
	}
}
