package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cardvault/internal/checkout"
)

// NewCartCommand creates the cart command group.
func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
		Long: `Manage the shopping cart. Checking out moves every copy in the cart
into the collection and closes the marketplace listings that were bought.`,
	}

	cmd.AddCommand(newCartAddCommand(rootOpts))
	cmd.AddCommand(newCartRemoveCommand(rootOpts))
	cmd.AddCommand(newCartShowCommand(rootOpts))
	cmd.AddCommand(newCartCheckoutCommand(rootOpts))

	return cmd
}

// CartAddOptions holds flags for cart add.
type CartAddOptions struct {
	*RootOptions
	Listing  string
	Quantity int
}

func newCartAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CartAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add [catalog-card-id]",
		Short: "Put catalog copies or a marketplace listing in the cart",
		Long: `Put catalog copies or a marketplace listing in the cart.

Examples:
  cardvault cart add c1 --qty 2
  cardvault cart add --listing L1`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCartAdd(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Listing, "listing", "", "marketplace listing id")
	cmd.Flags().IntVarP(&opts.Quantity, "qty", "q", 1, "number of catalog copies")

	return cmd
}

func runCartAdd(opts *CartAddOptions, args []string, cmd *cobra.Command) error {
	if (len(args) == 0) == (opts.Listing == "") {
		return NewExitError(ExitCommandError, "pass either a catalog card id or --listing")
	}
	if opts.Quantity < 1 {
		return NewExitError(ExitCommandError, "--qty must be at least 1")
	}

	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := commandContext(cmd)
	cart, err := checkout.LoadCart(ctx, s.store, opts.User, s.logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load cart", err)
	}

	if opts.Listing != "" {
		market, err := checkout.LoadMarket(ctx, s.store, s.logger)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load marketplace", err)
		}
		listing, ok := market.Get(opts.Listing)
		if !ok {
			return s.out.Fail(ExitFailure, CodeNotFound, fmt.Sprintf("listing %q not found", opts.Listing))
		}
		cart.AddListing(listing)
	} else {
		cat, err := s.openCatalog()
		if err != nil {
			return err
		}
		item, ok := cat.Get(args[0])
		if !ok {
			return s.out.Fail(ExitFailure, CodeNotFound, fmt.Sprintf("card %q not in catalog", args[0]))
		}
		cart.Add(item, opts.Quantity, "")
	}

	if err := checkout.SaveCart(ctx, s.store, opts.User, cart); err != nil {
		return WrapExitError(ExitCommandError, "failed to save cart", err)
	}
	return s.out.Success(newCartView(cart, s.money))
}

// CartRemoveOptions holds flags for cart remove.
type CartRemoveOptions struct {
	*RootOptions
	Source  string
	Listing string
}

func newCartRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CartRemoveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "remove [card-id]",
		Short: "Take a card or a marketplace listing out of the cart",
		Long: `Take a card or a marketplace listing out of the cart.

Examples:
  cardvault cart remove c1
  cardvault cart remove --listing L1`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (opts.Listing == "") {
				return NewExitError(ExitCommandError, "pass either a card id or --listing")
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

			ctx := commandContext(cmd)
			cart, err := checkout.LoadCart(ctx, s.store, opts.User, s.logger)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load cart", err)
			}
			if opts.Listing != "" {
				if !cart.RemoveListing(opts.Listing) {
					return s.out.Fail(ExitFailure, CodeNotFound, fmt.Sprintf("listing %q not in cart", opts.Listing))
				}
			} else if !cart.Remove(args[0], source) {
				return s.out.Fail(ExitFailure, CodeNotFound, fmt.Sprintf("card %q not in cart", args[0]))
			}
			if err := checkout.SaveCart(ctx, s.store, opts.User, cart); err != nil {
				return WrapExitError(ExitCommandError, "failed to save cart", err)
			}
			return s.out.Success(newCartView(cart, s.money))
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", "catalog", "source of the cart line")
	cmd.Flags().StringVar(&opts.Listing, "listing", "", "marketplace listing id")

	return cmd
}

func newCartShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Show the cart",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			cart, err := checkout.LoadCart(commandContext(cmd), s.store, rootOpts.User, s.logger)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load cart", err)
			}
			return s.out.Success(newCartView(cart, s.money))
		},
	}
}

func newCartCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "checkout",
		Short:         "Buy everything in the cart",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := commandContext(cmd)
			cart, err := checkout.LoadCart(ctx, s.store, rootOpts.User, s.logger)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load cart", err)
			}
			if cart.Count() == 0 {
				return s.out.Fail(ExitFailure, CodeInvalid, "cart is empty")
			}
			market, err := checkout.LoadMarket(ctx, s.store, s.logger)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load marketplace", err)
			}

			receipt := checkout.Settle(ctx, cart, s.engine, market)

			if err := checkout.SaveMarket(ctx, s.store, market); err != nil {
				return WrapExitError(ExitCommandError, "failed to save marketplace", err)
			}
			if err := checkout.SaveCart(ctx, s.store, rootOpts.User, cart); err != nil {
				return WrapExitError(ExitCommandError, "failed to save cart", err)
			}
			s.logger.Debug("checkout settled", "lines", len(receipt.Lines), "entries", len(receipt.EntryIDs))
			return s.out.Success(receiptView{Receipt: receipt, money: s.money})
		},
	}
}
