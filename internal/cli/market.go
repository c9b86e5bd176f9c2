package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/cardvault/internal/card"
	"github.com/roach88/cardvault/internal/checkout"
)

// NewMarketCommand creates the market command group.
func NewMarketCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Browse and publish marketplace listings",
		Long: `Browse and publish marketplace listings. A listing offers one copy at
a fixed price and condition; buying it adds a marketplace entry to the
buyer's collection at that price.`,
	}

	cmd.AddCommand(newMarketListCommand(rootOpts))
	cmd.AddCommand(newMarketPublishCommand(rootOpts))
	cmd.AddCommand(newMarketRemoveCommand(rootOpts))

	return cmd
}

// MarketListOptions holds flags for market list.
type MarketListOptions struct {
	*RootOptions
	MinPrice  float64
	MaxPrice  float64
	Condition string
}

func newMarketListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MarketListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List open listings",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cond := card.Condition(opts.Condition)
			if !cond.Valid() {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid condition %q", opts.Condition))
			}

			s, err := openSession(cmd, opts.RootOptions)
			if err != nil {
				return err
			}
			defer s.Close()

			market, err := checkout.LoadMarket(commandContext(cmd), s.store, s.logger)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load marketplace", err)
			}
			listings := market.Listings(checkout.Filter{
				MinPrice:  opts.MinPrice,
				MaxPrice:  opts.MaxPrice,
				Condition: cond,
			})
			return s.out.Success(listingsView{Listings: listings, money: s.money})
		},
	}

	cmd.Flags().Float64Var(&opts.MinPrice, "min", 0, "minimum price")
	cmd.Flags().Float64Var(&opts.MaxPrice, "max", 0, "maximum price (0 = no limit)")
	cmd.Flags().StringVar(&opts.Condition, "condition", "", "only listings in this condition")

	return cmd
}

// MarketPublishOptions holds flags for market publish.
type MarketPublishOptions struct {
	*RootOptions
	ID        string
	Seller    string
	Price     float64
	Condition string
	File      string
}

func newMarketPublishCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MarketPublishOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "publish [catalog-card-id]",
		Short: "Offer one copy of a card",
		Long: `Offer one copy of a catalog card, or of a card read from --file.

Examples:
  cardvault market publish c1 --id L1 --price 90 --condition "Near Mint"
  cardvault market publish --file promo.yaml --id L2 --price 300`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMarketPublish(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "listing id (required)")
	cmd.Flags().StringVar(&opts.Seller, "seller", "", "seller id (defaults to --user)")
	cmd.Flags().Float64Var(&opts.Price, "price", 0, "asking price")
	cmd.Flags().StringVar(&opts.Condition, "condition", "", "condition of the offered copy (default Mint)")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read the card from a YAML or JSON file")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runMarketPublish(opts *MarketPublishOptions, args []string, cmd *cobra.Command) error {
	if (len(args) == 0) == (opts.File == "") {
		return NewExitError(ExitCommandError, "pass either a catalog card id or --file")
	}

	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	var c card.Card
	if opts.File != "" {
		if c, err = readCardFile(opts.File); err != nil {
			return WrapExitError(ExitCommandError, "failed to read card", err)
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

	seller := opts.Seller
	if seller == "" {
		seller = opts.User
	}
	now := time.Now()
	if opts.Clock != nil {
		now = opts.Clock.Now()
	}
	listing := checkout.Listing{
		ID:        opts.ID,
		Card:      c,
		SellerID:  seller,
		Price:     opts.Price,
		Condition: card.Condition(opts.Condition),
		CreatedAt: now.UTC().Truncate(time.Millisecond),
	}

	ctx := commandContext(cmd)
	market, err := checkout.LoadMarket(ctx, s.store, s.logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load marketplace", err)
	}
	if err := market.Publish(listing); err != nil {
		if errors.Is(err, checkout.ErrInvalidListing) {
			return s.out.Fail(ExitFailure, CodeInvalid, err.Error())
		}
		return WrapExitError(ExitFailure, "failed to publish", err)
	}
	if err := checkout.SaveMarket(ctx, s.store, market); err != nil {
		return WrapExitError(ExitCommandError, "failed to save marketplace", err)
	}

	published, _ := market.Get(opts.ID)
	return s.out.Success(listingsView{Listings: []checkout.Listing{published}, money: s.money})
}

func newMarketRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <listing-id>",
		Short:         "Close a listing",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := commandContext(cmd)
			market, err := checkout.LoadMarket(ctx, s.store, s.logger)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load marketplace", err)
			}
			if !market.Remove(args[0]) {
				return s.out.Fail(ExitFailure, CodeNotFound, fmt.Sprintf("listing %q not found", args[0]))
			}
			if err := checkout.SaveMarket(ctx, s.store, market); err != nil {
				return WrapExitError(ExitCommandError, "failed to save marketplace", err)
			}
			return s.out.Success(listingsView{Listings: market.Listings(checkout.Filter{}), money: s.money})
		},
	}
}
