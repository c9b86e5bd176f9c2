package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/roach88/cardvault/internal/card"
	"github.com/roach88/cardvault/internal/checkout"
	"github.com/roach88/cardvault/internal/collection"
)

// addView reports the entry that received a copy.
type addView struct {
	Entry   card.CollectionCard `json:"entry"`
	Added   int                 `json:"added"`
	Created bool                `json:"created"`
}

func (v addView) String() string {
	verb := "Merged into"
	if v.Created {
		verb = "Created"
	}
	return fmt.Sprintf("%s entry %s: %s x%d (added %d)", verb, v.Entry.ID, v.Entry.Name, v.Entry.Quantity, v.Added)
}

// removeView reports the entry after copies were removed.
type removeView struct {
	ID        string `json:"id"`
	Remaining int    `json:"remaining"`
	Removed   bool   `json:"removed"`
}

func (v removeView) String() string {
	if v.Removed {
		return fmt.Sprintf("Removed entry %s", v.ID)
	}
	return fmt.Sprintf("Entry %s now has %d copies", v.ID, v.Remaining)
}

// favoriteView reports the new favorite flag.
type favoriteView struct {
	ID         string `json:"id"`
	IsFavorite bool   `json:"isFavorite"`
}

func (v favoriteView) String() string {
	if v.IsFavorite {
		return fmt.Sprintf("Entry %s marked as favorite", v.ID)
	}
	return fmt.Sprintf("Entry %s is no longer a favorite", v.ID)
}

// entryView reports one entry.
type entryView struct {
	Entry card.CollectionCard `json:"entry"`
	money money
}

func (v entryView) String() string {
	return entryTable([]card.CollectionCard{v.Entry}, v.money)
}

// listView reports the collection.
type listView struct {
	Entries []card.CollectionCard `json:"entries"`
	money   money
}

func (v listView) String() string {
	if len(v.Entries) == 0 {
		return "Collection is empty."
	}
	return entryTable(v.Entries, v.money)
}

func entryTable(entries []card.CollectionCard, m money) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSET\tCONDITION\tSOURCE\tQTY\tPRICE\tFAV")
	for _, e := range entries {
		fav := ""
		if e.IsFavorite {
			fav = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			e.ID, e.Name, e.Set, e.Condition, e.Source, e.Quantity, m.Price(e.Price), fav)
	}
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// statsView reports collection stats.
type statsView struct {
	collection.Stats
	money money
}

func (v statsView) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Total cards:\t%s\n", v.money.Count(v.TotalCards))
	fmt.Fprintf(w, "Entries:\t%s\n", v.money.Count(v.Entries))
	fmt.Fprintf(w, "Distinct sets:\t%s\n", v.money.Count(v.DistinctSets))
	fmt.Fprintf(w, "Favorites:\t%s\n", v.money.Count(v.FavoriteCards))
	fmt.Fprintf(w, "Total value:\t%s\n", v.money.Price(v.TotalValue))
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// syncView reports a sync run.
type syncView struct {
	Updated      int `json:"updated"`
	CatalogCards int `json:"catalogCards"`
}

func (v syncView) String() string {
	return fmt.Sprintf("Synced with %d catalog cards: %d entries updated", v.CatalogCards, v.Updated)
}

// catalogView reports catalog cards.
type catalogView struct {
	Cards []card.Card `json:"cards"`
	money money
}

func (v catalogView) String() string {
	if len(v.Cards) == 0 {
		return "Catalog is empty."
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSET\tRARITY\tCOLOR\tTYPE\tPRICE")
	for _, c := range v.Cards {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Set, c.Rarity, c.Color, c.Type, v.money.Price(c.Price))
	}
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// catalogEditView reports a catalog edit and the sync it triggered.
type catalogEditView struct {
	ID      string `json:"id"`
	Action  string `json:"action"` // "added" | "replaced" | "removed"
	Updated int    `json:"updated"`
}

func (v catalogEditView) String() string {
	return fmt.Sprintf("Catalog card %s %s; %d collection entries updated", v.ID, v.Action, v.Updated)
}

// cartView reports the cart.
type cartView struct {
	Lines []checkout.Line `json:"lines"`
	Count int             `json:"count"`
	Total float64         `json:"total"`
	money money
}

func newCartView(c *checkout.Cart, m money) cartView {
	return cartView{Lines: c.Lines(), Count: c.Count(), Total: c.Total(), money: m}
}

func (v cartView) String() string {
	if len(v.Lines) == 0 {
		return "Cart is empty."
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CARD\tNAME\tSOURCE\tLISTING\tQTY\tPRICE")
	for _, l := range v.Lines {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", l.Card.ID, l.Card.Name, l.Source, l.ListingID, l.Quantity, v.money.Price(l.Card.Price))
	}
	fmt.Fprintf(w, "\t\t\t\t%d\t%s\n", v.Count, v.money.Price(v.Total))
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// receiptView reports a checkout.
type receiptView struct {
	checkout.Receipt
	money money
}

func (v receiptView) String() string {
	s := fmt.Sprintf("Checked out %d lines for %s: %d entries updated, %d listings sold",
		len(v.Lines), v.money.Price(v.Total), len(v.EntryIDs), len(v.SoldListings))
	if len(v.Unavailable) > 0 {
		s += fmt.Sprintf("\nSkipped listings no longer available: %s", strings.Join(v.Unavailable, ", "))
	}
	return s
}

// listingsView reports marketplace listings.
type listingsView struct {
	Listings []checkout.Listing `json:"listings"`
	money    money
}

func (v listingsView) String() string {
	if len(v.Listings) == 0 {
		return "No open listings."
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LISTING\tCARD\tNAME\tCONDITION\tSELLER\tPRICE")
	for _, l := range v.Listings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", l.ID, l.Card.ID, l.Card.Name, l.Condition, l.SellerID, v.money.Price(l.Price))
	}
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// usersView reports the users with a stored collection.
type usersView struct {
	Users []string `json:"users"`
}

func (v usersView) String() string {
	if len(v.Users) == 0 {
		return "No collections stored."
	}
	return strings.Join(v.Users, "\n")
}
