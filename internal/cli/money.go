package cli

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/cardvault/internal/config"
)

// money renders prices and counts for text output.
type money struct {
	unit    currency.Unit
	printer *message.Printer
}

func newMoney(code string) (money, error) {
	unit, err := config.Config{Currency: code}.Unit()
	if err != nil {
		return money{}, err
	}
	return money{unit: unit, printer: message.NewPrinter(language.English)}, nil
}

// Price formats v with the ISO code of the configured currency, rounded to
// the currency's standard scale.
func (m money) Price(v float64) string {
	return m.printer.Sprint(currency.ISO(m.unit.Amount(v)))
}

// Count formats n with digit grouping.
func (m money) Count(n int) string {
	return m.printer.Sprintf("%d", n)
}
