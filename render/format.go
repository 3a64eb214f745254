package render

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter prints amounts, quantities and dates for one locale and currency.
// It is safe for concurrent use.
type Formatter struct {
	printer    *message.Printer
	unit       currency.Unit
	scale      int
	dateLayout string
}

// NewFormatter parses a BCP 47 locale and an ISO 4217 currency code.
func NewFormatter(locale, cur, dateLayout string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(cur)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", cur, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	if dateLayout == "" {
		dateLayout = time.DateOnly
	}
	return &Formatter{
		printer:    message.NewPrinter(tag),
		unit:       unit,
		scale:      scale,
		dateLayout: dateLayout,
	}, nil
}

// Money formats an amount with the currency's minor-unit scale and ISO code,
// e.g. "1,234.50 EUR" in en-US or "1.234,50 EUR" in de-DE.
func (f *Formatter) Money(v float64) string {
	return f.printer.Sprint(number.Decimal(v, number.Scale(f.scale))) + " " + f.unit.String()
}

// Quantity formats a quantity with up to three fraction digits and its unit.
func (f *Formatter) Quantity(q float64, unit string) string {
	s := f.printer.Sprint(number.Decimal(q, number.MaxFractionDigits(3)))
	return strings.TrimSpace(s + " " + unit)
}

func (f *Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(f.dateLayout)
}
