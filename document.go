package invoicelayout

import (
	"fmt"

	"github.com/rickar/cal/v2"

	"github.com/aerissecure/invoicelayout/layout"
	"github.com/aerissecure/invoicelayout/render"
	"github.com/aerissecure/invoicelayout/scheme"
)

// Composer turns invoices into paginated documents for one template. It holds
// only read-only state and is safe for concurrent use.
type Composer struct {
	scheme   *scheme.Scheme
	sections layout.Sections
	calc     layout.Calculator
	format   *render.Formatter
	calendar *cal.BusinessCalendar
	termDays int
}

// NewComposer measures the template and prepares formatting for cfg.
func NewComposer(cfg *Config, s *scheme.Scheme) (*Composer, error) {
	calc, err := cfg.Calculator(s)
	if err != nil {
		return nil, err
	}
	f, err := render.NewFormatter(cfg.Format.Locale, cfg.Format.Currency, cfg.Format.DateLayout)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &Composer{
		scheme:   s,
		sections: cfg.Template.Sections,
		calc:     calc,
		format:   f,
		calendar: NewBusinessCalendar(cfg.Terms.Province),
		termDays: cfg.Terms.Days,
	}, nil
}

// Calculator is the layout calculator measured from the template.
func (c *Composer) Calculator() layout.Calculator { return c.calc }

// Compose validates the invoice, paginates its items and fills the
// placeholder values.
func (c *Composer) Compose(inv Invoice) (*render.Document, error) {
	if err := inv.Validate(); err != nil {
		return nil, fmt.Errorf("invoice %s: %w", inv.Number, err)
	}
	p := c.calc.Paginate(inv.Items)
	pages, err := layout.Compose(c.scheme, c.sections, p)
	if err != nil {
		return nil, err
	}

	items := make([]render.ItemFields, len(inv.Items))
	for i, li := range inv.Items {
		items[i] = render.ItemFields{
			Title:     li.Title,
			FeeType:   li.FeeType,
			UnitPrice: c.format.Money(li.UnitPrice),
			Quantity:  c.format.Quantity(li.Quantity, li.QuantityUnit),
			Amount:    c.format.Money(Amount(li)),
			Notes:     li.Notes,
		}
	}

	return &render.Document{
		Scheme:     c.scheme,
		Pagination: p,
		Pages:      pages,
		Fields:     c.fields(inv),
		Items:      items,
	}, nil
}

func (c *Composer) fields(inv Invoice) render.Fields {
	return render.Fields{
		Number: inv.Number,
		Client: inv.Client.String(),
		Issued: c.format.Date(inv.IssuedAt),
		Due:    c.format.Date(inv.DueDate(c.calendar, c.termDays)),
		Total:  c.format.Money(inv.Total()),
	}
}

// Values are the document-level placeholder values keyed by placeholder
// name, for templates outside the scheme such as a cover letter.
func (c *Composer) Values(inv Invoice) map[string]string {
	f := c.fields(inv)
	return map[string]string{
		"number": f.Number,
		"client": inv.Client.Name,
		"issued": f.Issued,
		"due":    f.Due,
		"total":  f.Total,
	}
}
