// Package render paints composed invoice pages as HTML or PDF, reusing the
// template scheme's geometry and styling and filling {{placeholder}} tokens in
// template cells with invoice values.
package render

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aerissecure/invoicelayout/layout"
	"github.com/aerissecure/invoicelayout/scheme"
)

// Fields are the document-level placeholder values, already formatted.
type Fields struct {
	Number string
	Client string
	Issued string
	Due    string
	Total  string
}

// ItemFields are the formatted placeholder values of one line item.
type ItemFields struct {
	Title     string
	FeeType   string
	UnitPrice string
	Quantity  string
	Amount    string
	Notes     string
}

// Document is one paginated invoice ready to paint.
type Document struct {
	Scheme     *scheme.Scheme
	Pagination layout.Pagination
	Pages      []layout.Page
	Fields     Fields
	Items      []ItemFields
}

// replacer substitutes placeholders for a page and, on item rows, an item.
func (d *Document) replacer(page, item int) *strings.Replacer {
	var it ItemFields
	if item >= 0 && item < len(d.Items) {
		it = d.Items[item]
	}
	return strings.NewReplacer(
		"{{number}}", d.Fields.Number,
		"{{client}}", d.Fields.Client,
		"{{issued}}", d.Fields.Issued,
		"{{due}}", d.Fields.Due,
		"{{total}}", d.Fields.Total,
		"{{page}}", strconv.Itoa(page+1),
		"{{pages}}", strconv.Itoa(len(d.Pages)),
		"{{item.title}}", it.Title,
		"{{item.feeType}}", it.FeeType,
		"{{item.unitPrice}}", it.UnitPrice,
		"{{item.quantity}}", it.Quantity,
		"{{item.amount}}", it.Amount,
		"{{item.notes}}", it.Notes,
	)
}

// Renderer paints documents. The zero value is not usable; call New.
type Renderer struct {
	log zerolog.Logger
}

type Option func(*Renderer)

// WithLogger sets the logger used for per-page debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Renderer) { r.log = l }
}

func New(opts ...Option) *Renderer {
	r := &Renderer{log: zerolog.Nop()}
	for _, o := range opts {
		o(r)
	}
	return r
}
