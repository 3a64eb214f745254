package layout

import (
	"fmt"

	"github.com/aerissecure/invoicelayout/scheme"
)

// SlotKind identifies which template section a slot is drawn from.
type SlotKind int

const (
	SlotHeader SlotKind = iota
	SlotContinuationHeader
	SlotTableHeader
	SlotSpacer
	SlotItemTitle
	SlotItemFeeType
	SlotItemNotes
	SlotTotal
	SlotFooter
	SlotSimpleFooter
)

var slotKindNames = [...]string{
	SlotHeader:             "header",
	SlotContinuationHeader: "continuation-header",
	SlotTableHeader:        "table-header",
	SlotSpacer:             "spacer",
	SlotItemTitle:          "item-title",
	SlotItemFeeType:        "item-fee-type",
	SlotItemNotes:          "item-notes",
	SlotTotal:              "total",
	SlotFooter:             "footer",
	SlotSimpleFooter:       "simple-footer",
}

func (k SlotKind) String() string {
	if int(k) < len(slotKindNames) {
		return slotKindNames[k]
	}
	return fmt.Sprintf("SlotKind(%d)", int(k))
}

// Slot is one template row placed on a physical page.
type Slot struct {
	Kind        SlotKind
	TemplateRow int     // 1-based scheme row drawn in this slot
	HeightPx    float64 // may differ from the template row, e.g. grown notes
	ItemIndex   int     // -1 for slots not tied to a line item
}

// Page is the ordered sequence of rows painted on one physical page.
type Page struct {
	Breakpoint PageBreakpoint
	Slots      []Slot
}

// Height is the sum of slot heights.
func (p Page) Height() float64 {
	var h float64
	for _, s := range p.Slots {
		h += s.HeightPx
	}
	return h
}

// Compose expands breakpoints into per-page template rows. Slot heights come
// from the scheme for fixed sections and from the pagination for item rows,
// so a page's height equals its breakpoint's content height when the
// metrics were measured from the same scheme.
func Compose(s *scheme.Scheme, sec Sections, p Pagination) ([]Page, error) {
	if err := sec.Validate(s); err != nil {
		return nil, err
	}
	spacerH := s.RowHeight(sec.Spacer)

	pages := make([]Page, 0, len(p.Breakpoints))
	for _, b := range p.Breakpoints {
		pg := Page{Breakpoint: b}
		add := func(kind SlotKind, row int, h float64, item int) {
			pg.Slots = append(pg.Slots, Slot{Kind: kind, TemplateRow: row, HeightPx: h, ItemIndex: item})
		}
		section := func(kind SlotKind, r scheme.RowRange) {
			for _, row := range r.Rows() {
				add(kind, row, s.RowHeight(row), -1)
			}
		}
		spacers := func(n int) {
			for i := 0; i < n; i++ {
				add(SlotSpacer, sec.Spacer, spacerH, -1)
			}
		}

		if b.Continuation {
			section(SlotContinuationHeader, sec.HeaderContinuation)
		} else {
			section(SlotHeader, sec.HeaderFull)
		}
		section(SlotTableHeader, sec.TableHeader)

		if b.ItemCount > 0 {
			spacers(p.Spacing.PreItem)
			for i := b.StartItemIndex; i <= b.EndItemIndex; i++ {
				if i > b.StartItemIndex {
					spacers(p.Spacing.BetweenItems)
				}
				h := p.Heights[i]
				add(SlotItemTitle, sec.ItemTitle, h.TitleRowHeight, i)
				add(SlotItemFeeType, sec.ItemFeeType, h.FeeTypeRowHeight, i)
				if h.HasNotes {
					add(SlotItemNotes, sec.ItemNotes, h.NotesRowHeight, i)
				}
			}
		}

		if b.IncludesTotalBox {
			if b.ItemCount > 0 {
				spacers(p.Spacing.BeforeTotal)
			}
			section(SlotTotal, sec.TotalBox)
			if b.ItemCount > 0 {
				spacers(p.Spacing.AfterTotal)
			}
			section(SlotFooter, sec.FooterFull)
		} else {
			section(SlotSimpleFooter, sec.FooterSimple)
		}
		pages = append(pages, pg)
	}
	return pages, nil
}
