// Package layout decides where invoice page breaks fall and how much vertical
// spacing goes between line items, given the fixed section heights of a
// template Scheme.
//
// Everything here is pure computation: no I/O, no shared mutable state. A
// Calculator is an immutable value and may be used from many goroutines.
package layout

import (
	"errors"
	"fmt"
)

// LineItem is one billable row of an invoice.
type LineItem struct {
	Title        string  `json:"title" yaml:"title"`
	FeeType      string  `json:"feeType" yaml:"feeType"`
	UnitPrice    float64 `json:"unitPrice" yaml:"unitPrice"`
	Quantity     float64 `json:"quantity" yaml:"quantity"`
	QuantityUnit string  `json:"quantityUnit" yaml:"quantityUnit"`
	Notes        string  `json:"notes,omitempty" yaml:"notes,omitempty"`
}

var (
	ErrNegativePrice   = errors.New("layout: unit price must not be negative")
	ErrInvalidQuantity = errors.New("layout: quantity must be positive")
)

// Validate checks unitPrice >= 0 and quantity > 0. Pagination itself never
// validates; callers assembling invoices do.
func (li LineItem) Validate() error {
	if li.UnitPrice < 0 {
		return fmt.Errorf("%w: %q", ErrNegativePrice, li.Title)
	}
	if li.Quantity <= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidQuantity, li.Title)
	}
	return nil
}

// NotesMetrics is the wrapped size of an item's notes.
type NotesMetrics struct {
	LineCount int     `json:"lineCount"`
	Height    float64 `json:"height"`   // px, never below the template's one-line row
	Overflow  float64 `json:"overflow"` // px beyond the one-line row
	HasNotes  bool    `json:"hasNotes"`
}

// ItemHeight is the vertical footprint of one line item.
type ItemHeight struct {
	TitleRowHeight   float64 `json:"titleRowHeight"`
	FeeTypeRowHeight float64 `json:"feeTypeRowHeight"`
	NotesRowHeight   float64 `json:"notesRowHeight"`
	TotalHeight      float64 `json:"totalHeight"`
	NotesLineCount   int     `json:"notesLineCount"`
	HasNotes         bool    `json:"hasNotes"`
}

// SpacingProfile holds spacer-row counts for one pagination run.
type SpacingProfile struct {
	PreItem      int `json:"preItem"`
	BetweenItems int `json:"betweenItems"`
	BeforeTotal  int `json:"beforeTotal"`
	AfterTotal   int `json:"afterTotal"`
}

func (p SpacingProfile) String() string {
	return fmt.Sprintf("pre=%d between=%d beforeTotal=%d afterTotal=%d", p.PreItem, p.BetweenItems, p.BeforeTotal, p.AfterTotal)
}

// PageBreakpoint is one physical page: the item range it owns and its content height.
type PageBreakpoint struct {
	PageNumber       int     `json:"pageNumber"`
	StartItemIndex   int     `json:"startItemIndex"`
	EndItemIndex     int     `json:"endItemIndex"` // inclusive, -1 when the page holds no items
	ItemCount        int     `json:"itemCount"`
	ContentHeight    float64 `json:"contentHeight"`
	IncludesTotalBox bool    `json:"includesTotalBox"`
	Continuation     bool    `json:"continuation"` // uses the continuation header
	Oversized        bool    `json:"oversized"`    // a single item forced past the page budget
}

func (b PageBreakpoint) String() string {
	return fmt.Sprintf("page %d: items %d..%d (%d), height %.0fpx, total=%t", b.PageNumber, b.StartItemIndex, b.EndItemIndex, b.ItemCount, b.ContentHeight, b.IncludesTotalBox)
}

// Pagination is the result of one pagination run.
type Pagination struct {
	Breakpoints     []PageBreakpoint `json:"breakpoints"`
	Heights         []ItemHeight     `json:"heights"`
	Spacing         SpacingProfile   `json:"spacing"`
	EquivalentItems int              `json:"equivalentItems"`
}

// PageCount is the number of physical pages.
func (p Pagination) PageCount() int { return len(p.Breakpoints) }

// ErrBrokenPartition reports a breakpoint sequence that violates the
// pagination invariants.
var ErrBrokenPartition = errors.New("layout: breakpoints do not partition the items")

// Validate checks that the breakpoints partition [0, itemCount) into
// contiguous ascending ranges and that exactly the last page carries the
// totals box.
func (p Pagination) Validate(itemCount int) error {
	if len(p.Breakpoints) == 0 {
		return fmt.Errorf("%w: no pages", ErrBrokenPartition)
	}
	next := 0
	for i, b := range p.Breakpoints {
		if b.PageNumber != i+1 {
			return fmt.Errorf("%w: page %d numbered %d", ErrBrokenPartition, i+1, b.PageNumber)
		}
		if b.ItemCount == 0 {
			if b.EndItemIndex != -1 {
				return fmt.Errorf("%w: empty page %d ends at %d", ErrBrokenPartition, b.PageNumber, b.EndItemIndex)
			}
		} else {
			if b.StartItemIndex != next {
				return fmt.Errorf("%w: page %d starts at %d, want %d", ErrBrokenPartition, b.PageNumber, b.StartItemIndex, next)
			}
			if b.EndItemIndex-b.StartItemIndex+1 != b.ItemCount {
				return fmt.Errorf("%w: page %d range %d..%d holds %d items", ErrBrokenPartition, b.PageNumber, b.StartItemIndex, b.EndItemIndex, b.ItemCount)
			}
			next = b.EndItemIndex + 1
		}
		last := i == len(p.Breakpoints)-1
		if b.IncludesTotalBox != last {
			return fmt.Errorf("%w: page %d totals=%t", ErrBrokenPartition, b.PageNumber, b.IncludesTotalBox)
		}
	}
	if next != itemCount {
		return fmt.Errorf("%w: covered %d of %d items", ErrBrokenPartition, next, itemCount)
	}
	return nil
}
