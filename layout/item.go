package layout

// Calculator computes item heights and paginates against one set of
// template metrics.
type Calculator struct {
	Metrics  Metrics
	Measurer Measurer // nil selects CharMeasurer with Metrics.NotesCharsPerLine
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithMeasurer replaces the character-count wrapping approximation.
func WithMeasurer(m Measurer) Option {
	return func(c *Calculator) {
		c.Measurer = m
	}
}

// NewCalculator returns a Calculator for the given metrics.
func NewCalculator(m Metrics, opts ...Option) Calculator {
	c := Calculator{Metrics: m}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// ItemHeight composes the fixed title and fee-type rows with the variable
// notes row.
func (c Calculator) ItemHeight(item LineItem) ItemHeight {
	notes := c.NotesMetrics(item.Notes)
	h := ItemHeight{
		TitleRowHeight:   c.Metrics.TitleRow,
		FeeTypeRowHeight: c.Metrics.FeeTypeRow,
		NotesLineCount:   notes.LineCount,
		HasNotes:         notes.HasNotes,
	}
	if notes.HasNotes {
		h.NotesRowHeight = notes.Height
	}
	h.TotalHeight = h.TitleRowHeight + h.FeeTypeRowHeight + h.NotesRowHeight
	return h
}

// ItemHeights computes ItemHeight for every item, in order.
func (c Calculator) ItemHeights(items []LineItem) []ItemHeight {
	heights := make([]ItemHeight, len(items))
	for i, item := range items {
		heights[i] = c.ItemHeight(item)
	}
	return heights
}
