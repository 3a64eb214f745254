// Package scheme holds the normalized, renderer-agnostic representation of a
// spreadsheet-designed page template.
//
// A Scheme is addressed by 1-based (row, column) coordinates. Pixel values are
// floats to allow fractional widths/heights. Only cells with content or
// non-default styling are stored, so lookups on blank coordinates report
// "absent" rather than failing.
package scheme

import (
	"fmt"
	"strconv"
	"time"
)

// MergeRegion is a rectangular block of cells rendered as one visual cell.
// Coordinates are 1-based and inclusive.
type MergeRegion struct {
	R1 int `json:"r1"`
	C1 int `json:"c1"`
	R2 int `json:"r2"`
	C2 int `json:"c2"`
}

func (m MergeRegion) String() string {
	return fmt.Sprintf("R%dC%d:R%dC%d", m.R1, m.C1, m.R2, m.C2)
}

// Contains reports whether (row, col) lies inside the region.
func (m MergeRegion) Contains(row, col int) bool {
	return row >= m.R1 && row <= m.R2 && col >= m.C1 && col <= m.C2
}

// Overlaps reports whether two regions share at least one cell.
func (m MergeRegion) Overlaps(o MergeRegion) bool {
	return m.R1 <= o.R2 && o.R1 <= m.R2 && m.C1 <= o.C2 && o.C1 <= m.C2
}

// RowSpan is the number of rows covered by the region.
func (m MergeRegion) RowSpan() int { return m.R2 - m.R1 + 1 }

// ColSpan is the number of columns covered by the region.
func (m MergeRegion) ColSpan() int { return m.C2 - m.C1 + 1 }

// BorderSide is one edge of a cell border.
type BorderSide struct {
	Style string `json:"style,omitempty"` // thin|medium|thick|dashed|dotted|double
	Width int    `json:"width,omitempty"` // px
	Color *Color `json:"color,omitempty"`
}

// Border captures the four edges of a cell. Nil sides are not drawn.
type Border struct {
	Top    *BorderSide `json:"top,omitempty"`
	Bottom *BorderSide `json:"bottom,omitempty"`
	Left   *BorderSide `json:"left,omitempty"`
	Right  *BorderSide `json:"right,omitempty"`
}

// IsZero reports whether no side is set.
func (b *Border) IsZero() bool {
	return b == nil || (b.Top == nil && b.Bottom == nil && b.Left == nil && b.Right == nil)
}

// Cell is the content and style of a single template cell (or merge master).
type Cell struct {
	Value        string  `json:"value"`
	FontFamily   string  `json:"fontFamily,omitempty"` // e.g. "Arial"
	FontSize     float64 `json:"fontSize,omitempty"`   // points
	Bold         bool    `json:"bold,omitempty"`
	Italic       bool    `json:"italic,omitempty"`
	FgColor      *Color  `json:"fgColor,omitempty"`
	BgColor      *Color  `json:"bgColor,omitempty"`
	HAlign       string  `json:"hAlign,omitempty"`       // left|center|right
	VAlign       string  `json:"vAlign,omitempty"`       // top|middle|bottom
	WrapStrategy string  `json:"wrapStrategy,omitempty"` // overflow|clip|wrap
	Border       *Border `json:"border,omitempty"`
}

func (c Cell) String() string {
	return fmt.Sprintf("Value: %q, FontFamily: %s, FontSize: %.1f, Bold: %t, Italic: %t, FgColor: %s, BgColor: %s, HAlign: %s, VAlign: %s, WrapStrategy: %s",
		c.Value, c.FontFamily, c.FontSize, c.Bold, c.Italic, c.FgColor, c.BgColor, c.HAlign, c.VAlign, c.WrapStrategy)
}

// IsZero reports whether the cell has neither content nor styling.
func (c Cell) IsZero() bool {
	return c.Value == "" && c.FontFamily == "" && c.FontSize == 0 && !c.Bold && !c.Italic &&
		c.FgColor == nil && c.BgColor == nil && c.HAlign == "" && c.VAlign == "" &&
		c.WrapStrategy == "" && c.Border.IsZero()
}

// Wraps reports whether the cell wraps its text.
func (c Cell) Wraps() bool { return c.WrapStrategy == "wrap" }

// RowRange is an inclusive, 1-based range of template rows.
type RowRange struct {
	First int `json:"first" yaml:"first"`
	Last  int `json:"last" yaml:"last"`
}

func (r RowRange) String() string {
	return fmt.Sprintf("%d-%d", r.First, r.Last)
}

// Len is the number of rows in the range; an inverted range is empty.
func (r RowRange) Len() int {
	if r.Last < r.First {
		return 0
	}
	return r.Last - r.First + 1
}

// Rows returns the row numbers in the range in ascending order.
func (r RowRange) Rows() []int {
	rows := make([]int, 0, r.Len())
	for i := r.First; i <= r.Last; i++ {
		rows = append(rows, i)
	}
	return rows
}

// Scheme is the normalized template: geometry plus styled cells.
// It is built once and treated as immutable for the lifetime of a render.
type Scheme struct {
	SpreadsheetID  string          `json:"spreadsheetId"`
	SheetID        int64           `json:"sheetId"`
	SheetTitle     string          `json:"sheetTitle"`
	ScannedAt      time.Time       `json:"scannedAt"`
	ColumnWidthsPx []float64       `json:"columnWidthsPx"`
	RowHeightsPx   []float64       `json:"rowHeightsPx"`
	Merges         []MergeRegion   `json:"merges"`
	Cells          map[string]Cell `json:"cells"`
}

func (s *Scheme) String() string {
	return fmt.Sprintf("Sheet: %s, Columns: %d, Rows: %d, Merges: %d, Cells: %d",
		s.SheetTitle, len(s.ColumnWidthsPx), len(s.RowHeightsPx), len(s.Merges), len(s.Cells))
}

// CellKey formats the sparse-map key for a 1-based coordinate.
func CellKey(row, col int) string {
	return strconv.Itoa(row) + ":" + strconv.Itoa(col)
}

// ParseCellKey is the inverse of CellKey.
func ParseCellKey(key string) (row, col int, err error) {
	if _, err := fmt.Sscanf(key, "%d:%d", &row, &col); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCellKey, key)
	}
	if row < 1 || col < 1 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCellKey, key)
	}
	return row, col, nil
}
