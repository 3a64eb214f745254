package scheme

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidColor     = errors.New("scheme: invalid color")
	ErrInvalidMerge     = errors.New("scheme: invalid merge region")
	ErrOverlappingMerge = errors.New("scheme: overlapping merge regions")
	ErrInvalidCellKey   = errors.New("scheme: invalid cell key")
	ErrEmptyGeometry    = errors.New("scheme: template has no rows or columns")
)

// New builds a Scheme from already-normalized geometry and validates it.
func New(columnWidthsPx, rowHeightsPx []float64, merges []MergeRegion, cells map[string]Cell) (*Scheme, error) {
	s := &Scheme{
		ColumnWidthsPx: columnWidthsPx,
		RowHeightsPx:   rowHeightsPx,
		Merges:         merges,
		Cells:          cells,
	}
	if s.Cells == nil {
		s.Cells = make(map[string]Cell)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the structural invariants: non-empty geometry, merge
// regions inside the grid, and no two regions overlapping.
func (s *Scheme) Validate() error {
	if len(s.RowHeightsPx) == 0 || len(s.ColumnWidthsPx) == 0 {
		return ErrEmptyGeometry
	}
	for i, m := range s.Merges {
		if m.R1 < 1 || m.C1 < 1 || m.R2 < m.R1 || m.C2 < m.C1 {
			return fmt.Errorf("%w: %s", ErrInvalidMerge, m)
		}
		if m.R2 > s.RowCount() || m.C2 > s.ColumnCount() {
			return fmt.Errorf("%w: %s outside %dx%d grid", ErrInvalidMerge, m, s.RowCount(), s.ColumnCount())
		}
		for _, o := range s.Merges[:i] {
			if m.Overlaps(o) {
				return fmt.Errorf("%w: %s and %s", ErrOverlappingMerge, o, m)
			}
		}
	}
	for key := range s.Cells {
		if _, _, err := ParseCellKey(key); err != nil {
			return err
		}
	}
	return nil
}

// RowCount is the number of template rows.
func (s *Scheme) RowCount() int { return len(s.RowHeightsPx) }

// ColumnCount is the number of template columns.
func (s *Scheme) ColumnCount() int { return len(s.ColumnWidthsPx) }

// TotalWidth is the sum of all column widths in px.
func (s *Scheme) TotalWidth() float64 {
	var w float64
	for _, c := range s.ColumnWidthsPx {
		w += c
	}
	return w
}

func (s *Scheme) inRange(row, col int) bool {
	return row >= 1 && row <= s.RowCount() && col >= 1 && col <= s.ColumnCount()
}

// CellAt returns the cell stored at (row, col). Out-of-range or blank
// coordinates report false.
func (s *Scheme) CellAt(row, col int) (Cell, bool) {
	if !s.inRange(row, col) {
		return Cell{}, false
	}
	c, ok := s.Cells[CellKey(row, col)]
	return c, ok
}

// MergeContaining returns the merge region covering (row, col), if any.
func (s *Scheme) MergeContaining(row, col int) (MergeRegion, bool) {
	if !s.inRange(row, col) {
		return MergeRegion{}, false
	}
	for _, m := range s.Merges {
		if m.Contains(row, col) {
			return m, true
		}
	}
	return MergeRegion{}, false
}

// IsMergeMaster reports whether (row, col) is the top-left cell of a merge.
func (s *Scheme) IsMergeMaster(row, col int) bool {
	m, ok := s.MergeContaining(row, col)
	return ok && m.R1 == row && m.C1 == col
}

// IsCovered reports whether (row, col) is hidden behind another cell's merge.
func (s *Scheme) IsCovered(row, col int) bool {
	m, ok := s.MergeContaining(row, col)
	return ok && !(m.R1 == row && m.C1 == col)
}

// RowHeight returns the height of a single row, 0 when out of range.
func (s *Scheme) RowHeight(row int) float64 {
	if row < 1 || row > s.RowCount() {
		return 0
	}
	return s.RowHeightsPx[row-1]
}

// ColumnWidth returns the width of a single column, 0 when out of range.
func (s *Scheme) ColumnWidth(col int) float64 {
	if col < 1 || col > s.ColumnCount() {
		return 0
	}
	return s.ColumnWidthsPx[col-1]
}

// SectionHeight sums the row heights over an inclusive range. Rows outside
// the template contribute nothing.
func (s *Scheme) SectionHeight(r RowRange) float64 {
	var h float64
	for row := r.First; row <= r.Last; row++ {
		h += s.RowHeight(row)
	}
	return h
}

// SpanWidth is the combined width of the columns a merge region covers.
func (s *Scheme) SpanWidth(m MergeRegion) float64 {
	var w float64
	for c := m.C1; c <= m.C2; c++ {
		w += s.ColumnWidth(c)
	}
	return w
}
