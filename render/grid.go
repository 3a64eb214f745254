package render

import (
	"github.com/aerissecure/invoicelayout/scheme"
)

// cellBox is one template cell placed on a page. Positions are px relative
// to the page's top-left corner.
type cellBox struct {
	Row, Col         int // template coordinates
	RowSpan, ColSpan int // in page slots and template columns
	X, Y, W, H       float64
	Cell             scheme.Cell
	Text             string
	Styled           bool // Cell came from the scheme
}

type slotCol struct{ slot, col int }

// pageGrid places the cells of one page, one row of boxes per slot. Cells
// hidden under a placed merge are left out. A merge cut by the page's slot
// sequence is clipped to the contiguous run of its template rows; when its
// master row is not on the page, the remainder is drawn with the master's
// style and no text.
func pageGrid(d *Document, page int) [][]cellBox {
	s := d.Scheme
	slots := d.Pages[page].Slots
	rows := make([][]cellBox, len(slots))
	covered := make(map[slotCol]bool)

	var y float64
	for i, slot := range slots {
		rep := d.replacer(page, slot.ItemIndex)
		var x float64
		for col := 1; col <= s.ColumnCount(); col++ {
			w := s.ColumnWidth(col)
			if covered[slotCol{i, col}] {
				x += w
				continue
			}

			box := cellBox{Row: slot.TemplateRow, Col: col, RowSpan: 1, ColSpan: 1, X: x, Y: y, W: w, H: slot.HeightPx}
			if m, ok := s.MergeContaining(slot.TemplateRow, col); ok {
				run := 1
				for i+run < len(slots) && slots[i+run].TemplateRow == slot.TemplateRow+run && slot.TemplateRow+run <= m.R2 {
					box.H += slots[i+run].HeightPx
					run++
				}
				box.RowSpan = run
				box.ColSpan = m.ColSpan()
				box.W = s.SpanWidth(m)
				for k := 0; k < run; k++ {
					for c := m.C1; c <= m.C2; c++ {
						if k > 0 || c > col {
							covered[slotCol{i + k, c}] = true
						}
					}
				}
				if cell, ok := s.CellAt(m.R1, m.C1); ok {
					box.Cell, box.Styled = cell, true
					if m.R1 != slot.TemplateRow {
						box.Cell.Value = ""
					}
				}
			} else if cell, ok := s.CellAt(slot.TemplateRow, col); ok {
				box.Cell, box.Styled = cell, true
			}
			box.Text = rep.Replace(box.Cell.Value)

			rows[i] = append(rows[i], box)
			x += w
		}
		y += slot.HeightPx
	}
	return rows
}
