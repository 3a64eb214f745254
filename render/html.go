package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/aerissecure/invoicelayout/scheme"
)

// cellStyle is the CSS-relevant part of a template cell, comparable so that
// identical styles share one class.
type cellStyle struct {
	FontFamily string
	FontSize   float64
	Bold       bool
	Italic     bool
	Color      string
	Background string
	HAlign     string
	VAlign     string
	Wrap       bool
	Border     [4]string // top, right, bottom, left
}

func styleOf(c scheme.Cell) cellStyle {
	st := cellStyle{
		FontFamily: c.FontFamily,
		FontSize:   c.FontSize,
		Bold:       c.Bold,
		Italic:     c.Italic,
		Color:      c.FgColor.String(),
		Background: c.BgColor.String(),
		HAlign:     c.HAlign,
		VAlign:     c.VAlign,
		Wrap:       c.Wraps(),
	}
	if b := c.Border; !b.IsZero() {
		st.Border = [4]string{borderCSS(b.Top), borderCSS(b.Right), borderCSS(b.Bottom), borderCSS(b.Left)}
	}
	return st
}

func borderCSS(s *scheme.BorderSide) string {
	if s == nil {
		return ""
	}
	width := s.Width
	if width <= 0 {
		width = 1
	}
	style := "solid"
	switch s.Style {
	case "medium":
		width = max(width, 2)
	case "thick":
		width = max(width, 3)
	case "dashed", "dotted", "double":
		style = s.Style
	}
	color := s.Color.String()
	if color == "" {
		color = "#000000"
	}
	return fmt.Sprintf("%dpx %s %s", width, style, color)
}

func mostCommon[K comparable](m map[K]int) (K, int) {
	var val K
	best := 0
	for k, n := range m {
		if n > best {
			best, val = n, k
		}
	}
	return val, best
}

// HTML writes every page of the document as a fixed-layout table. Styles
// shared by more than half of the styled cells become the table default;
// every other distinct style gets one class.
func (r *Renderer) HTML(w io.Writer, d *Document) error {
	grids := make([][][]cellBox, len(d.Pages))
	for p := range d.Pages {
		grids[p] = pageGrid(d, p)
	}

	// 1. Collect unique cell styles and count font values
	fontFamilyCount := make(map[string]int)
	fontSizeCount := make(map[float64]int)
	styleMap := make(map[cellStyle]string)
	styleList := make([]cellStyle, 0)
	styledCells := 0
	for _, grid := range grids {
		for _, row := range grid {
			for _, box := range row {
				if !box.Styled {
					continue
				}
				styledCells++
				st := styleOf(box.Cell)
				if st.FontFamily != "" {
					fontFamilyCount[st.FontFamily]++
				}
				if st.FontSize > 0 {
					fontSizeCount[st.FontSize]++
				}
				if _, ok := styleMap[st]; !ok {
					styleMap[st] = fmt.Sprintf("cellstyle%d", len(styleList)+1)
					styleList = append(styleList, st)
				}
			}
		}
	}

	// 2. Compute defaults
	defaultFontFamily, ffCount := mostCommon(fontFamilyCount)
	if ffCount <= styledCells/2 {
		defaultFontFamily = ""
	}
	defaultFontSize, fsCount := mostCommon(fontSizeCount)
	if fsCount <= styledCells/2 {
		defaultFontSize = 0
	}

	var b strings.Builder
	b.WriteString("<style>\n")
	b.WriteString(".page { margin-bottom: 2em; page-break-after: always; }\n")
	b.WriteString(".page table { border-collapse: collapse; table-layout: fixed; }\n")
	b.WriteString(".page td { padding: 0 4px; white-space: nowrap; overflow: hidden; vertical-align: bottom;")
	if defaultFontFamily != "" {
		b.WriteString(fmt.Sprintf(" font-family:'%s';", defaultFontFamily))
	}
	if defaultFontSize > 0 {
		b.WriteString(fmt.Sprintf(" font-size:%.1fpt;", defaultFontSize))
	}
	b.WriteString(" }\n")
	for i, st := range styleList {
		if css := styleToCSSDiff(st, defaultFontFamily, defaultFontSize); css != "" {
			b.WriteString(fmt.Sprintf(".cellstyle%d { %s }\n", i+1, css))
		}
	}
	b.WriteString("</style>\n")

	width := d.Scheme.TotalWidth()
	for p, grid := range grids {
		pg := d.Pages[p]
		b.WriteString(fmt.Sprintf("<div class=\"page\" data-page=\"%d\" style=\"width:%.0fpx;height:%.0fpx;\">\n", p+1, width, pg.Height()))
		b.WriteString(fmt.Sprintf("<table style=\"width:%.0fpx;\">\n", width))
		b.WriteString("  <colgroup>\n")
		for _, cw := range d.Scheme.ColumnWidthsPx {
			b.WriteString(fmt.Sprintf("    <col style=\"width:%.0fpx;\">\n", cw))
		}
		b.WriteString("  </colgroup>\n")

		for i, row := range grid {
			slot := pg.Slots[i]
			b.WriteString(fmt.Sprintf("  <tr data-slot=\"%s\" style=\"height:%.0fpx;\">\n", slot.Kind, slot.HeightPx))
			for _, box := range row {
				spanAttr := ""
				if box.ColSpan > 1 {
					spanAttr += fmt.Sprintf(" colspan=\"%d\"", box.ColSpan)
				}
				if box.RowSpan > 1 {
					spanAttr += fmt.Sprintf(" rowspan=\"%d\"", box.RowSpan)
				}
				classAttr := ""
				if box.Styled {
					classAttr = fmt.Sprintf(" class=\"%s\"", styleMap[styleOf(box.Cell)])
				}
				escaped := html.EscapeString(box.Text)
				// Explicit line breaks (notes paragraphs) survive as <br>
				escaped = strings.ReplaceAll(escaped, "\n", "<br>")
				b.WriteString(fmt.Sprintf("    <td data-cell=\"%s\"%s%s>%s</td>\n",
					scheme.CellKey(box.Row, box.Col), spanAttr, classAttr, escaped))
			}
			b.WriteString("  </tr>\n")
		}
		b.WriteString("</table>\n</div>\n")
		r.log.Debug().Int("page", p+1).Int("slots", len(pg.Slots)).Msg("rendered html page")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// styleToCSSDiff returns the CSS properties of s that differ from the table defaults.
func styleToCSSDiff(s cellStyle, defFontFamily string, defFontSize float64) string {
	var b strings.Builder
	if s.FontFamily != "" && s.FontFamily != defFontFamily {
		b.WriteString(fmt.Sprintf("font-family:'%s';", s.FontFamily))
	}
	if s.FontSize > 0 && s.FontSize != defFontSize {
		b.WriteString(fmt.Sprintf("font-size:%.1fpt;", s.FontSize))
	}
	if s.Bold {
		b.WriteString("font-weight:bold;")
	}
	if s.Italic {
		b.WriteString("font-style:italic;")
	}
	if s.Color != "" {
		b.WriteString(fmt.Sprintf("color:%s;", s.Color))
	}
	if s.Background != "" {
		b.WriteString(fmt.Sprintf("background-color:%s;", s.Background))
	}
	switch s.HAlign {
	case "center", "right", "justify":
		b.WriteString(fmt.Sprintf("text-align:%s;", s.HAlign))
	}
	switch s.VAlign {
	case "top", "middle":
		b.WriteString(fmt.Sprintf("vertical-align:%s;", s.VAlign))
	}
	if s.Wrap {
		b.WriteString("white-space:normal;")
	}
	for i, side := range [4]string{"top", "right", "bottom", "left"} {
		if s.Border[i] != "" {
			b.WriteString(fmt.Sprintf("border-%s:%s;", side, s.Border[i]))
		}
	}
	return b.String()
}
