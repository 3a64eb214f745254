package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/aerissecure/invoicelayout/scheme"
)

const (
	pxToPt          = 0.75 // CSS px at 96 dpi
	defaultFontSize = 10   // pt
	cellPaddingPt   = 3
	lineSpacing     = 1.2
)

// PDF writes one PDF page per composed page. Each page is exactly as tall as
// its content; fpdf's automatic page breaks stay off since pagination has
// already decided where pages end.
func (r *Renderer) PDF(w io.Writer, d *Document) error {
	width := d.Scheme.TotalWidth() * pxToPt
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: width * 1.414},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(cellPaddingPt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for p, pg := range d.Pages {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: width, Ht: pg.Height() * pxToPt})
		for _, row := range pageGrid(d, p) {
			for _, box := range row {
				drawBox(pdf, tr, box)
			}
		}
		r.log.Debug().Int("page", p+1).Float64("heightPx", pg.Height()).Msg("rendered pdf page")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func drawBox(pdf *fpdf.Fpdf, tr func(string) string, box cellBox) {
	x, y, w, h := box.X*pxToPt, box.Y*pxToPt, box.W*pxToPt, box.H*pxToPt
	c := box.Cell

	if c.BgColor != nil {
		pdf.SetFillColor(c.BgColor.RGB())
		pdf.Rect(x, y, w, h, "F")
	}
	if b := c.Border; !b.IsZero() {
		drawSide(pdf, b.Top, x, y, x+w, y)
		drawSide(pdf, b.Bottom, x, y+h, x+w, y+h)
		drawSide(pdf, b.Left, x, y, x, y+h)
		drawSide(pdf, b.Right, x+w, y, x+w, y+h)
	}
	if strings.TrimSpace(box.Text) == "" {
		return
	}

	size := c.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	pdf.SetFont(coreFont(c.FontFamily), fontStyle(c), size)
	if c.FgColor != nil {
		pdf.SetTextColor(c.FgColor.RGB())
	} else {
		pdf.SetTextColor(0, 0, 0)
	}

	var lines []string
	for _, para := range strings.Split(tr(box.Text), "\n") {
		if c.Wraps() {
			lines = append(lines, pdf.SplitText(para, w-2*cellPaddingPt)...)
		} else {
			lines = append(lines, para)
		}
	}
	lineH := size * lineSpacing
	textH := lineH * float64(len(lines))

	top := y + h - textH
	switch c.VAlign {
	case "top":
		top = y
	case "middle":
		top = y + (h-textH)/2
	}

	pdf.ClipRect(x, y, w, h, false)
	for i, line := range lines {
		pdf.SetXY(x, top+float64(i)*lineH)
		pdf.CellFormat(w, lineH, line, "", 0, alignStr(c.HAlign), false, 0, "")
	}
	pdf.ClipEnd()
}

func drawSide(pdf *fpdf.Fpdf, s *scheme.BorderSide, x1, y1, x2, y2 float64) {
	if s == nil {
		return
	}
	width := float64(max(s.Width, 1))
	switch s.Style {
	case "medium":
		width = max(width, 2)
	case "thick":
		width = max(width, 3)
	}
	if s.Color != nil {
		pdf.SetDrawColor(s.Color.RGB())
	} else {
		pdf.SetDrawColor(0, 0, 0)
	}
	pdf.SetLineWidth(width * pxToPt)
	switch s.Style {
	case "dashed":
		pdf.SetDashPattern([]float64{3, 2}, 0)
	case "dotted":
		pdf.SetDashPattern([]float64{1, 1}, 0)
	}
	pdf.Line(x1, y1, x2, y2)
	pdf.SetDashPattern([]float64{}, 0)
}

// coreFont maps a template font family onto one of the PDF core fonts.
func coreFont(family string) string {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "courier"), strings.Contains(f, "mono"):
		return "Courier"
	case strings.Contains(f, "times"), strings.Contains(f, "georgia"),
		strings.Contains(f, "serif") && !strings.Contains(f, "sans"):
		return "Times"
	default:
		return "Helvetica"
	}
}

func fontStyle(c scheme.Cell) string {
	var s string
	if c.Bold {
		s += "B"
	}
	if c.Italic {
		s += "I"
	}
	return s
}

func alignStr(h string) string {
	switch h {
	case "center":
		return "C"
	case "right":
		return "R"
	default:
		return "L"
	}
}
