package scheme

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/unidoc/unioffice/schema/soo/dml"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"
)

// Unit conversions for XLSX geometry.
const (
	ptToPx          = 96.0 / 72.0
	charWidthPx     = 7.0 // Calibri 11 max digit width
	charPaddingPx   = 5.0
	defaultRowPt    = 15.0 // Excel default 15pt
	defaultColChars = 8.43
)

// ScanOptions configures ScanXLSX.
type ScanOptions struct {
	Sheet         string // sheet name; empty selects the first sheet
	SpreadsheetID string // recorded on the scheme, e.g. the source file name
	Logger        zerolog.Logger
	Now           func() time.Time
}

// ScanXLSXFile opens a locally exported template workbook and scans it.
func ScanXLSXFile(path string, opts ScanOptions) (*Scheme, error) {
	wb, err := spreadsheet.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template workbook: %w", err)
	}
	if opts.SpreadsheetID == "" {
		opts.SpreadsheetID = path
	}
	return scanWorkbook(wb, opts)
}

// ScanXLSX reads an XLSX template from r/size and returns its Scheme.
func ScanXLSX(r io.ReaderAt, size int64, opts ScanOptions) (*Scheme, error) {
	wb, err := spreadsheet.Read(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read template workbook: %w", err)
	}
	return scanWorkbook(wb, opts)
}

func scanWorkbook(wb *spreadsheet.Workbook, opts ScanOptions) (*Scheme, error) {
	log := opts.Logger
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	sheets := wb.Sheets()
	if len(sheets) == 0 {
		return nil, ErrEmptyGeometry
	}
	sheetIdx := 0
	if opts.Sheet != "" {
		sheetIdx = -1
		for i, sh := range sheets {
			if sh.Name() == opts.Sheet {
				sheetIdx = i
				break
			}
		}
		if sheetIdx < 0 {
			return nil, fmt.Errorf("sheet %q not found in template workbook", opts.Sheet)
		}
	}
	sheet := sheets[sheetIdx]

	// ---- merges ----
	var merges []MergeRegion
	if sheet.X().MergeCells != nil {
		for _, mc := range sheet.X().MergeCells.MergeCell {
			from, to, err := reference.ParseRangeReference(mc.RefAttr)
			if err != nil {
				log.Debug().Str("ref", mc.RefAttr).Err(err).Msg("skipping unparsable merge")
				continue
			}
			// unioffice rows are 1-based, columns 0-based.
			merges = append(merges, MergeRegion{
				R1: int(from.RowIdx),
				C1: int(from.ColumnIdx) + 1,
				R2: int(to.RowIdx),
				C2: int(to.ColumnIdx) + 1,
			})
		}
	}

	// ---- extent ----
	maxRow, maxCol := 0, 0
	for _, row := range sheet.Rows() {
		if n := int(row.RowNumber()); n > maxRow {
			maxRow = n
		}
		for _, cell := range row.Cells() {
			colName, err := cell.Column()
			if err != nil {
				continue
			}
			if c := int(reference.ColumnToIndex(colName)) + 1; c > maxCol {
				maxCol = c
			}
		}
	}
	for _, m := range merges {
		maxRow = max(maxRow, m.R2)
		maxCol = max(maxCol, m.C2)
	}
	if maxRow == 0 || maxCol == 0 {
		return nil, ErrEmptyGeometry
	}

	// ---- geometry ----
	colWidths := make([]float64, maxCol)
	for c := range colWidths {
		colObj := sheet.Column(uint32(c + 1))
		chars := defaultColChars
		if colObj.X().CustomWidthAttr != nil && *colObj.X().CustomWidthAttr && colObj.X().WidthAttr != nil {
			chars = *colObj.X().WidthAttr
		}
		colWidths[c] = chars*charWidthPx + charPaddingPx
	}
	rowHeights := make([]float64, maxRow)
	for r := range rowHeights {
		rowHeights[r] = defaultRowPt * ptToPx
	}

	// ---- cells ----
	cells := make(map[string]Cell)
	probe := &Scheme{ColumnWidthsPx: colWidths, RowHeightsPx: rowHeights, Merges: merges}
	for _, row := range sheet.Rows() {
		rowNum := int(row.RowNumber())
		if row.X().CustomHeightAttr != nil && *row.X().CustomHeightAttr && row.X().HtAttr != nil {
			rowHeights[rowNum-1] = *row.X().HtAttr * ptToPx
		}
		if row.IsHidden() {
			rowHeights[rowNum-1] = 0
		}

		for _, cell := range row.Cells() {
			colName, err := cell.Column()
			if err != nil {
				continue
			}
			colNum := int(reference.ColumnToIndex(colName)) + 1
			if probe.IsCovered(rowNum, colNum) {
				continue
			}
			c := Cell{Value: cell.GetFormattedValue()}
			if cell.X().SAttr != nil {
				applyXlsxStyle(wb, *cell.X().SAttr, &c)
			}
			if c.IsZero() {
				continue
			}
			cells[CellKey(rowNum, colNum)] = c
		}
	}

	s, err := New(colWidths, rowHeights, merges, cells)
	if err != nil {
		return nil, err
	}
	s.SpreadsheetID = opts.SpreadsheetID
	s.SheetTitle = sheet.Name()
	s.SheetID = int64(sheetIdx + 1)
	s.ScannedAt = now().UTC()

	log.Info().
		Str("sheet", s.SheetTitle).
		Int("rows", s.RowCount()).
		Int("columns", s.ColumnCount()).
		Int("merges", len(s.Merges)).
		Int("cells", len(s.Cells)).
		Msg("scanned template workbook")
	return s, nil
}

// applyXlsxStyle resolves the cell's style record into c.
func applyXlsxStyle(wb *spreadsheet.Workbook, styleID uint32, c *Cell) {
	xfs := wb.StyleSheet.X().CellXfs
	if xfs == nil || int(styleID) >= len(xfs.Xf) {
		return
	}
	xf := xfs.Xf[styleID]

	if font := fontProps(wb.StyleSheet, xf); font != nil {
		if len(font.Name) > 0 {
			c.FontFamily = font.Name[0].ValAttr
		}
		if len(font.Sz) > 0 {
			c.FontSize = font.Sz[0].ValAttr
		}
		c.Bold = boolProp(font.B)
		c.Italic = boolProp(font.I)
		if len(font.Color) > 0 {
			c.FgColor = xlsxColor(wb, font.Color[0])
		}
		// Black text is the sheet default.
		if c.FgColor != nil && *c.FgColor == (Color{}) {
			c.FgColor = nil
		}
	}
	if fill := fillProps(wb.StyleSheet, xf); fill != nil && fill.PatternFill != nil && fill.PatternFill.FgColor != nil {
		c.BgColor = xlsxColor(wb, fill.PatternFill.FgColor)
	}
	if border := borderProps(wb.StyleSheet, xf); border != nil {
		b := &Border{
			Top:    xlsxBorderSide(wb, border.Top),
			Bottom: xlsxBorderSide(wb, border.Bottom),
			Left:   xlsxBorderSide(wb, border.Left),
			Right:  xlsxBorderSide(wb, border.Right),
		}
		if !b.IsZero() {
			c.Border = b
		}
	}
	if xf.Alignment != nil {
		c.HAlign = normalizeHAlign(xf.Alignment.HorizontalAttr.String())
		c.VAlign = normalizeVAlign(xf.Alignment.VerticalAttr.String())
		if xf.Alignment.WrapTextAttr != nil && *xf.Alignment.WrapTextAttr {
			c.WrapStrategy = "wrap"
		}
	}
}

func fontProps(ss spreadsheet.StyleSheet, xf *sml.CT_Xf) *sml.CT_Font {
	if xf.FontIdAttr == nil || ss.X().Fonts == nil {
		return nil
	}
	idx := int(*xf.FontIdAttr)
	if idx >= len(ss.X().Fonts.Font) {
		return nil
	}
	return ss.X().Fonts.Font[idx]
}

func fillProps(ss spreadsheet.StyleSheet, xf *sml.CT_Xf) *sml.CT_Fill {
	if xf.FillIdAttr == nil || ss.X().Fills == nil {
		return nil
	}
	idx := int(*xf.FillIdAttr)
	if idx >= len(ss.X().Fills.Fill) {
		return nil
	}
	return ss.X().Fills.Fill[idx]
}

func borderProps(ss spreadsheet.StyleSheet, xf *sml.CT_Xf) *sml.CT_Border {
	if xf.BorderIdAttr == nil || ss.X().Borders == nil {
		return nil
	}
	idx := int(*xf.BorderIdAttr)
	if idx >= len(ss.X().Borders.Border) {
		return nil
	}
	return ss.X().Borders.Border[idx]
}

func boolProp(props []*sml.CT_BooleanProperty) bool {
	if len(props) == 0 {
		return false
	}
	return props[0].ValAttr == nil || *props[0].ValAttr
}

func xlsxBorderSide(wb *spreadsheet.Workbook, pr *sml.CT_BorderPr) *BorderSide {
	if pr == nil {
		return nil
	}
	style := pr.StyleAttr.String()
	width := 0
	switch style {
	case "", "none", "unset":
		return nil
	case "medium", "mediumDashed", "mediumDashDot", "mediumDashDotDot", "double":
		width = 2
	case "thick":
		width = 3
	default:
		width = 1
	}
	return &BorderSide{Style: style, Width: width, Color: xlsxColor(wb, pr.Color)}
}

// xlsxColor resolves an explicit ARGB value or a theme index. Tint is not applied.
func xlsxColor(wb *spreadsheet.Workbook, c *sml.CT_Color) *Color {
	if c == nil {
		return nil
	}
	var hex string
	switch {
	case c.RgbAttr != nil && *c.RgbAttr != "":
		hex = *c.RgbAttr
	case c.ThemeAttr != nil:
		var ok bool
		if hex, ok = themeColorToRGB(wb, int(*c.ThemeAttr)); !ok {
			return nil
		}
	default:
		return nil
	}
	col, err := ParseColor(hex)
	if err != nil {
		return nil
	}
	return &col
}

// themeColorToRGB resolves a theme color index (0-based) to an RGB hex string.
func themeColorToRGB(wb *spreadsheet.Workbook, themeIdx int) (string, bool) {
	themes := wb.Themes()
	if len(themes) == 0 || themes[0] == nil {
		return "", false
	}
	cs := themes[0].ThemeElements.ClrScheme

	var clr *dml.CT_Color
	switch themeIdx {
	case 0:
		clr = cs.Dk1
	case 1:
		clr = cs.Lt1
	case 2:
		clr = cs.Dk2
	case 3:
		clr = cs.Lt2
	case 4:
		clr = cs.Accent1
	case 5:
		clr = cs.Accent2
	case 6:
		clr = cs.Accent3
	case 7:
		clr = cs.Accent4
	case 8:
		clr = cs.Accent5
	case 9:
		clr = cs.Accent6
	case 10:
		clr = cs.Hlink
	case 11:
		clr = cs.FolHlink
	default:
		return "", false
	}
	if clr == nil {
		return "", false
	}
	if clr.SrgbClr != nil && clr.SrgbClr.ValAttr != "" {
		return clr.SrgbClr.ValAttr, true
	} else if clr.SysClr != nil && clr.SysClr.LastClrAttr != nil {
		return *clr.SysClr.LastClrAttr, true
	}
	return "", false
}
