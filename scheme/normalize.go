package scheme

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is the canonical color representation: 8-bit red, green and blue
// channels. Source colors arrive either as hex strings or as 0-1 float
// triples; both are converted here, once, at ingestion.
type Color struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

// Hex formats the color as "RRGGBB" without a leading "#".
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.Red, c.Green, c.Blue)
}

func (c *Color) String() string {
	if c == nil {
		return ""
	}
	return "#" + c.Hex()
}

// RGB returns the channels as ints, the form PDF writers take.
func (c Color) RGB() (r, g, b int) {
	return int(c.Red), int(c.Green), int(c.Blue)
}

// ParseColor accepts "RGB", "RRGGBB" and XLSX-style "AARRGGBB", each with or
// without a leading "#". The alpha byte of an ARGB value is dropped.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	case 8:
		hex = hex[2:]
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color{Red: uint8(v >> 16), Green: uint8(v >> 8), Blue: uint8(v)}, nil
}

// ColorFromFloats converts 0-1 channel floats. Each channel is scaled by 255,
// rounded half away from zero and clamped to [0, 255].
func ColorFromFloats(r, g, b float64) Color {
	return Color{Red: floatChannel(r), Green: floatChannel(g), Blue: floatChannel(b)}
}

func floatChannel(f float64) uint8 {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(math.Round(f * 255))
}

// MarshalJSON always writes the canonical "#RRGGBB" form.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal("#" + c.Hex())
}

// UnmarshalJSON accepts either a hex string or an object with red/green/blue
// floats in the 0-1 range. Missing channels are zero.
func (c *Color) UnmarshalJSON(data []byte) error {
	var hex string
	if err := json.Unmarshal(data, &hex); err == nil {
		parsed, err := ParseColor(hex)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}
	var src SourceColor
	if err := json.Unmarshal(data, &src); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidColor, data)
	}
	parsed, ok, err := src.Normalize()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: empty color %s", ErrInvalidColor, data)
	}
	*c = parsed
	return nil
}

// SourceColor is a color as it appears in raw spreadsheet exports: a hex
// string, or separate float channels. Hex wins when both are present.
type SourceColor struct {
	Hex   string   `json:"hex,omitempty"`
	Red   *float64 `json:"red,omitempty"`
	Green *float64 `json:"green,omitempty"`
	Blue  *float64 `json:"blue,omitempty"`
}

// Normalize converts the source color. ok is false when no encoding is set.
func (s SourceColor) Normalize() (c Color, ok bool, err error) {
	if s.Hex != "" {
		c, err = ParseColor(s.Hex)
		return c, err == nil, err
	}
	if s.Red == nil && s.Green == nil && s.Blue == nil {
		return Color{}, false, nil
	}
	return ColorFromFloats(deref(s.Red), deref(s.Green), deref(s.Blue)), true, nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// GridRange is a merge range in source coordinates: 0-based with exclusive
// end indexes.
type GridRange struct {
	StartRowIndex    int `json:"startRowIndex"`
	EndRowIndex      int `json:"endRowIndex"`
	StartColumnIndex int `json:"startColumnIndex"`
	EndColumnIndex   int `json:"endColumnIndex"`
}

// Region converts to a 1-based inclusive MergeRegion: starts shift by one,
// exclusive ends become inclusive without change.
func (g GridRange) Region() MergeRegion {
	return MergeRegion{
		R1: g.StartRowIndex + 1,
		C1: g.StartColumnIndex + 1,
		R2: g.EndRowIndex,
		C2: g.EndColumnIndex,
	}
}

// GridRange is the inverse of GridRange.Region.
func (m MergeRegion) GridRange() GridRange {
	return GridRange{
		StartRowIndex:    m.R1 - 1,
		EndRowIndex:      m.R2,
		StartColumnIndex: m.C1 - 1,
		EndColumnIndex:   m.C2,
	}
}

// SourceBorderSide is one raw border edge.
type SourceBorderSide struct {
	Style string      `json:"style"`
	Width int         `json:"width"`
	Color SourceColor `json:"color"`
}

// SourceBorders holds the raw border edges of a cell.
type SourceBorders struct {
	Top    *SourceBorderSide `json:"top,omitempty"`
	Bottom *SourceBorderSide `json:"bottom,omitempty"`
	Left   *SourceBorderSide `json:"left,omitempty"`
	Right  *SourceBorderSide `json:"right,omitempty"`
}

// SourceFormat is the raw per-cell format block.
type SourceFormat struct {
	FontFamily          string         `json:"fontFamily,omitempty"`
	FontSize            float64        `json:"fontSize,omitempty"`
	Bold                bool           `json:"bold,omitempty"`
	Italic              bool           `json:"italic,omitempty"`
	ForegroundColor     SourceColor    `json:"foregroundColor"`
	BackgroundColor     SourceColor    `json:"backgroundColor"`
	HorizontalAlignment string         `json:"horizontalAlignment,omitempty"`
	VerticalAlignment   string         `json:"verticalAlignment,omitempty"`
	WrapStrategy        string         `json:"wrapStrategy,omitempty"`
	Borders             *SourceBorders `json:"borders,omitempty"`
}

// SourceCell is a raw cell addressed by 0-based row and column.
type SourceCell struct {
	Row    int          `json:"row"`
	Col    int          `json:"col"`
	Value  string       `json:"value"`
	Format SourceFormat `json:"format"`
}

// Source is raw spreadsheet-style input as produced by a sheet export.
type Source struct {
	SpreadsheetID    string       `json:"spreadsheetId"`
	SheetID          int64        `json:"sheetId"`
	SheetTitle       string       `json:"sheetTitle"`
	ColumnPixelSizes []float64    `json:"columnPixelSizes"`
	RowPixelSizes    []float64    `json:"rowPixelSizes"`
	Merges           []GridRange  `json:"merges"`
	Cells            []SourceCell `json:"cells"`
}

// FromSource normalizes raw input into a Scheme. Merges are converted to
// 1-based inclusive regions, colors to the canonical triple, and cells with
// neither content nor styling are dropped.
func FromSource(src Source) (*Scheme, error) {
	merges := make([]MergeRegion, 0, len(src.Merges))
	for _, g := range src.Merges {
		merges = append(merges, g.Region())
	}

	cells := make(map[string]Cell, len(src.Cells))
	for _, sc := range src.Cells {
		if sc.Row < 0 || sc.Col < 0 {
			return nil, fmt.Errorf("%w: source cell at %d,%d", ErrInvalidCellKey, sc.Row, sc.Col)
		}
		cell, err := normalizeCell(sc)
		if err != nil {
			return nil, fmt.Errorf("cell %s: %w", CellKey(sc.Row+1, sc.Col+1), err)
		}
		if cell.IsZero() {
			continue
		}
		cells[CellKey(sc.Row+1, sc.Col+1)] = cell
	}

	s, err := New(append([]float64(nil), src.ColumnPixelSizes...), append([]float64(nil), src.RowPixelSizes...), merges, cells)
	if err != nil {
		return nil, err
	}
	s.SpreadsheetID = src.SpreadsheetID
	s.SheetID = src.SheetID
	s.SheetTitle = src.SheetTitle
	return s, nil
}

func normalizeCell(sc SourceCell) (Cell, error) {
	f := sc.Format
	c := Cell{
		Value:        sc.Value,
		FontFamily:   f.FontFamily,
		FontSize:     f.FontSize,
		Bold:         f.Bold,
		Italic:       f.Italic,
		HAlign:       normalizeHAlign(f.HorizontalAlignment),
		VAlign:       normalizeVAlign(f.VerticalAlignment),
		WrapStrategy: strings.ToLower(f.WrapStrategy),
	}
	var err error
	if c.FgColor, err = optionalColor(f.ForegroundColor); err != nil {
		return Cell{}, err
	}
	if c.BgColor, err = optionalColor(f.BackgroundColor); err != nil {
		return Cell{}, err
	}
	// White fill is the sheet default.
	if c.BgColor != nil && *c.BgColor == (Color{255, 255, 255}) {
		c.BgColor = nil
	}
	if f.Borders != nil {
		b := &Border{}
		if b.Top, err = normalizeSide(f.Borders.Top); err != nil {
			return Cell{}, err
		}
		if b.Bottom, err = normalizeSide(f.Borders.Bottom); err != nil {
			return Cell{}, err
		}
		if b.Left, err = normalizeSide(f.Borders.Left); err != nil {
			return Cell{}, err
		}
		if b.Right, err = normalizeSide(f.Borders.Right); err != nil {
			return Cell{}, err
		}
		if !b.IsZero() {
			c.Border = b
		}
	}
	return c, nil
}

func optionalColor(sc SourceColor) (*Color, error) {
	c, ok, err := sc.Normalize()
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

func normalizeSide(s *SourceBorderSide) (*BorderSide, error) {
	if s == nil {
		return nil, nil
	}
	style := strings.ToLower(s.Style)
	if style == "" || style == "none" {
		return nil, nil
	}
	col, err := optionalColor(s.Color)
	if err != nil {
		return nil, err
	}
	width := s.Width
	if width <= 0 {
		width = 1
	}
	return &BorderSide{Style: strings.TrimPrefix(style, "solid_"), Width: width, Color: col}, nil
}

// normalizeHAlign maps source alignment names to left|center|right.
func normalizeHAlign(s string) string {
	switch strings.ToLower(s) {
	case "center", "centercontinuous", "distributed":
		return "center"
	case "right":
		return "right"
	case "left", "general":
		return "left"
	case "justify":
		return "justify"
	}
	return ""
}

// normalizeVAlign maps source alignment names to top|middle|bottom.
func normalizeVAlign(s string) string {
	switch strings.ToLower(s) {
	case "top":
		return "top"
	case "middle", "center":
		return "middle"
	case "bottom":
		return "bottom"
	}
	return ""
}
