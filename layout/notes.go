package layout

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/muesli/reflow/wordwrap"
)

// Measurer counts how many rendered lines a single paragraph (no newlines)
// occupies. Implementations must be pure and deterministic.
type Measurer interface {
	LineCount(paragraph string) int
}

// CharMeasurer approximates wrapping by character count: a paragraph of n
// runes takes ceil(n / CharsPerLine) lines.
type CharMeasurer struct {
	CharsPerLine int
}

func (m CharMeasurer) LineCount(paragraph string) int {
	n := utf8.RuneCountInString(paragraph)
	if n == 0 {
		return 1
	}
	per := max(m.CharsPerLine, 1)
	return max(1, (n+per-1)/per)
}

// WordWrapMeasurer wraps on word boundaries, so a long word is never split
// and lines may end short of the limit.
type WordWrapMeasurer struct {
	CharsPerLine int
}

func (m WordWrapMeasurer) LineCount(paragraph string) int {
	if paragraph == "" {
		return 1
	}
	wrapped := wordwrap.String(paragraph, max(m.CharsPerLine, 1))
	return strings.Count(wrapped, "\n") + 1
}

// NotesMetrics computes the wrapped line count and pixel height of notes.
func (c Calculator) NotesMetrics(notes string) NotesMetrics {
	trimmed := strings.TrimSpace(notes)
	if trimmed == "" {
		return NotesMetrics{}
	}
	trimmed = strings.ReplaceAll(trimmed, "\r\n", "\n")

	lines := 0
	for _, para := range strings.Split(trimmed, "\n") {
		if para == "" {
			// intentional blank line
			lines++
			continue
		}
		lines += max(1, c.measurer().LineCount(para))
	}

	m := c.Metrics
	raw := math.Ceil(float64(lines) * m.NotesFontSize * m.NotesLineHeight)
	return NotesMetrics{
		LineCount: lines,
		Height:    math.Max(m.NotesRow, raw),
		Overflow:  math.Max(0, raw-m.NotesRow),
		HasNotes:  true,
	}
}

func (c Calculator) measurer() Measurer {
	if c.Measurer != nil {
		return c.Measurer
	}
	return CharMeasurer{CharsPerLine: c.Metrics.NotesCharsPerLine}
}
