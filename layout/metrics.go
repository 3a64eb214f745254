package layout

import (
	"errors"
	"fmt"

	"github.com/aerissecure/invoicelayout/scheme"
)

// Metrics are the template constants the engine treats as fixed. All
// values are pixels except the notes font parameters.
type Metrics struct {
	HeaderFull         float64 `yaml:"headerFull" json:"headerFull"`
	HeaderContinuation float64 `yaml:"headerContinuation" json:"headerContinuation"`
	TableHeader        float64 `yaml:"tableHeader" json:"tableHeader"`
	TotalBox           float64 `yaml:"totalBox" json:"totalBox"`
	FooterFull         float64 `yaml:"footerFull" json:"footerFull"`
	FooterSimple       float64 `yaml:"footerSimple" json:"footerSimple"`
	ContentHeight      float64 `yaml:"contentHeight" json:"contentHeight"`
	TitleRow           float64 `yaml:"titleRow" json:"titleRow"`
	FeeTypeRow         float64 `yaml:"feeTypeRow" json:"feeTypeRow"`
	SpacerRow          float64 `yaml:"spacerRow" json:"spacerRow"`

	NotesFontSize     float64 `yaml:"notesFontSize" json:"notesFontSize"`         // px
	NotesLineHeight   float64 `yaml:"notesLineHeight" json:"notesLineHeight"`     // multiplier of the font size
	NotesRow          float64 `yaml:"notesRow" json:"notesRow"`                   // reserved one-line notes row
	NotesCharsPerLine int     `yaml:"notesCharsPerLine" json:"notesCharsPerLine"` // wrap budget
}

// DefaultMetrics returns the constants of the golden invoice template.
func DefaultMetrics() Metrics {
	return Metrics{
		HeaderFull:         476,
		HeaderContinuation: 210,
		TableHeader:        25,
		TotalBox:           78,
		FooterFull:         195,
		FooterSimple:       81,
		ContentHeight:      1180,
		TitleRow:           35,
		FeeTypeRow:         24,
		SpacerRow:          21,

		NotesFontSize:     11,
		NotesLineHeight:   1.5,
		NotesRow:          21,
		NotesCharsPerLine: 80,
	}
}

// Sections locates the fixed template regions inside a Scheme. Item and
// spacer entries are single template rows.
type Sections struct {
	HeaderFull         scheme.RowRange `yaml:"headerFull" json:"headerFull"`
	HeaderContinuation scheme.RowRange `yaml:"headerContinuation" json:"headerContinuation"`
	TableHeader        scheme.RowRange `yaml:"tableHeader" json:"tableHeader"`
	ItemTitle          int             `yaml:"itemTitle" json:"itemTitle"`
	ItemFeeType        int             `yaml:"itemFeeType" json:"itemFeeType"`
	ItemNotes          int             `yaml:"itemNotes" json:"itemNotes"`
	Spacer             int             `yaml:"spacer" json:"spacer"`
	TotalBox           scheme.RowRange `yaml:"totalBox" json:"totalBox"`
	FooterFull         scheme.RowRange `yaml:"footerFull" json:"footerFull"`
	FooterSimple       scheme.RowRange `yaml:"footerSimple" json:"footerSimple"`
}

// ErrMissingSection reports a section that is empty or lies outside the scheme.
var ErrMissingSection = errors.New("layout: template section missing")

// Validate checks every section against the scheme's row count.
func (sec Sections) Validate(s *scheme.Scheme) error {
	ranges := []struct {
		name string
		r    scheme.RowRange
	}{
		{"headerFull", sec.HeaderFull},
		{"headerContinuation", sec.HeaderContinuation},
		{"tableHeader", sec.TableHeader},
		{"itemTitle", single(sec.ItemTitle)},
		{"itemFeeType", single(sec.ItemFeeType)},
		{"itemNotes", single(sec.ItemNotes)},
		{"spacer", single(sec.Spacer)},
		{"totalBox", sec.TotalBox},
		{"footerFull", sec.FooterFull},
		{"footerSimple", sec.FooterSimple},
	}
	for _, r := range ranges {
		if r.r.Len() == 0 || r.r.First < 1 || r.r.Last > s.RowCount() {
			return fmt.Errorf("%w: %s rows %s (template has %d rows)", ErrMissingSection, r.name, r.r, s.RowCount())
		}
	}
	return nil
}

func single(row int) scheme.RowRange { return scheme.RowRange{First: row, Last: row} }

// MetricsFromScheme replaces the section heights of base with the heights
// measured from the scheme. ContentHeight and the notes font parameters are
// kept from base.
func MetricsFromScheme(s *scheme.Scheme, sec Sections, base Metrics) (Metrics, error) {
	if err := sec.Validate(s); err != nil {
		return Metrics{}, err
	}
	m := base
	m.HeaderFull = s.SectionHeight(sec.HeaderFull)
	m.HeaderContinuation = s.SectionHeight(sec.HeaderContinuation)
	m.TableHeader = s.SectionHeight(sec.TableHeader)
	m.TotalBox = s.SectionHeight(sec.TotalBox)
	m.FooterFull = s.SectionHeight(sec.FooterFull)
	m.FooterSimple = s.SectionHeight(sec.FooterSimple)
	m.TitleRow = s.RowHeight(sec.ItemTitle)
	m.FeeTypeRow = s.RowHeight(sec.ItemFeeType)
	m.NotesRow = s.RowHeight(sec.ItemNotes)
	m.SpacerRow = s.RowHeight(sec.Spacer)
	return m, nil
}
