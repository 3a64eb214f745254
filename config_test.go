package invoicelayout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerissecure/invoicelayout/layout"
	"github.com/aerissecure/invoicelayout/scheme"
)

const testConfigYAML = `
template:
  snapshot: template.json
  sheet: Invoice
  sections:
    headerFull: {first: 1, last: 2}
    headerContinuation: {first: 3, last: 3}
    tableHeader: {first: 4, last: 4}
    itemTitle: 5
    itemFeeType: 6
    itemNotes: 7
    spacer: 8
    totalBox: {first: 9, last: 9}
    footerFull: {first: 10, last: 10}
    footerSimple: {first: 11, last: 11}
metrics:
  notesCharsPerLine: 60
notes:
  wrap: words
terms:
  province: BW
  days: 10
format:
  locale: de-DE
  dateLayout: "02.01.2006"
smtp:
  host: smtp.example.com
  username: billing
email:
  from: billing@example.com
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "template.json", cfg.Template.Snapshot)
	assert.Equal(t, scheme.RowRange{First: 1, Last: 2}, cfg.Template.Sections.HeaderFull)
	assert.Equal(t, 8, cfg.Template.Sections.Spacer)
	assert.Equal(t, 60, cfg.Metrics.NotesCharsPerLine)
	assert.Equal(t, "words", cfg.Notes.Wrap)
	assert.Equal(t, TermsConfig{Province: "BW", Days: 10}, cfg.Terms)
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Host)

	// unset values keep their defaults
	assert.Equal(t, 1180.0, cfg.Metrics.ContentHeight)
	assert.Equal(t, 1.5, cfg.Metrics.NotesLineHeight)
	assert.Equal(t, "EUR", cfg.Format.Currency)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig([]byte("notes:\n  wrap: chars\n"))
	assert.ErrorIs(t, err, ErrNoTemplate)

	_, err = ParseConfig([]byte("template: {xlsx: t.xlsx}\nnotes: {wrap: hyphen}\n"))
	assert.ErrorContains(t, err, "notes.wrap")

	_, err = ParseConfig([]byte("template: {xlsx: t.xlsx}\nmetrics: {contentHeight: 0}\n"))
	assert.ErrorContains(t, err, "contentHeight")

	_, err = ParseConfig([]byte("template: [unclosed"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "de-DE", cfg.Format.Locale)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigCalculator(t *testing.T) {
	cfg, err := ParseConfig([]byte(testConfigYAML))
	require.NoError(t, err)

	calc, err := cfg.Calculator(testScheme(t))
	require.NoError(t, err)
	assert.Equal(t, layout.WordWrapMeasurer{CharsPerLine: 60}, calc.Measurer)
	assert.Equal(t, 476.0, calc.Metrics.HeaderFull)

	cfg.Notes.Wrap = "chars"
	calc, err = cfg.Calculator(testScheme(t))
	require.NoError(t, err)
	assert.Nil(t, calc.Measurer)

	cfg.Template.Sections.FooterSimple = scheme.RowRange{First: 40, Last: 40}
	_, err = cfg.Calculator(testScheme(t))
	assert.ErrorIs(t, err, layout.ErrMissingSection)
}
