package invoicelayout

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aerissecure/invoicelayout/delivery"
	"github.com/aerissecure/invoicelayout/layout"
	"github.com/aerissecure/invoicelayout/scheme"
)

// TemplateConfig locates the golden template and its sections.
type TemplateConfig struct {
	Snapshot string          `yaml:"snapshot"` // cached scheme JSON
	XLSX     string          `yaml:"xlsx"`     // exported workbook, scanned when no snapshot exists
	Sheet    string          `yaml:"sheet"`
	Sections layout.Sections `yaml:"sections"`
}

// NotesConfig selects the notes wrapping approximation.
type NotesConfig struct {
	Wrap string `yaml:"wrap"` // "chars" (default) or "words"
}

// TermsConfig controls the due date printed on invoices.
type TermsConfig struct {
	Province string `yaml:"province"` // German state abbreviation, e.g. "BW"
	Days     int    `yaml:"days"`     // business days
}

// FormatConfig controls how amounts and dates are printed.
type FormatConfig struct {
	Locale     string `yaml:"locale"`   // BCP 47, e.g. "de-DE"
	Currency   string `yaml:"currency"` // ISO 4217, e.g. "EUR"
	DateLayout string `yaml:"dateLayout"`
}

type EmailConfig struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`     // overrides the client address when set
	Letter string `yaml:"letter"` // DOCX cover letter used as the message body
}

// Config is the complete configuration of a render run.
type Config struct {
	Template TemplateConfig      `yaml:"template"`
	Metrics  layout.Metrics      `yaml:"metrics"`
	Notes    NotesConfig         `yaml:"notes"`
	Terms    TermsConfig         `yaml:"terms"`
	Format   FormatConfig        `yaml:"format"`
	SMTP     delivery.SMTPConfig `yaml:"smtp"`
	Email    EmailConfig         `yaml:"email"`
}

var ErrNoTemplate = errors.New("config: template snapshot or xlsx is required")

// DefaultConfig returns the golden-template metrics and formatting defaults.
func DefaultConfig() Config {
	return Config{
		Metrics: layout.DefaultMetrics(),
		Notes:   NotesConfig{Wrap: "chars"},
		Terms:   TermsConfig{Days: 14},
		Format:  FormatConfig{Locale: "en-US", Currency: "EUR", DateLayout: "2006-01-02"},
		SMTP:    delivery.SMTPConfig{Port: 587},
	}
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields a render run cannot do without.
func (c *Config) Validate() error {
	if c.Template.Snapshot == "" && c.Template.XLSX == "" {
		return ErrNoTemplate
	}
	if c.Metrics.ContentHeight <= 0 {
		return fmt.Errorf("config: metrics.contentHeight must be positive, got %v", c.Metrics.ContentHeight)
	}
	switch c.Notes.Wrap {
	case "", "chars", "words":
	default:
		return fmt.Errorf("config: notes.wrap must be chars or words, got %q", c.Notes.Wrap)
	}
	return nil
}

// Calculator builds the layout calculator for a scheme: section heights are
// measured from the scheme, everything else comes from the config.
func (c *Config) Calculator(s *scheme.Scheme) (layout.Calculator, error) {
	m, err := layout.MetricsFromScheme(s, c.Template.Sections, c.Metrics)
	if err != nil {
		return layout.Calculator{}, err
	}
	var opts []layout.Option
	if c.Notes.Wrap == "words" {
		opts = append(opts, layout.WithMeasurer(layout.WordWrapMeasurer{CharsPerLine: m.NotesCharsPerLine}))
	}
	return layout.NewCalculator(m, opts...), nil
}
