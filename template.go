package invoicelayout

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/aerissecure/invoicelayout/scheme"
)

// LoadTemplate returns the template scheme. A cached snapshot is preferred;
// otherwise the workbook is scanned and, when a snapshot path is configured,
// cached there for the next run.
func LoadTemplate(tc TemplateConfig, log zerolog.Logger) (*scheme.Scheme, error) {
	if tc.Snapshot != "" {
		s, err := scheme.LoadSnapshot(tc.Snapshot)
		switch {
		case err == nil:
			log.Debug().Str("snapshot", tc.Snapshot).Msg("loaded cached template")
			return s, nil
		case !errors.Is(err, fs.ErrNotExist) || tc.XLSX == "":
			return nil, err
		}
	}
	if tc.XLSX == "" {
		return nil, ErrNoTemplate
	}

	s, err := scheme.ScanXLSXFile(tc.XLSX, scheme.ScanOptions{Sheet: tc.Sheet, Logger: log})
	if err != nil {
		return nil, err
	}
	if tc.Snapshot != "" {
		if err := scheme.SaveSnapshot(tc.Snapshot, s); err != nil {
			return nil, fmt.Errorf("failed to cache template: %w", err)
		}
		log.Info().Str("snapshot", tc.Snapshot).Msg("cached scanned template")
	}
	return s, nil
}

