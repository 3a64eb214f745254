package scheme

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unidoc/unioffice/spreadsheet"
)

func TestScanWorkbook(t *testing.T) {
	wb := spreadsheet.New()
	sheet := wb.AddSheet()
	sheet.SetName("Golden")
	sheet.Cell("A1").SetString("INVOICE")
	sheet.Cell("D1").SetString("hidden behind merge")
	sheet.Cell("B3").SetString("{{item.title}}")
	sheet.AddMergedCells("A1", "D1")

	row := sheet.Row(2)
	ht, custom := 30.0, true
	row.X().HtAttr = &ht
	row.X().CustomHeightAttr = &custom

	scannedAt := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	s, err := scanWorkbook(wb, ScanOptions{
		Sheet:         "Golden",
		SpreadsheetID: "golden.xlsx",
		Now:           func() time.Time { return scannedAt },
	})
	require.NoError(t, err)

	assert.Equal(t, "Golden", s.SheetTitle)
	assert.Equal(t, "golden.xlsx", s.SpreadsheetID)
	assert.Equal(t, scannedAt, s.ScannedAt)
	assert.Equal(t, 3, s.RowCount())
	assert.Equal(t, 4, s.ColumnCount())
	assert.InDelta(t, 40.0, s.RowHeight(2), 0.001)
	assert.InDelta(t, 20.0, s.RowHeight(1), 0.001)

	m, ok := s.MergeContaining(1, 2)
	require.True(t, ok)
	assert.Equal(t, MergeRegion{R1: 1, C1: 1, R2: 1, C2: 4}, m)

	c, ok := s.CellAt(1, 1)
	require.True(t, ok)
	assert.Equal(t, "INVOICE", c.Value)
	_, ok = s.CellAt(1, 4)
	assert.False(t, ok, "covered cells are not stored")

	c, ok = s.CellAt(3, 2)
	require.True(t, ok)
	assert.Equal(t, "{{item.title}}", c.Value)
}

func TestScanWorkbookMissingSheet(t *testing.T) {
	wb := spreadsheet.New()
	wb.AddSheet().Cell("A1").SetString("x")

	_, err := scanWorkbook(wb, ScanOptions{Sheet: "nope"})
	assert.Error(t, err)
}
