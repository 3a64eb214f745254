package scheme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScheme(t *testing.T) *Scheme {
	t.Helper()
	s, err := New(
		[]float64{40, 120, 80, 80},
		[]float64{30, 21, 21, 35, 24, 21},
		[]MergeRegion{{R1: 1, C1: 1, R2: 1, C2: 4}, {R1: 4, C1: 2, R2: 5, C2: 3}},
		map[string]Cell{
			"1:1": {Value: "INVOICE", Bold: true, FontSize: 18},
			"4:2": {Value: "{{item.title}}"},
			"6:4": {Value: "{{total}}", HAlign: "right"},
		},
	)
	require.NoError(t, err)
	return s
}

func TestCellAt(t *testing.T) {
	s := testScheme(t)

	tests := []struct {
		name     string
		row, col int
		want     string
		ok       bool
	}{
		{"present", 1, 1, "INVOICE", true},
		{"sparse blank", 2, 2, "", false},
		{"row zero", 0, 1, "", false},
		{"col zero", 1, 0, "", false},
		{"beyond rows", 7, 1, "", false},
		{"beyond cols", 1, 5, "", false},
		{"negative", -3, -3, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := s.CellAt(tt.row, tt.col)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, c.Value)
		})
	}
}

func TestMergeContaining(t *testing.T) {
	s := testScheme(t)

	m, ok := s.MergeContaining(1, 3)
	require.True(t, ok)
	assert.Equal(t, MergeRegion{R1: 1, C1: 1, R2: 1, C2: 4}, m)
	assert.Equal(t, 4, m.ColSpan())

	m, ok = s.MergeContaining(5, 3)
	require.True(t, ok)
	assert.Equal(t, 2, m.RowSpan())

	_, ok = s.MergeContaining(2, 1)
	assert.False(t, ok)
	_, ok = s.MergeContaining(99, 1)
	assert.False(t, ok)

	assert.True(t, s.IsMergeMaster(4, 2))
	assert.False(t, s.IsMergeMaster(5, 3))
	assert.True(t, s.IsCovered(5, 3))
	assert.False(t, s.IsCovered(4, 2))
	assert.False(t, s.IsCovered(2, 2))
}

func TestSectionHeight(t *testing.T) {
	s := testScheme(t)

	assert.Equal(t, 72.0, s.SectionHeight(RowRange{First: 1, Last: 3}))
	assert.Equal(t, 35.0, s.SectionHeight(RowRange{First: 4, Last: 4}))
	assert.Equal(t, 0.0, s.SectionHeight(RowRange{First: 3, Last: 2}))
	// rows past the end add nothing
	assert.Equal(t, 45.0, s.SectionHeight(RowRange{First: 5, Last: 9}))
	assert.Equal(t, 320.0, s.TotalWidth())
	assert.Equal(t, 200.0, s.SpanWidth(MergeRegion{R1: 4, C1: 2, R2: 5, C2: 3}))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		merges []MergeRegion
		cells  map[string]Cell
		err    error
	}{
		{"overlap", []MergeRegion{{1, 1, 2, 2}, {2, 2, 3, 3}}, nil, ErrOverlappingMerge},
		{"inverted", []MergeRegion{{2, 2, 1, 1}}, nil, ErrInvalidMerge},
		{"outside grid", []MergeRegion{{1, 1, 1, 9}}, nil, ErrInvalidMerge},
		{"bad key", nil, map[string]Cell{"A1": {Value: "x"}}, ErrInvalidCellKey},
		{"adjacent ok", []MergeRegion{{1, 1, 1, 2}, {1, 3, 1, 4}}, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]float64{10, 10, 10, 10}, []float64{10, 10, 10}, tt.merges, tt.cells)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := New(nil, []float64{10}, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyGeometry)
}

func TestCellKey(t *testing.T) {
	assert.Equal(t, "12:3", CellKey(12, 3))

	row, col, err := ParseCellKey("12:3")
	require.NoError(t, err)
	assert.Equal(t, 12, row)
	assert.Equal(t, 3, col)

	_, _, err = ParseCellKey("0:3")
	assert.ErrorIs(t, err, ErrInvalidCellKey)
	_, _, err = ParseCellKey("B4")
	assert.ErrorIs(t, err, ErrInvalidCellKey)
}

func TestCellIsZero(t *testing.T) {
	assert.True(t, Cell{}.IsZero())
	assert.True(t, Cell{Border: &Border{}}.IsZero())
	assert.False(t, Cell{Bold: true}.IsZero())
	assert.False(t, Cell{BgColor: &Color{}}.IsZero())
}
