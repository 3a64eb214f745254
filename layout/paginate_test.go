package layout

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shortItems(n int) []LineItem {
	items := make([]LineItem, n)
	for i := range items {
		items[i] = LineItem{Title: fmt.Sprintf("Item %d", i+1), FeeType: "Fixed", UnitPrice: 100, Quantity: 1}
	}
	return items
}

// hugeNotes is 100 explicit lines: 1650px of notes, taller than any page.
var hugeNotes = strings.TrimSuffix(strings.Repeat("line\n", 100), "\n")

type page struct {
	start, end int
	height     float64
	totals     bool
}

func pagesOf(p Pagination) []page {
	out := make([]page, len(p.Breakpoints))
	for i, b := range p.Breakpoints {
		out[i] = page{b.StartItemIndex, b.EndItemIndex, b.ContentHeight, b.IncludesTotalBox}
	}
	return out
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate(nil)

	require.Len(t, p.Breakpoints, 1)
	b := p.Breakpoints[0]
	assert.Equal(t, 1, b.PageNumber)
	assert.Equal(t, 0, b.ItemCount)
	assert.Equal(t, -1, b.EndItemIndex)
	assert.True(t, b.IncludesTotalBox)
	assert.False(t, b.Continuation)
	assert.Equal(t, 476.0+25+78+195, b.ContentHeight)
	assert.NoError(t, p.Validate(0))
}

// Literal totals for short items pin the spacing table rows to the output.
func TestPaginateSpacingRegression(t *testing.T) {
	tests := []struct {
		items   int
		spacing SpacingProfile
		pages   []page
	}{
		{1, SpacingProfile{3, 0, 3, 2}, []page{{0, 0, 1001, true}}},
		{2, SpacingProfile{2, 2, 3, 2}, []page{{0, 1, 1081, true}}},
		{3, SpacingProfile{1, 2, 2, 2}, []page{{0, 2, 1140, true}}},
		{4, SpacingProfile{1, 1, 2, 2}, []page{{0, 3, 1178, true}}},
		{5, SpacingProfile{1, 1, 1, 2}, []page{{0, 3, 902, false}, {4, 4, 651, true}}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d items", tt.items), func(t *testing.T) {
			p := Paginate(shortItems(tt.items))
			assert.Equal(t, tt.items, p.EquivalentItems)
			assert.Equal(t, tt.spacing, p.Spacing)
			assert.Equal(t, tt.pages, pagesOf(p))
			assert.NoError(t, p.Validate(tt.items))
		})
	}
}

func TestPaginateSixShortItems(t *testing.T) {
	m := DefaultMetrics()
	p := Paginate(shortItems(6))
	require.NoError(t, p.Validate(6))
	require.Len(t, p.Breakpoints, 2)

	// Reproduce the split point from the constants: with six items the
	// spacing is pre=1 between=1 beforeTotal=1 afterTotal=2.
	item := m.TitleRow + m.FeeTypeRow
	closing := 1*m.SpacerRow + m.TotalBox + 2*m.SpacerRow + m.FooterFull
	height := m.HeaderFull + m.TableHeader + 1*m.SpacerRow
	fit := 0
	for k := 0; k < 6; k++ {
		between := 0.0
		if k > 0 {
			between = m.SpacerRow
		}
		reserved := 0.0
		if k == 5 {
			reserved = closing
		}
		if height+between+item+reserved > m.ContentHeight {
			break
		}
		height += between + item
		fit++
	}
	assert.Equal(t, 5, fit)

	first, second := p.Breakpoints[0], p.Breakpoints[1]
	assert.Equal(t, fit, first.ItemCount)
	assert.Equal(t, height+m.FooterSimple, first.ContentHeight)
	assert.False(t, first.IncludesTotalBox)
	assert.False(t, first.Continuation)

	assert.Equal(t, 5, second.StartItemIndex)
	assert.Equal(t, 1, second.ItemCount)
	assert.True(t, second.Continuation)
	assert.Equal(t, m.HeaderContinuation+m.TableHeader+m.SpacerRow+item+closing, second.ContentHeight)
}

func TestPaginateOversized(t *testing.T) {
	big := LineItem{Title: "Audit", FeeType: "Fixed", UnitPrice: 1, Quantity: 1, Notes: hugeNotes}
	short := shortItems(1)[0]

	t.Run("middle", func(t *testing.T) {
		p := Paginate([]LineItem{short, big, short})
		require.NoError(t, p.Validate(3))
		assert.Equal(t, []page{
			{0, 0, 662, false},
			{1, 1, 2046, false},
			{2, 2, 651, true},
		}, pagesOf(p))
		assert.True(t, p.Breakpoints[1].Oversized)
		assert.Equal(t, 1, p.Breakpoints[1].ItemCount)
		assert.False(t, p.Breakpoints[2].Oversized)
	})

	t.Run("last", func(t *testing.T) {
		p := Paginate([]LineItem{short, big})
		require.NoError(t, p.Validate(2))
		assert.Equal(t, []page{
			{0, 0, 662, false},
			{1, 1, 2301, true},
		}, pagesOf(p))
	})

	t.Run("alone", func(t *testing.T) {
		p := Paginate([]LineItem{big})
		require.NoError(t, p.Validate(1))
		require.Len(t, p.Breakpoints, 1)
		assert.Equal(t, 1, p.Breakpoints[0].ItemCount)
		assert.True(t, p.Breakpoints[0].IncludesTotalBox)
		assert.Greater(t, p.Breakpoints[0].ContentHeight, DefaultMetrics().ContentHeight)
	})

	t.Run("consecutive", func(t *testing.T) {
		p := Paginate([]LineItem{big, big, big})
		require.NoError(t, p.Validate(3))
		assert.Len(t, p.Breakpoints, 3)
		for _, b := range p.Breakpoints {
			assert.Equal(t, 1, b.ItemCount)
			assert.True(t, b.Oversized)
		}
	})
}

func TestPaginatePartition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	words := strings.Fields("hours travel licence review meeting workshop on-site remote support analysis")

	for run := 0; run < 300; run++ {
		n := rng.Intn(40)
		items := make([]LineItem, n)
		for i := range items {
			var notes []string
			for j := rng.Intn(4) * rng.Intn(60); j > 0; j-- {
				w := words[rng.Intn(len(words))]
				if rng.Intn(12) == 0 {
					w += "\n"
				}
				notes = append(notes, w)
			}
			items[i] = LineItem{Title: "x", Quantity: 1, Notes: strings.Join(notes, " ")}
		}

		p := Paginate(items)
		require.NoError(t, p.Validate(n), "run %d with %d items", run, n)
		totals := 0
		for _, b := range p.Breakpoints {
			if b.IncludesTotalBox {
				totals++
			}
			switch {
			case b.Oversized:
			case b.IncludesTotalBox:
				assert.LessOrEqual(t, b.ContentHeight, DefaultMetrics().ContentHeight, "run %d %s", run, b)
			default:
				// the simple footer is added after the budget check
				assert.LessOrEqual(t, b.ContentHeight, DefaultMetrics().ContentHeight+DefaultMetrics().FooterSimple, "run %d %s", run, b)
			}
		}
		assert.Equal(t, 1, totals)
	}
}

func TestPaginateConcurrent(t *testing.T) {
	c := NewCalculator(DefaultMetrics())
	items := shortItems(23)
	want := c.Paginate(items)

	var wg sync.WaitGroup
	results := make([]Pagination, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Paginate(items)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestResolveSpacing(t *testing.T) {
	tests := []struct {
		count int
		want  SpacingProfile
	}{
		{0, SpacingProfile{3, 0, 3, 2}},
		{1, SpacingProfile{3, 0, 3, 2}},
		{2, SpacingProfile{2, 2, 3, 2}},
		{3, SpacingProfile{1, 2, 2, 2}},
		{4, SpacingProfile{1, 1, 2, 2}},
		{5, SpacingProfile{1, 1, 1, 2}},
		{50, SpacingProfile{1, 1, 1, 2}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveSpacing(tt.count), "count %d", tt.count)
	}
}

func TestEquivalentItemCount(t *testing.T) {
	assert.Equal(t, 1, EquivalentItemCount(ItemHeight{}))
	assert.Equal(t, 2, EquivalentItemCount(ItemHeight{HasNotes: true, NotesLineCount: 1}))
	assert.Equal(t, 2, EquivalentItemCount(ItemHeight{HasNotes: true, NotesLineCount: 2}))
	assert.Equal(t, 3, EquivalentItemCount(ItemHeight{HasNotes: true, NotesLineCount: 3}))

	c := NewCalculator(DefaultMetrics())
	heights := c.ItemHeights([]LineItem{{Notes: "a"}, {}, {Notes: "a\nb\nc\nd"}})
	assert.Equal(t, 2+1+3, EquivalentItemTotal(heights))
}

func TestValidateDetectsBrokenPartition(t *testing.T) {
	p := Paginate(shortItems(5))
	assert.ErrorIs(t, p.Validate(6), ErrBrokenPartition)

	p.Breakpoints[0].IncludesTotalBox = true
	assert.ErrorIs(t, p.Validate(5), ErrBrokenPartition)

	assert.ErrorIs(t, Pagination{}.Validate(0), ErrBrokenPartition)
}
