package layout

// SpacingTableV1 is the whitespace rhythm of the golden template, indexed by
// equivalent item count 1..5; index 4 also covers every count above 5.
// These are designer values, not a formula. Changing them changes the
// rendered output of every invoice.
var SpacingTableV1 = [5]SpacingProfile{
	{PreItem: 3, BetweenItems: 0, BeforeTotal: 3, AfterTotal: 2},
	{PreItem: 2, BetweenItems: 2, BeforeTotal: 3, AfterTotal: 2},
	{PreItem: 1, BetweenItems: 2, BeforeTotal: 2, AfterTotal: 2},
	{PreItem: 1, BetweenItems: 1, BeforeTotal: 2, AfterTotal: 2},
	{PreItem: 1, BetweenItems: 1, BeforeTotal: 1, AfterTotal: 2},
}

// ResolveSpacing selects the spacing profile for a global equivalent item
// count. Counts below 1 use the single-item profile.
func ResolveSpacing(equivalentItemCount int) SpacingProfile {
	idx := min(max(equivalentItemCount, 1), len(SpacingTableV1)) - 1
	return SpacingTableV1[idx]
}

// EquivalentItemCount weights one item in item-sized units:
// ceil((title + fee type + notes rows) / 2), where an item with notes
// contributes at least one notes row.
func EquivalentItemCount(h ItemHeight) int {
	rows := 2
	if h.HasNotes {
		rows += max(1, h.NotesLineCount)
	}
	return (rows + 1) / 2
}

// EquivalentItemTotal sums EquivalentItemCount across items.
func EquivalentItemTotal(heights []ItemHeight) int {
	total := 0
	for _, h := range heights {
		total += EquivalentItemCount(h)
	}
	return total
}

// spacingPx is a SpacingProfile converted to pixels.
type spacingPx struct {
	pre, between, beforeTotal, afterTotal float64
}

func (p SpacingProfile) px(spacerRow float64) spacingPx {
	return spacingPx{
		pre:         float64(p.PreItem) * spacerRow,
		between:     float64(p.BetweenItems) * spacerRow,
		beforeTotal: float64(p.BeforeTotal) * spacerRow,
		afterTotal:  float64(p.AfterTotal) * spacerRow,
	}
}
