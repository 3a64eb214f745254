package layout

// Paginate splits items into pages using the default template metrics.
func Paginate(items []LineItem) Pagination {
	return NewCalculator(DefaultMetrics()).Paginate(items)
}

// pager accumulates items into the current page and emits breakpoints.
type pager struct {
	m       Metrics
	sp      spacingPx
	closing float64 // before-total spacing, totals box, after-total spacing, full footer

	out     []PageBreakpoint
	start   int     // first item index of the current page
	height  float64 // content height accumulated on the current page
	pageNum int
}

func (p *pager) openPage() {
	p.pageNum++
	if p.pageNum == 1 {
		p.height = p.m.HeaderFull + p.m.TableHeader + p.sp.pre
	} else {
		p.height = p.m.HeaderContinuation + p.m.TableHeader + p.sp.pre
	}
}

// emit closes the current page over items [p.start, end].
func (p *pager) emit(end int, height float64, totals, oversized bool) {
	b := PageBreakpoint{
		PageNumber:       p.pageNum,
		StartItemIndex:   p.start,
		EndItemIndex:     end,
		ItemCount:        end - p.start + 1,
		ContentHeight:    height,
		IncludesTotalBox: totals,
		Continuation:     p.pageNum > 1,
		Oversized:        oversized,
	}
	if b.ItemCount <= 0 {
		b.EndItemIndex = -1
		b.ItemCount = 0
	}
	p.out = append(p.out, b)
	p.start = end + 1
}

// Paginate greedily fills pages against the content-height budget.
//
// Spacing is resolved once from the equivalent item count of the whole list,
// so every page of an invoice shares one rhythm. Only the last item reserves
// room for the totals block. An item taller than an empty page is placed
// alone and may exceed the budget; notes are never truncated.
func (c Calculator) Paginate(items []LineItem) Pagination {
	m := c.Metrics
	heights := c.ItemHeights(items)
	equiv := EquivalentItemTotal(heights)
	profile := ResolveSpacing(equiv)

	p := &pager{m: m, sp: profile.px(m.SpacerRow)}
	p.closing = p.sp.beforeTotal + m.TotalBox + p.sp.afterTotal + m.FooterFull

	if len(items) == 0 {
		p.pageNum = 1
		p.emit(-1, m.HeaderFull+m.TableHeader+m.TotalBox+m.FooterFull, true, false)
		return Pagination{Breakpoints: p.out, Heights: heights, Spacing: profile}
	}

	last := len(items) - 1
	p.openPage()
	for i := 0; i <= last; {
		h := heights[i].TotalHeight
		placed := i - p.start

		between := 0.0
		if placed > 0 {
			between = p.sp.between
		}
		reserved := 0.0
		if i == last {
			reserved = p.closing
		}

		if p.height+between+h+reserved <= m.ContentHeight {
			p.height += between + h
			i++
			continue
		}

		if placed > 0 {
			// close without the candidate and retry it on a fresh page
			p.emit(i-1, p.height+m.FooterSimple, false, false)
			p.openPage()
			continue
		}

		// Oversized: the page is empty and the item still does not fit.
		p.height += h
		if i == last {
			p.emit(i, p.height+p.closing, true, true)
			return Pagination{Breakpoints: p.out, Heights: heights, Spacing: profile, EquivalentItems: equiv}
		}
		p.emit(i, p.height+m.FooterSimple, false, true)
		i++
		p.openPage()
	}

	p.emit(last, p.height+p.closing, true, false)
	return Pagination{Breakpoints: p.out, Heights: heights, Spacing: profile, EquivalentItems: equiv}
}
