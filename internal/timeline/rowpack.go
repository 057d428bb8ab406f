package timeline

import "sort"

// packRows assigns each bar a display row such that no two bars sharing a row
// overlap horizontally. Greedy first-fit over bars sorted by startX: each row
// tracks its rightmost occupied endX and accepts the next bar whose start is
// at or past it. Equivalent to minimum-room interval scheduling, so the row
// count is minimal for the start order. Returns the number of rows used.
func packRows(bars []Bar) int {
	order := make([]int, len(bars))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if bars[order[a]].StartX != bars[order[b]].StartX {
			return bars[order[a]].StartX < bars[order[b]].StartX
		}
		// Stable tie-break on id keeps packing deterministic across renders.
		return bars[order[a]].TaskID < bars[order[b]].TaskID
	})

	var rowEnds []int // rightmost occupied endX per row
	for _, idx := range order {
		b := &bars[idx]
		placed := false
		for r, end := range rowEnds {
			if end <= b.StartX {
				b.Row = r
				rowEnds[r] = b.EndX
				placed = true
				break
			}
		}
		if !placed {
			b.Row = len(rowEnds)
			rowEnds = append(rowEnds, b.EndX)
		}
	}
	return len(rowEnds)
}
