package pagination

import "sort"

// Ledger is the sorted, deduplicated set of document positions that
// currently carry an installed spacer, plus the fixed height each spacer
// adds to the actual coordinate frame. The zero value is a valid empty
// ledger with zero spacer height.
//
// The ledger committed by one pagination pass is the input of the next:
// the coordinate translator uses it to subtract spacer offsets back out of
// actual on-screen coordinates.
type Ledger struct {
	positions    []int
	spacerHeight float64
}

// NewLedger builds a ledger from the given spacer positions. The input is
// copied, sorted and deduplicated; callers may pass positions in any order.
func NewLedger(spacerHeight float64, positions ...int) *Ledger {
	ps := append([]int(nil), positions...)
	sort.Ints(ps)
	ps = dedupSorted(ps)
	return &Ledger{positions: ps, spacerHeight: spacerHeight}
}

// Len returns the number of installed spacers.
func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.positions)
}

// SpacerHeight returns the visual height contributed by each spacer.
func (l *Ledger) SpacerHeight() float64 {
	if l == nil {
		return 0
	}
	return l.spacerHeight
}

// Positions returns a copy of the spacer positions in increasing order.
func (l *Ledger) Positions() []int {
	if l == nil || len(l.positions) == 0 {
		return nil
	}
	return append([]int(nil), l.positions...)
}

// CountAtOrBefore returns how many spacers sit at or before pos. Binary
// search over the sorted positions, O(log k) for k installed spacers.
func (l *Ledger) CountAtOrBefore(pos int) int {
	if l == nil {
		return 0
	}
	return sort.SearchInts(l.positions, pos+1)
}

// OffsetAt returns the total actual-frame offset accumulated by spacers at
// or before pos: count × spacer height.
func (l *Ledger) OffsetAt(pos int) float64 {
	return float64(l.CountAtOrBefore(pos)) * l.SpacerHeight()
}

func dedupSorted(ps []int) []int {
	if len(ps) < 2 {
		return ps
	}
	out := ps[:1]
	for _, p := range ps[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
