package pagination

import "sort"

// breakGuard keeps content whose height lands exactly on a page boundary
// from producing a spurious trailing break.
const breakGuard = 1.0

// Engine computes page-break positions for a fixed page geometry. It holds
// no mutable state; ComputeBreakPositions is a pure function of its inputs.
type Engine struct {
	Geometry Geometry
}

// NewEngine returns an engine for the given page geometry.
func NewEngine(geo Geometry) Engine {
	return Engine{Geometry: geo}
}

// ComputeBreakPositions returns the strictly increasing positions at which
// page boundaries fall, measured in the content-only frame derived from the
// provider's actual coordinates and the currently installed ledger.
//
// Calling it again with the same provider state and the ledger built from
// its own result yields the identical slice; that fixed point is what lets
// the scheduler recognize convergence instead of re-breaking forever.
func (e Engine) ComputeBreakPositions(provider CoordinateProvider, ledger *Ledger) []int {
	size := provider.DocSize()
	if size <= 0 {
		return nil
	}
	t := translator{provider: provider, ledger: ledger}

	total, err := t.BottomAt(size)
	if err != nil {
		return nil
	}
	effective := e.Geometry.EffectivePageHeight()
	if effective <= 0 || total <= effective {
		// Shorter than one page: the common steady state, no search needed.
		return nil
	}

	n := int((total - breakGuard) / effective)
	breaks := make([]int, 0, n)
	lo := 0
	last := 0
	for i := 1; i <= n; i++ {
		target := float64(i) * effective
		pos, err := findBreak(t, target, lo, size)
		if err != nil {
			break
		}
		// A candidate at the document edges or out of order signals layout
		// instability. Keep the valid prefix and abandon the rest of the
		// pass; a non-increasing sequence must never reach the ledger.
		if pos <= 0 || pos >= size {
			break
		}
		if len(breaks) > 0 && pos <= last {
			break
		}
		breaks = append(breaks, pos)
		last = pos
		lo = pos + 1
	}
	return normalizeBreaks(breaks)
}

// findBreak returns the smallest position in [lo, hi) whose content-only top
// reaches target. Ties resolve to the smallest qualifying position: the
// break lands at or before the threshold crossing, never after, so no
// content bleeds past the page boundary.
func findBreak(t translator, target float64, lo, hi int) (int, error) {
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		top, err := t.TopAt(mid)
		if err != nil {
			return 0, err
		}
		if top >= target {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo, nil
}

// normalizeBreaks re-sorts and deduplicates defensively; by construction the
// input is already strictly increasing.
func normalizeBreaks(breaks []int) []int {
	if len(breaks) == 0 {
		return nil
	}
	sort.Ints(breaks)
	return dedupSorted(breaks)
}
