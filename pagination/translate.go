package pagination

import "fmt"

// Coords is the actual on-screen vertical extent of the content at one
// document position, as reported by the host layout engine.
type Coords struct {
	Top    float64
	Bottom float64
}

// CoordinateProvider is the host-side position→coordinate lookup. Lookups
// are fallible (layout may not have settled, the offset may be invalid) and
// must be monotonic non-decreasing in position for well-formed content; the
// binary search in this package relies on that and does not verify it.
type CoordinateProvider interface {
	// CoordsAt returns the actual top/bottom Y of the content at pos.
	CoordsAt(pos int) (Coords, error)
	// DocSize returns the exclusive upper bound of valid positions.
	DocSize() int
}

// coordFallbackRange bounds how far the translator walks to substitute an
// adjacent measurable position when a lookup fails.
const coordFallbackRange = 8

// translator converts actual coordinates into the content-only frame: the Y
// a position would have if no spacers were installed. It subtracts the known
// contribution of every spacer at or before the queried position, so that a
// pass never measures its own previous output. This is the anti-drift core
// of the whole engine.
type translator struct {
	provider CoordinateProvider
	ledger   *Ledger
}

// TopAt returns the content-only top coordinate of the line starting at pos.
func (t translator) TopAt(pos int) (float64, error) {
	c, err := t.coordsNear(pos)
	if err != nil {
		return 0, err
	}
	return c.Top - t.ledger.OffsetAt(pos), nil
}

// BottomAt returns the content-only bottom coordinate at pos. Used once per
// pass, to measure the total content-only document height.
func (t translator) BottomAt(pos int) (float64, error) {
	c, err := t.coordsNear(pos)
	if err != nil {
		return 0, err
	}
	return c.Bottom - t.ledger.OffsetAt(pos), nil
}

// coordsNear looks up pos and, on failure, substitutes the nearest adjacent
// position that measures cleanly. Only when no position within the fallback
// range measures does the error surface to the caller.
func (t translator) coordsNear(pos int) (Coords, error) {
	c, err := t.provider.CoordsAt(pos)
	if err == nil {
		return c, nil
	}
	size := t.provider.DocSize()
	for step := 1; step <= coordFallbackRange; step++ {
		if p := pos - step; p >= 0 {
			if c, e := t.provider.CoordsAt(p); e == nil {
				return c, nil
			}
		}
		if p := pos + step; p <= size {
			if c, e := t.provider.CoordsAt(p); e == nil {
				return c, nil
			}
		}
	}
	return Coords{}, fmt.Errorf("no measurable position near %d: %w", pos, err)
}
