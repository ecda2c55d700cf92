package pagination

// Geometry fixes the vertical page metrics for one paginated view.
// All values are device units (px) in the content-only frame.
type Geometry struct {
	// PageHeight is the nominal usable content height of one page.
	PageHeight float64
	// SpacerHeight is the nominal height of the visual gap drawn between pages.
	SpacerHeight float64
	// LineBuffer reserves one line height at the bottom of each page so the
	// last line of a page never visually crosses into the footer zone.
	LineBuffer float64
}

// DefaultGeometry matches a US-Letter-like editing surface at 96 dpi.
var DefaultGeometry = Geometry{
	PageHeight:   960,
	SpacerHeight: 160,
	LineBuffer:   28,
}

// EffectivePageHeight is the per-page threshold used by the break set
// builder: nominal height minus the safety buffer.
func (g Geometry) EffectivePageHeight() float64 {
	return g.PageHeight - g.LineBuffer
}

// VisualSpacerHeight is the exact amount an installed spacer pushes all
// subsequent content down: nominal spacer height plus the safety buffer.
// The coordinate translator subtracts this same quantity per spacer, so the
// two must never be computed independently of each other.
func (g Geometry) VisualSpacerHeight() float64 {
	return g.SpacerHeight + g.LineBuffer
}
