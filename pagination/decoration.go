package pagination

import "fmt"

// SideBefore places a decoration immediately before the content at its
// position, matching how the host renderer anchors widget decorations.
const SideBefore = -1

// Decoration is an immutable rendering instruction for one page-break
// spacer. Decorations are index-keyed so an unchanged break set maps to the
// exact same decorations and the host renderer leaves them untouched.
type Decoration struct {
	// Key is stable per break index: "spacer-1", "spacer-2", ...
	Key string
	// Pos is the document position the spacer renders before.
	Pos int
	// Height is the visual spacer height the decoration adds on screen.
	Height float64
	// Side anchors the decoration relative to Pos; always SideBefore.
	Side int
	// IgnoreSelection excludes the spacer from selection and hit-testing at
	// its exact boundary.
	IgnoreSelection bool
}

// MaterializeDecorations maps each accepted break position (1-based index i)
// to a spacer decoration keyed "spacer-i". Installing the result adds
// exactly spacerHeight of on-screen offset per break, the same quantity the
// coordinate translator subtracts back out on the next pass.
func MaterializeDecorations(breaks []int, spacerHeight float64) []Decoration {
	if len(breaks) == 0 {
		return nil
	}
	decos := make([]Decoration, len(breaks))
	for i, pos := range breaks {
		decos[i] = Decoration{
			Key:             fmt.Sprintf("spacer-%d", i+1),
			Pos:             pos,
			Height:          spacerHeight,
			Side:            SideBefore,
			IgnoreSelection: true,
		}
	}
	return decos
}
