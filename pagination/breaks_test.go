package pagination

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// uniformDoc is a coordinate provider over a document of equal-height lines,
// each spanning lineLen positions. Installed decorations offset the actual
// coordinates the same way the host renderer would.
type uniformDoc struct {
	lines      int
	lineLen    int
	lineHeight float64
	installed  *Ledger      // spacers currently on screen
	failAt     map[int]bool // positions whose lookup fails
}

func (d *uniformDoc) DocSize() int { return d.lines * d.lineLen }

func (d *uniformDoc) CoordsAt(pos int) (Coords, error) {
	if pos < 0 || pos > d.DocSize() {
		return Coords{}, fmt.Errorf("position %d out of range", pos)
	}
	if d.failAt[pos] {
		return Coords{}, errors.New("layout not settled")
	}
	line := pos / d.lineLen
	if line >= d.lines {
		line = d.lines - 1
	}
	top := float64(line) * d.lineHeight
	return Coords{
		Top:    top + d.installed.OffsetAt(pos),
		Bottom: top + d.lineHeight + d.installed.OffsetAt(pos),
	}, nil
}

// geo900 yields EffectivePageHeight 900 and VisualSpacerHeight 188, the
// values used throughout the worked examples.
var geo900 = Geometry{PageHeight: 928, SpacerHeight: 160, LineBuffer: 28}

func TestGeometryDerivedHeights(t *testing.T) {
	if got := geo900.EffectivePageHeight(); got != 900 {
		t.Fatalf("EffectivePageHeight: got=%g want=900", got)
	}
	if got := geo900.VisualSpacerHeight(); got != 188 {
		t.Fatalf("VisualSpacerHeight: got=%g want=188", got)
	}
}

// Ten uniform 100px lines, no spacers: content bottom is 1000, so exactly
// one break, at the start of the tenth line.
func TestConcreteScenarioTenLines(t *testing.T) {
	doc := &uniformDoc{lines: 10, lineLen: 10, lineHeight: 100}
	eng := NewEngine(geo900)

	breaks := eng.ComputeBreakPositions(doc, NewLedger(geo900.VisualSpacerHeight()))
	want := []int{90} // 0-indexed line 9 starts at position 90, content-only top 900
	if diff := cmp.Diff(want, breaks); diff != "" {
		t.Fatalf("break positions mismatch (-want +got):\n%s", diff)
	}
}

func TestShortDocumentNoBreaks(t *testing.T) {
	doc := &uniformDoc{lines: 5, lineLen: 10, lineHeight: 100}
	eng := NewEngine(geo900)
	if got := eng.ComputeBreakPositions(doc, nil); got != nil {
		t.Fatalf("short document should yield no breaks, got %v", got)
	}
}

func TestEmptyDocument(t *testing.T) {
	doc := &uniformDoc{lines: 0, lineLen: 10, lineHeight: 100}
	eng := NewEngine(geo900)
	if got := eng.ComputeBreakPositions(doc, nil); got != nil {
		t.Fatalf("empty document should yield no breaks, got %v", got)
	}
}

// Content of height k*E + r with 0 < r < E yields exactly k breaks, and an
// exact multiple of E yields k-1 thanks to the boundary guard.
func TestExactBreakCount(t *testing.T) {
	cases := []struct {
		lines int // 50px lines
		want  int
	}{
		{19, 1}, // 950 = 1*900 + 50
		{37, 2}, // 1850 = 2*900 + 50
		{55, 3}, // 2750 = 3*900 + 50
		{54, 2}, // 2700 lands exactly on a boundary: no spurious third break
		{18, 0}, // 900 exactly: one page, no break
	}
	eng := NewEngine(geo900)
	for _, c := range cases {
		doc := &uniformDoc{lines: c.lines, lineLen: 5, lineHeight: 50}
		got := eng.ComputeBreakPositions(doc, nil)
		if len(got) != c.want {
			t.Fatalf("%d lines: got %d breaks (%v), want %d", c.lines, len(got), got, c.want)
		}
	}
}

func TestStrictOrderingInsideDocument(t *testing.T) {
	doc := &uniformDoc{lines: 100, lineLen: 7, lineHeight: 60} // 6000px tall
	eng := NewEngine(geo900)
	breaks := eng.ComputeBreakPositions(doc, nil)
	if len(breaks) == 0 {
		t.Fatalf("expected breaks for a 6000px document")
	}
	prev := 0
	for i, b := range breaks {
		if b <= 0 || b >= doc.DocSize() {
			t.Fatalf("break %d=%d outside (0,%d)", i, b, doc.DocSize())
		}
		if i > 0 && b <= prev {
			t.Fatalf("break set not strictly increasing: %v", breaks)
		}
		prev = b
	}
}

// Translated tops must be non-decreasing in position for a fixed ledger,
// even with spacers installed on screen.
func TestTranslatorMonotonicity(t *testing.T) {
	ledger := NewLedger(geo900.VisualSpacerHeight(), 90, 180)
	doc := &uniformDoc{lines: 30, lineLen: 10, lineHeight: 100, installed: ledger}
	tr := translator{provider: doc, ledger: ledger}

	prev := -1.0
	for pos := 0; pos <= doc.DocSize(); pos++ {
		top, err := tr.TopAt(pos)
		if err != nil {
			t.Fatalf("TopAt(%d): %v", pos, err)
		}
		if top < prev {
			t.Fatalf("content-only top decreased at %d: %g < %g", pos, top, prev)
		}
		prev = top
	}
}

// The core anti-feedback-loop guarantee: recomputing after the first pass's
// spacers are installed (and fed back as the ledger) yields the identical
// break set.
func TestIdempotenceAcrossCommit(t *testing.T) {
	doc := &uniformDoc{lines: 30, lineLen: 10, lineHeight: 100} // 3000px: 3 breaks
	eng := NewEngine(geo900)

	first := eng.ComputeBreakPositions(doc, NewLedger(geo900.VisualSpacerHeight()))
	if len(first) != 3 {
		t.Fatalf("first pass: got %v, want 3 breaks", first)
	}

	// Commit: the host now renders the spacers, shifting actual coordinates.
	committed := NewLedger(geo900.VisualSpacerHeight(), first...)
	doc.installed = committed

	second := eng.ComputeBreakPositions(doc, committed)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("break set drifted after commit (-first +second):\n%s", diff)
	}

	// And again, with no intervening change at all.
	third := eng.ComputeBreakPositions(doc, committed)
	if diff := cmp.Diff(second, third); diff != "" {
		t.Fatalf("break set not idempotent (-second +third):\n%s", diff)
	}
}

// Without the content-only translation a recomputation over installed
// spacers drifts. This pins the failure mode the translator exists for.
func TestInstalledSpacersRequireTranslation(t *testing.T) {
	doc := &uniformDoc{lines: 30, lineLen: 10, lineHeight: 100}
	eng := NewEngine(geo900)

	first := eng.ComputeBreakPositions(doc, nil)
	doc.installed = NewLedger(geo900.VisualSpacerHeight(), first...)

	// Recompute with an empty ledger: actual coordinates now include spacer
	// offsets that nothing subtracts, so the result must differ.
	naive := eng.ComputeBreakPositions(doc, nil)
	if cmp.Equal(first, naive) {
		t.Fatalf("expected naive recomputation to drift, got identical %v", naive)
	}
}

func TestCoordinateFallbackToAdjacentPosition(t *testing.T) {
	doc := &uniformDoc{
		lines: 10, lineLen: 10, lineHeight: 100,
		failAt: map[int]bool{90: true, 91: true},
	}
	eng := NewEngine(geo900)
	breaks := eng.ComputeBreakPositions(doc, nil)
	if len(breaks) != 1 {
		t.Fatalf("expected one break despite failing lookups, got %v", breaks)
	}
	// The substituted coordinate comes from a neighbouring position, so the
	// found break may sit next to the exact one but must stay in range.
	if breaks[0] <= 0 || breaks[0] >= doc.DocSize() {
		t.Fatalf("fallback break out of range: %v", breaks)
	}
}

func TestAllLookupsFailingYieldsNoBreaks(t *testing.T) {
	fail := map[int]bool{}
	doc := &uniformDoc{lines: 20, lineLen: 10, lineHeight: 100, failAt: fail}
	for p := 0; p <= 200; p++ {
		fail[p] = true
	}
	eng := NewEngine(geo900)
	if got := eng.ComputeBreakPositions(doc, nil); got != nil {
		t.Fatalf("unmeasurable document should yield no breaks, got %v", got)
	}
}

// A provider that collapses after some height simulates layout instability:
// the builder must keep the valid prefix and never emit a non-increasing set.
type plateauDoc struct {
	uniformDoc
	plateauAfter float64
}

func (d *plateauDoc) CoordsAt(pos int) (Coords, error) {
	c, err := d.uniformDoc.CoordsAt(pos)
	if err != nil {
		return c, err
	}
	if c.Top > d.plateauAfter {
		c.Top = d.plateauAfter
	}
	return c, nil
}

func TestSoftFailKeepsValidPrefix(t *testing.T) {
	doc := &plateauDoc{
		uniformDoc:   uniformDoc{lines: 40, lineLen: 10, lineHeight: 100},
		plateauAfter: 1000,
	}
	eng := NewEngine(geo900)
	breaks := eng.ComputeBreakPositions(doc, nil)
	prev := 0
	for i, b := range breaks {
		if b <= 0 || b >= doc.DocSize() || (i > 0 && b <= prev) {
			t.Fatalf("soft-fail emitted an invalid sequence: %v", breaks)
		}
		prev = b
	}
	if len(breaks) > 1 {
		t.Fatalf("plateaued layout should stop after the first valid break, got %v", breaks)
	}
}
