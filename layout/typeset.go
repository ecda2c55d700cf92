package layout

import (
	"strings"
	"unicode"
)

// Metrics is a paragraph style resolved to device pixels.
type Metrics struct {
	FontSize   float64
	LineHeight float64
	FontName   string
}

// TextLine is one wrapped line of a paragraph. Start and End are rune
// offsets into the paragraph text; Height is the visual line height.
type TextLine struct {
	Start  int
	End    int
	Text   string
	Width  float64
	Height float64
}

// Typesetter wraps paragraph text into measured lines for a given available
// width. Implementations must be deterministic for a fixed input; the
// pagination engine's coordinate frame is built on the result.
type Typesetter interface {
	LayoutLines(content string, width float64, m Metrics) ([]TextLine, error)
}

// BasicTypesetter is a deterministic fixed-advance typesetter: every glyph
// occupies Advance × font size. It wraps greedily at whitespace and
// hard-breaks words wider than the available width. It needs no font files,
// which makes it the default for tests and headless runs.
type BasicTypesetter struct {
	// Advance is the per-glyph width as a fraction of the font size.
	// Zero means the default 0.6.
	Advance float64
}

func (ts BasicTypesetter) glyph(m Metrics) float64 {
	adv := ts.Advance
	if adv <= 0 {
		adv = 0.6
	}
	return adv * m.FontSize
}

// LayoutLines implements Typesetter.
func (ts BasicTypesetter) LayoutLines(content string, width float64, m Metrics) ([]TextLine, error) {
	glyph := ts.glyph(m)
	maxRunes := len(content) // no wrapping when the width is unconstrained
	if width > 0 && glyph > 0 {
		maxRunes = int(width / glyph)
		if maxRunes < 1 {
			maxRunes = 1
		}
	}

	runes := []rune(content)
	if len(runes) == 0 {
		return []TextLine{{Height: m.LineHeight}}, nil
	}

	var lines []TextLine
	offset := 0
	for offset < len(runes) {
		remaining := runes[offset:]
		if len(remaining) <= maxRunes {
			lines = append(lines, ts.line(m, glyph, offset, remaining))
			break
		}

		// Break at the last whitespace that still fits; hard-break when a
		// single word overflows the line.
		breakAt := -1
		for i := maxRunes; i > 0; i-- {
			if unicode.IsSpace(remaining[i]) {
				breakAt = i
				break
			}
		}
		if breakAt <= 0 {
			lines = append(lines, ts.line(m, glyph, offset, remaining[:maxRunes]))
			offset += maxRunes
		} else {
			lines = append(lines, ts.line(m, glyph, offset, remaining[:breakAt]))
			offset += breakAt + 1 // swallow the break-point space
		}
	}
	return lines, nil
}

func (ts BasicTypesetter) line(m Metrics, glyph float64, start int, runes []rune) TextLine {
	text := strings.TrimRight(string(runes), " \t")
	return TextLine{
		Start:  start,
		End:    start + len(runes),
		Text:   text,
		Width:  float64(len([]rune(text))) * glyph,
		Height: m.LineHeight,
	}
}
