package canvasrenderer

import (
	"strings"
	"unicode"
)

// measureFunc returns the rendered width of a string, in px.
type measureFunc func(string) float64

// span is one wrapped line: its rune offsets within the paragraph and the
// trimmed text to draw.
type span struct {
	start int
	end   int
	text  string
	width float64
}

// wrapContent wraps content greedily at whitespace, hard-breaking words
// wider than the limit. A non-positive limit disables wrapping. Offsets are
// rune offsets into content; consecutive spans tile the rune range.
func wrapContent(content string, limit float64, measure measureFunc) []span {
	runes := []rune(content)
	if len(runes) == 0 {
		return []span{{}}
	}

	var spans []span
	lineStart := 0
	lineWidth := 0.0

	flush := func(end int) {
		text := strings.TrimRight(string(runes[lineStart:end]), " \t")
		spans = append(spans, span{start: lineStart, end: end, text: text, width: measure(text)})
		lineStart = end
		lineWidth = 0
	}

	i := 0
	for i < len(runes) {
		// Consume one token: a run of whitespace or of non-whitespace.
		j := i
		isSpace := unicode.IsSpace(runes[i])
		for j < len(runes) && unicode.IsSpace(runes[j]) == isSpace {
			j++
		}
		tokenWidth := measure(string(runes[i:j]))

		if limit > 0 && !isSpace && lineWidth > 0 && lineWidth+tokenWidth > limit {
			flush(i)
		}
		if limit > 0 && !isSpace && tokenWidth > limit && lineWidth == 0 {
			// Overlong word: break it rune by rune.
			for k := i + 1; k < j; k++ {
				if measure(string(runes[lineStart:k+1])) > limit && k > lineStart {
					flush(k)
				}
			}
			lineWidth = measure(string(runes[lineStart:j]))
			i = j
			continue
		}
		lineWidth += tokenWidth
		i = j
	}
	if lineStart < len(runes) {
		flush(len(runes))
	}
	return spans
}
