package document

import "unicode/utf8"

// Doc is a parsed flowing document: an ordered list of paragraphs plus the
// named styles they reference. The engine never sees this structure; it only
// sees the linear position model defined below.
type Doc struct {
	Name   string
	Styles map[string]Style
	Paras  []Para
}

// Style is a named bundle of raw text properties (size, line-height, font).
// Values keep their author-specified unit strings; the layout engine resolves
// them to device units.
type Style struct {
	Name  string
	Props map[string]string
}

// Para is one paragraph of flowing text, optionally tied to a named style.
type Para struct {
	StyleName string
	Text      string
}

// RuneLen returns the paragraph length in runes, the unit of the linear
// position model.
func (p Para) RuneLen() int {
	return utf8.RuneCountInString(p.Text)
}

// Size returns the exclusive upper bound of valid document positions: every
// paragraph contributes its rune count plus one separator position.
func (d *Doc) Size() int {
	size := 0
	for _, p := range d.Paras {
		size += p.RuneLen() + 1
	}
	return size
}

// ParaStart returns the document position at which paragraph i begins.
func (d *Doc) ParaStart(i int) int {
	start := 0
	for j := 0; j < i && j < len(d.Paras); j++ {
		start += d.Paras[j].RuneLen() + 1
	}
	return start
}

// StyleOf resolves a paragraph's style; missing or unknown names yield a
// zero Style, which the layout engine treats as "all defaults".
func (d *Doc) StyleOf(p Para) Style {
	if s, ok := d.Styles[p.StyleName]; ok {
		return s
	}
	return Style{}
}
