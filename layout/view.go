package layout

import (
	"fmt"
	"sort"

	"github.com/glowtext/paginate/document"
	"github.com/glowtext/paginate/pagination"
)

// LineBox is one measured visual line in the content-only frame: the span
// of document positions it owns and its vertical extent before any spacer
// decorations are applied.
type LineBox struct {
	Start    int // first document position on the line
	End      int // exclusive; consecutive lines tile the position space
	Top      float64
	Height   float64
	FontSize float64
	Text     string
}

// Options configures a View.
type Options struct {
	// Typesetter wraps and measures paragraph text. Defaults to a
	// BasicTypesetter.
	Typesetter Typesetter
	// Width and Height are the container's layout size in pixels. A zero
	// size is valid and means "not mounted yet".
	Width  float64
	Height float64
	// ParagraphGap is extra vertical space between paragraphs.
	ParagraphGap float64
	// DefaultFontSize applies to paragraphs whose style has no size.
	// Zero means 16px.
	DefaultFontSize float64
}

// View is the host side of the pagination contract: it measures a document
// into line boxes, reports actual coordinates (content plus installed spacer
// offsets), and runs a deterministic single-threaded frame queue standing in
// for the host's per-frame callback mechanism. It implements
// pagination.Host.
type View struct {
	doc  *document.Doc
	opts Options

	lines  []LineBox
	height float64 // content-only bottom of the last line

	decos   []pagination.Decoration
	spacers *pagination.Ledger

	changeFns map[int]func()
	resizeFns map[int]func()
	nextHook  int

	frames    map[int]func()
	nextFrame int
}

var _ pagination.Host = (*View)(nil)

// NewView measures doc into a view with the given options.
func NewView(doc *document.Doc, opts Options) (*View, error) {
	if doc == nil {
		return nil, fmt.Errorf("layout: document is nil")
	}
	if opts.Typesetter == nil {
		opts.Typesetter = BasicTypesetter{}
	}
	if opts.DefaultFontSize <= 0 {
		opts.DefaultFontSize = 16
	}
	v := &View{
		doc:       doc,
		opts:      opts,
		spacers:   pagination.NewLedger(0),
		changeFns: map[int]func(){},
		resizeFns: map[int]func(){},
		frames:    map[int]func(){},
	}
	if err := v.reflow(); err != nil {
		return nil, err
	}
	return v, nil
}

// reflow measures every paragraph into line boxes in the content-only frame.
func (v *View) reflow() error {
	v.lines = v.lines[:0]
	v.height = 0

	cursor := 0.0
	for i, para := range v.doc.Paras {
		m := v.resolveMetrics(v.doc.StyleOf(para))
		tls, err := v.opts.Typesetter.LayoutLines(para.Text, v.opts.Width, m)
		if err != nil {
			return fmt.Errorf("layout: paragraph %d: %w", i, err)
		}
		start := v.doc.ParaStart(i)
		end := start + para.RuneLen() + 1 // separator belongs to the last line
		for j, tl := range tls {
			box := LineBox{
				Start:    start + tl.Start,
				Top:      cursor,
				Height:   tl.Height,
				FontSize: m.FontSize,
				Text:     tl.Text,
			}
			if j+1 < len(tls) {
				box.End = start + tls[j+1].Start
			} else {
				box.End = end
			}
			v.lines = append(v.lines, box)
			cursor += tl.Height
		}
		cursor += v.opts.ParagraphGap
	}
	if n := len(v.lines); n > 0 {
		// The trailing paragraph gap is below the content, not part of it.
		v.height = v.lines[n-1].Top + v.lines[n-1].Height
	}
	return nil
}

// resolveMetrics turns a raw style into pixel metrics.
func (v *View) resolveMetrics(s document.Style) Metrics {
	size := v.opts.DefaultFontSize
	if raw, ok := s.Props["size"]; ok {
		if l, ok := ParseLength(raw); ok && l.ToPx() > 0 {
			size = l.ToPx()
		}
	}
	lh := LineHeightSpec{}
	if raw, ok := s.Props["line-height"]; ok {
		if spec, ok := ParseLineHeight(raw); ok {
			lh = spec
		}
	}
	return Metrics{
		FontSize:   size,
		LineHeight: lh.Resolve(size),
		FontName:   s.Props["font"],
	}
}

// SetDoc replaces the document, remeasures and fires the change hooks.
func (v *View) SetDoc(doc *document.Doc) error {
	if doc == nil {
		return fmt.Errorf("layout: document is nil")
	}
	v.doc = doc
	if err := v.reflow(); err != nil {
		return err
	}
	for _, fn := range v.changeFns {
		fn()
	}
	return nil
}

// Resize updates the container size, remeasures and fires the resize hooks.
func (v *View) Resize(width, height float64) error {
	v.opts.Width = width
	v.opts.Height = height
	if err := v.reflow(); err != nil {
		return err
	}
	for _, fn := range v.resizeFns {
		fn()
	}
	return nil
}

// Doc returns the current document.
func (v *View) Doc() *document.Doc { return v.doc }

// Lines returns the measured line boxes in the content-only frame.
func (v *View) Lines() []LineBox { return v.lines }

// ContentHeight returns the content-only bottom of the last line.
func (v *View) ContentHeight() float64 { return v.height }

// Decorations returns the currently installed spacer decorations.
func (v *View) Decorations() []pagination.Decoration { return v.decos }

// DocSize implements pagination.CoordinateProvider.
func (v *View) DocSize() int { return v.doc.Size() }

// CoordsAt implements pagination.CoordinateProvider. The returned
// coordinates are actual: content-only line extent plus the offset of every
// installed spacer at or before pos.
func (v *View) CoordsAt(pos int) (pagination.Coords, error) {
	if len(v.lines) == 0 {
		return pagination.Coords{}, fmt.Errorf("layout: no measured lines")
	}
	if pos < 0 || pos > v.doc.Size() {
		return pagination.Coords{}, fmt.Errorf("layout: position %d out of range [0,%d]", pos, v.doc.Size())
	}
	// First line whose span ends after pos; pos == docSize resolves to the
	// last line so the document bottom stays measurable.
	i := sort.Search(len(v.lines), func(i int) bool { return v.lines[i].End > pos })
	if i == len(v.lines) {
		i = len(v.lines) - 1
	}
	box := v.lines[i]
	offset := v.spacers.OffsetAt(pos)
	return pagination.Coords{
		Top:    box.Top + offset,
		Bottom: box.Top + box.Height + offset,
	}, nil
}

// ContainerSize implements pagination.Host.
func (v *View) ContainerSize() (float64, float64) {
	return v.opts.Width, v.opts.Height
}

// OnChange implements pagination.Host.
func (v *View) OnChange(fn func()) func() {
	id := v.nextHook
	v.nextHook++
	v.changeFns[id] = fn
	return func() { delete(v.changeFns, id) }
}

// OnResize implements pagination.Host.
func (v *View) OnResize(fn func()) func() {
	id := v.nextHook
	v.nextHook++
	v.resizeFns[id] = fn
	return func() { delete(v.resizeFns, id) }
}

// RequestFrame implements pagination.Host: callbacks queue up and run when
// the host loop calls Step, after layout has settled.
func (v *View) RequestFrame(fn func()) func() {
	id := v.nextFrame
	v.nextFrame++
	v.frames[id] = fn
	return func() { delete(v.frames, id) }
}

// ApplyDecorations implements pagination.Host: the installed set and the
// spacer offsets it produces are replaced in one step.
func (v *View) ApplyDecorations(decos []pagination.Decoration) {
	v.decos = decos
	positions := make([]int, len(decos))
	height := 0.0
	for i, d := range decos {
		positions[i] = d.Pos
		height = d.Height
	}
	v.spacers = pagination.NewLedger(height, positions...)
}

// Step runs the frame callbacks pending at the time of the call and reports
// whether any ran. Callbacks scheduled while stepping wait for the next
// Step, mirroring a per-frame queue.
func (v *View) Step() bool {
	if len(v.frames) == 0 {
		return false
	}
	pending := v.frames
	v.frames = map[int]func(){}
	for id := 0; id < v.nextFrame; id++ {
		if fn, ok := pending[id]; ok {
			fn()
		}
	}
	return true
}

// Settle drives frames until the queue drains, up to maxFrames, and returns
// the number of frames run. It errors when the queue keeps refilling, which
// indicates a pagination feedback loop.
func (v *View) Settle(maxFrames int) (int, error) {
	steps := 0
	for v.Step() {
		steps++
		if steps > maxFrames {
			return steps, fmt.Errorf("layout: frame queue did not settle after %d frames", maxFrames)
		}
	}
	return steps, nil
}
