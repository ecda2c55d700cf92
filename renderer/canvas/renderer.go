// Package canvasrenderer renders paginated pages into PDF previews via
// github.com/tdewolff/canvas, and doubles as a font-accurate Typesetter for
// the layout package.
package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/glowtext/paginate/layout"
	"github.com/glowtext/paginate/renderer"
)

var textColor = color.RGBA{R: 30, G: 30, B: 30, A: 255}

// Options configures a Renderer. The font may be provided either as raw
// bytes or as a file path; Bytes wins when both are set.
type Options struct {
	FontBytes  []byte
	FontPath   string
	FamilyName string // defaults to "Body"
}

// Renderer draws pages through github.com/tdewolff/canvas. It also
// implements layout.Typesetter so that wrapping and pagination use the same
// glyph measurements as the final output.
type Renderer struct {
	opts Options

	fontMu sync.Mutex
	family *canvas.FontFamily
	faces  map[float64]*canvas.FontFace // keyed by size in pt
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// NewRenderer creates a renderer for the given font options. The font is
// loaded lazily on first use.
func NewRenderer(opts Options) *Renderer {
	if opts.FamilyName == "" {
		opts.FamilyName = "Body"
	}
	return &Renderer{
		opts:  opts,
		faces: map[float64]*canvas.FontFace{},
	}
}

// LayoutLines implements layout.Typesetter. Widths are measured with the
// loaded font; all values stay in px, converting to pt only at the font
// boundary.
func (r *Renderer) LayoutLines(content string, width float64, m layout.Metrics) ([]layout.TextLine, error) {
	face, err := r.face(m.FontSize)
	if err != nil {
		return nil, err
	}
	measure := func(s string) float64 {
		return face.TextWidth(s) * layout.PxPerPt
	}

	lineHeight := m.LineHeight
	if lineHeight <= 0 {
		lineHeight = face.Metrics().LineHeight * layout.PxPerPt
	}

	spans := wrapContent(content, width, measure)
	lines := make([]layout.TextLine, len(spans))
	for i, sp := range spans {
		lines[i] = layout.TextLine{
			Start:  sp.start,
			End:    sp.end,
			Text:   sp.text,
			Width:  sp.width,
			Height: lineHeight,
		}
	}
	return lines, nil
}

// Render implements renderer.Renderer: one PDF page per pagination page.
func (r *Renderer) Render(pages []renderer.Page) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages to render")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, toMm(pages[0].Width), toMm(pages[0].Height), nil)
	for i, page := range pages {
		if i > 0 {
			writer.NewPage(toMm(page.Width), toMm(page.Height))
		}
		c := canvas.New(toMm(page.Width), toMm(page.Height))
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // top-left origin, matching layout

		if err := r.drawPage(ctx, page); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page renderer.Page) error {
	for _, line := range page.Lines {
		if line.Text == "" {
			continue
		}
		face, err := r.face(line.FontSize)
		if err != nil {
			return err
		}
		ascent := face.Metrics().Ascent * layout.PxPerPt
		// Center the glyph box inside the line box, baseline at top+ascent.
		fontHeight := face.Metrics().LineHeight * layout.PxPerPt
		pad := (line.Height - fontHeight) / 2
		if pad < 0 {
			pad = 0
		}
		baseline := line.Y + pad + ascent
		textLine := canvas.NewTextLine(face, line.Text, canvas.Left)
		ctx.DrawText(toMm(line.X), toMm(baseline), textLine)
	}
	return nil
}

// face returns a cached font face for the given size in px.
func (r *Renderer) face(sizePx float64) (*canvas.FontFace, error) {
	sizePt := sizePx / layout.PxPerPt
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if face, ok := r.faces[sizePt]; ok {
		return face, nil
	}
	if r.family == nil {
		family, err := r.loadFamily()
		if err != nil {
			return nil, err
		}
		r.family = family
	}
	face := r.family.Face(sizePt, textColor, canvas.FontRegular, canvas.FontNormal)
	r.faces[sizePt] = face
	return face, nil
}

func (r *Renderer) loadFamily() (*canvas.FontFamily, error) {
	data := r.opts.FontBytes
	if len(data) == 0 {
		if r.opts.FontPath == "" {
			return nil, fmt.Errorf("no font configured: set FontBytes or FontPath")
		}
		var err error
		data, err = os.ReadFile(r.opts.FontPath)
		if err != nil {
			return nil, fmt.Errorf("reading font %s: %w", r.opts.FontPath, err)
		}
	}
	family := canvas.NewFontFamily(r.opts.FamilyName)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}
	return family, nil
}

func toMm(px float64) float64 { return px / layout.PxPerMm }
