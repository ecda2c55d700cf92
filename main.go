package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/glowtext/paginate/binding"
	"github.com/glowtext/paginate/document"
	"github.com/glowtext/paginate/layout"
	"github.com/glowtext/paginate/pagination"
	"github.com/glowtext/paginate/renderer"
	canvasrenderer "github.com/glowtext/paginate/renderer/canvas"
)

const settleBudget = 32

func main() {
	input := flag.String("in", "examples/demo.glow", "document file path")
	output := flag.String("out", "", "PDF output path (requires -font)")
	debugPath := flag.String("debug", "", "pagination debug JSON output path")
	dataJSON := flag.String("data", "", "JSON data bound into ${path} references")
	fontPath := flag.String("font", "", "TTF font file for PDF output")
	width := flag.Float64("width", 640, "container width in px")
	height := flag.Float64("height", 800, "container height in px")
	pageHeight := flag.Float64("page-height", pagination.DefaultGeometry.PageHeight, "page height in px")
	spacer := flag.Float64("spacer", pagination.DefaultGeometry.SpacerHeight, "spacer height in px")
	buffer := flag.Float64("buffer", pagination.DefaultGeometry.LineBuffer, "line buffer in px")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	var data any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &data); err != nil {
			log.Fatal().Err(err).Msg("parsing data JSON")
		}
	}

	geo := pagination.Geometry{
		PageHeight:   *pageHeight,
		SpacerHeight: *spacer,
		LineBuffer:   *buffer,
	}
	opts := runOptions{
		input:     *input,
		output:    *output,
		debugPath: *debugPath,
		fontPath:  *fontPath,
		width:     *width,
		height:    *height,
		geo:       geo,
		data:      data,
		log:       log,
	}
	if err := run(opts); err != nil {
		log.Fatal().Err(err).Msg("pagination failed")
	}
}

type runOptions struct {
	input     string
	output    string
	debugPath string
	fontPath  string
	width     float64
	height    float64
	geo       pagination.Geometry
	data      any
	log       zerolog.Logger
}

// run chains parsing, binding, layout and pagination, then the optional
// debug and PDF outputs.
func run(opts runOptions) error {
	file, err := os.Open(opts.input)
	if err != nil {
		return fmt.Errorf("opening document %s: %w", opts.input, err)
	}
	defer file.Close()

	doc, err := document.Parse(file)
	if err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}
	if opts.data != nil {
		for i := range doc.Paras {
			doc.Paras[i].Text = binding.Interpolate(doc.Paras[i].Text, opts.data)
		}
	}

	var pdfRenderer *canvasrenderer.Renderer
	layoutOpts := layout.Options{Width: opts.width, Height: opts.height}
	if opts.fontPath != "" {
		pdfRenderer = canvasrenderer.NewRenderer(canvasrenderer.Options{FontPath: opts.fontPath})
		layoutOpts.Typesetter = pdfRenderer
	}

	view, err := layout.NewView(doc, layoutOpts)
	if err != nil {
		return fmt.Errorf("measuring document: %w", err)
	}

	ctrl := pagination.NewController(view, opts.geo, pagination.WithLogger(opts.log))
	ctrl.Install()
	defer ctrl.Teardown()

	frames, err := view.Settle(settleBudget)
	if err != nil {
		return err
	}

	breaks := ctrl.Breaks()
	opts.log.Info().
		Str("doc", doc.Name).
		Int("frames", frames).
		Ints("breaks", breaks).
		Float64("contentHeight", view.ContentHeight()).
		Msg("pagination settled")

	if opts.debugPath != "" {
		if err := writeDebug(view, breaks, opts.geo, opts.debugPath); err != nil {
			return err
		}
	}
	if opts.output != "" {
		if pdfRenderer == nil {
			return fmt.Errorf("-out requires -font for glyph-accurate output")
		}
		pages := renderer.BuildPages(view.Lines(), breaks, opts.geo, opts.width)
		pdfBytes, err := pdfRenderer.Render(pages)
		if err != nil {
			return fmt.Errorf("rendering PDF: %w", err)
		}
		if dir := filepath.Dir(opts.output); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
		}
		if err := os.WriteFile(opts.output, pdfBytes, 0o644); err != nil {
			return fmt.Errorf("writing PDF: %w", err)
		}
		fmt.Printf("wrote %s\n", opts.output)
	}
	return nil
}

type debugDump struct {
	DocName       string                  `json:"docName"`
	DocSize       int                     `json:"docSize"`
	ContentHeight float64                 `json:"contentHeight"`
	Geometry      pagination.Geometry     `json:"geometry"`
	Breaks        []int                   `json:"breaks"`
	Decorations   []pagination.Decoration `json:"decorations"`
	Lines         []layout.LineBox        `json:"lines"`
}

func writeDebug(view *layout.View, breaks []int, geo pagination.Geometry, path string) error {
	dump := debugDump{
		DocName:       view.Doc().Name,
		DocSize:       view.DocSize(),
		ContentHeight: view.ContentHeight(),
		Geometry:      geo,
		Breaks:        breaks,
		Decorations:   view.Decorations(),
		Lines:         view.Lines(),
	}
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding debug JSON: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating debug directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing debug JSON: %w", err)
	}
	return nil
}
