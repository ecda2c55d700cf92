// Package renderer turns a paginated view into concrete drawable pages.
package renderer

import (
	"github.com/glowtext/paginate/layout"
	"github.com/glowtext/paginate/pagination"
)

// Renderer draws paginated pages into a final artifact, e.g. a PDF preview.
// Render returns the generated bytes.
type Renderer interface {
	Render(pages []Page) ([]byte, error)
}

// Page is one page of the paginated view: the lines falling between two
// page boundaries, with tops rebased to the page origin. All values are px.
type Page struct {
	Width  float64
	Height float64
	Lines  []Line
}

// Line is one positioned text line on a page.
type Line struct {
	Text     string
	X        float64
	Y        float64 // top of the line, page-relative
	Height   float64
	FontSize float64
}

// BuildPages splits measured content-only line boxes into pages at the
// given break positions. A line starting at or after a break position opens
// the next page; this mirrors how the spacer decoration renders before its
// anchor position.
func BuildPages(lines []layout.LineBox, breaks []int, geo pagination.Geometry, pageWidth float64) []Page {
	newPage := func() Page {
		return Page{Width: pageWidth, Height: geo.PageHeight}
	}
	pages := []Page{newPage()}
	pageTop := 0.0
	next := 0
	for _, box := range lines {
		for next < len(breaks) && box.Start >= breaks[next] {
			pages = append(pages, newPage())
			pageTop = box.Top
			next++
		}
		cur := &pages[len(pages)-1]
		cur.Lines = append(cur.Lines, Line{
			Text:     box.Text,
			X:        0,
			Y:        box.Top - pageTop,
			Height:   box.Height,
			FontSize: box.FontSize,
		})
	}
	return pages
}
