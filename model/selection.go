package model

import "github.com/golang/geo/r2"

// SelectionRectangle is a highlight section in pixels, relative to the
// top-left corner of a page rendered at the canonical width.
type SelectionRectangle struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

func RectangleFromR2(r r2.Rect) SelectionRectangle {
	return SelectionRectangle{
		X:      r.X.Lo,
		Y:      r.Y.Lo,
		Width:  r.X.Length(),
		Height: r.Y.Length(),
	}
}

func (s SelectionRectangle) R2() r2.Rect {
	return r2.RectFromPoints(
		r2.Point{X: s.X, Y: s.Y},
		r2.Point{X: s.X + s.Width, Y: s.Y + s.Height},
	)
}

// PdfSelection is a piece of selected text on one page. Pages are 1-indexed.
type PdfSelection struct {
	PageNum           int                  `json:"pageNum" yaml:"pageNum"`
	SelectedContent   string               `json:"selectedContent" yaml:"selectedContent"`
	HighlightSections []SelectionRectangle `json:"highlightSections" yaml:"highlightSections"`
}

// Bounds is the smallest rectangle covering every highlight section.
func (s PdfSelection) Bounds() r2.Rect {
	bound := r2.EmptyRect()

	for _, section := range s.HighlightSections {
		bound = bound.Union(section.R2())
	}

	return bound
}
