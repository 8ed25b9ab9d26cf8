package pdfutils

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/mgmeyers/unipdf/v3/core"
	"github.com/mgmeyers/unipdf/v3/extractor"
	pdfmodel "github.com/mgmeyers/unipdf/v3/model"

	"github.com/research-exchange/pdfreview/model"
)

// PageBox relates a page's PDF user space to the pixel space of the page
// rendered at Width pixels wide. Pixel space has its origin at the top-left
// of the page as displayed, after rotation.
type PageBox struct {
	Media  r2.Rect
	Rotate int
	Width  int
}

func NewPageBox(page *pdfmodel.PdfPage, width int) (PageBox, error) {
	mb, err := page.GetMediaBox()
	if err != nil {
		return PageBox{}, err
	}

	rotate := 0
	if page.Rotate != nil {
		rotate = int(*page.Rotate)
	}

	return PageBox{
		Media: r2.RectFromPoints(
			r2.Point{X: math.Min(mb.Llx, mb.Urx), Y: math.Min(mb.Lly, mb.Ury)},
			r2.Point{X: math.Max(mb.Llx, mb.Urx), Y: math.Max(mb.Lly, mb.Ury)},
		),
		Rotate: ((rotate % 360) + 360) % 360,
		Width:  width,
	}, nil
}

func (b PageBox) sideways() bool {
	return b.Rotate == 90 || b.Rotate == 270
}

// DisplaySize is the page size in points as it is shown.
func (b PageBox) DisplaySize() (float64, float64) {
	w, h := b.Media.X.Length(), b.Media.Y.Length()
	if b.sideways() {
		return h, w
	}
	return w, h
}

// Scale is pixels per point.
func (b PageBox) Scale() float64 {
	w, _ := b.DisplaySize()
	return float64(b.Width) / w
}

// HeightPx is the rendered height in pixels.
func (b PageBox) HeightPx() float64 {
	_, h := b.DisplaySize()
	return h * b.Scale()
}

// ToUser maps a pixel position to user space.
func (b PageBox) ToUser(p r2.Point) r2.Point {
	s := b.Scale()
	dx, dy := p.X/s, p.Y/s
	lo, hi := b.Media.Lo(), b.Media.Hi()

	switch b.Rotate {
	case 90:
		return r2.Point{X: lo.X + dy, Y: lo.Y + dx}
	case 180:
		return r2.Point{X: hi.X - dx, Y: lo.Y + dy}
	case 270:
		return r2.Point{X: hi.X - dy, Y: hi.Y - dx}
	}

	return r2.Point{X: lo.X + dx, Y: hi.Y - dy}
}

// FromUser maps a user space position to pixels.
func (b PageBox) FromUser(p r2.Point) r2.Point {
	s := b.Scale()
	lo, hi := b.Media.Lo(), b.Media.Hi()

	var dx, dy float64

	switch b.Rotate {
	case 90:
		dx, dy = p.Y-lo.Y, p.X-lo.X
	case 180:
		dx, dy = hi.X-p.X, p.Y-lo.Y
	case 270:
		dx, dy = hi.Y-p.Y, hi.X-p.X
	default:
		dx, dy = p.X-lo.X, hi.Y-p.Y
	}

	return r2.Point{X: dx * s, Y: dy * s}
}

// QuadPoints lists the corners of a highlight section in user space in the
// order PDF viewers expect: upper-left, upper-right, lower-left,
// lower-right of the displayed rectangle.
func (b PageBox) QuadPoints(s model.SelectionRectangle) []float64 {
	corners := []r2.Point{
		{X: s.X, Y: s.Y},
		{X: s.X + s.Width, Y: s.Y},
		{X: s.X, Y: s.Y + s.Height},
		{X: s.X + s.Width, Y: s.Y + s.Height},
	}

	quad := make([]float64, 0, 8)
	for _, c := range corners {
		u := b.ToUser(c)
		quad = append(quad, u.X, u.Y)
	}

	return quad
}

// UserRect is the user space rectangle covering a highlight section.
func (b PageBox) UserRect(s model.SelectionRectangle) r2.Rect {
	return r2.RectFromPoints(
		b.ToUser(r2.Point{X: s.X, Y: s.Y}),
		b.ToUser(r2.Point{X: s.X + s.Width, Y: s.Y + s.Height}),
	)
}

// Section converts a user space rectangle to a highlight section, rounded
// to hundredths of a pixel.
func (b PageBox) Section(r r2.Rect) model.SelectionRectangle {
	px := model.RectangleFromR2(r2.RectFromPoints(b.FromUser(r.Lo()), b.FromUser(r.Hi())))

	return model.SelectionRectangle{
		X:      round2(px.X),
		Y:      round2(px.Y),
		Width:  round2(px.Width),
		Height: round2(px.Height),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func IsWithinOverlapThresh(annot r2.Rect, mark r2.Rect) bool {
	markSize := getArea(mark)
	intersect := getArea(annot.Intersection(mark))

	return intersect/markSize >= 0.5
}

func getArea(r r2.Rect) float64 {
	s := r.Size()
	return s.X * s.Y
}

func GetMarkRect(mark extractor.TextMark) r2.Rect {
	return r2.RectFromPoints(
		r2.Point{
			X: mark.BBox.Llx,
			Y: mark.BBox.Lly,
		},
		r2.Point{
			X: mark.BBox.Urx,
			Y: mark.BBox.Ury,
		},
	)
}

// GetAnnotationRects reads the quadpoints of a highlight annotation as
// user space rectangles, one per quad.
func GetAnnotationRects(annotation *pdfmodel.PdfAnnotation) []r2.Rect {
	qp := GetQuadPoint(annotation)

	if qp == nil {
		return nil
	}

	coords, err := qp.GetAsFloat64Slice()
	if err != nil {
		return nil
	}

	rects := []r2.Rect{}

	for i := 0; i+8 <= len(coords); i += 8 {
		rects = append(rects, r2.RectFromPoints(
			r2.Point{X: coords[i], Y: coords[i+1]},
			r2.Point{X: coords[i+2], Y: coords[i+3]},
			r2.Point{X: coords[i+4], Y: coords[i+5]},
			r2.Point{X: coords[i+6], Y: coords[i+7]},
		))
	}

	return rects
}

func GetQuadPoint(annotation *pdfmodel.PdfAnnotation) *core.PdfObjectArray {
	ctx := annotation.GetContext()

	if hl, ok := ctx.(*pdfmodel.PdfAnnotationHighlight); ok {
		if qp, ok := hl.QuadPoints.(*core.PdfObjectArray); ok {
			return qp
		}
	}

	return nil
}
