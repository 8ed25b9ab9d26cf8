package pdfutils

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mgmeyers/unipdf/v3/core"
	pdfmodel "github.com/mgmeyers/unipdf/v3/model"
)

const (
	DefaultHighlightHex = "#ffd43b"
	PulseHighlightHex   = "#ff922b"
	HighlightOpacity    = 0.4
)

// ParseColor reads a "#rrggbb" colour, falling back to the default
// highlight colour.
func ParseColor(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(DefaultHighlightHex)
	}
	return c
}

func toHEXStr(i int) string {
	s := fmt.Sprintf("%x", i)

	if len(s) == 1 {
		return "0" + s
	}

	return s
}

func pdfObjToColor(c core.PdfObject) (colorful.Color, bool) {
	if c == nil {
		return colorful.Color{}, false
	}

	objArr, ok := c.(*core.PdfObjectArray)
	if !ok {
		return colorful.Color{}, false
	}

	clr, err := objArr.ToFloat64Array()
	if err != nil || len(clr) < 3 {
		return colorful.Color{}, false
	}

	return colorful.Color{R: clr[0], G: clr[1], B: clr[2]}, true
}

func PDFObjToHex(c core.PdfObject) string {
	clr, ok := pdfObjToColor(c)
	if !ok {
		return ""
	}

	return "#" + toHEXStr(int(clr.R*255)) + toHEXStr(int(clr.G*255)) + toHEXStr(int(clr.B*255))
}

// ColorToPDF is the /C entry for a colour.
func ColorToPDF(c colorful.Color) *core.PdfObjectArray {
	c = c.Clamped()
	return core.MakeArrayFromFloats([]float64{c.R, c.G, c.B})
}

func GetAnnotationColor(annotation *pdfmodel.PdfAnnotation) string {
	if annotation == nil {
		return ""
	}

	return PDFObjToHex(annotation.C)
}

func GetAnnotationColorCategory(annotation *pdfmodel.PdfAnnotation) string {
	if annotation == nil {
		return ""
	}

	clr, ok := pdfObjToColor(annotation.C)
	if !ok {
		return ""
	}

	return ColorCategory(clr)
}

// ColorCategory names the hue family of a colour.
func ColorCategory(color colorful.Color) string {
	h, s, l := color.Hsl()

	if l < 0.12 {
		return "Black"
	}
	if l > 0.98 {
		return "White"
	}
	if s < 0.2 {
		return "Gray"
	}
	if h < 15 {
		return "Red"
	}
	if h < 45 {
		return "Orange"
	}
	if h < 65 {
		return "Yellow"
	}
	if h < 170 {
		return "Green"
	}
	if h < 190 {
		return "Cyan"
	}
	if h < 263 {
		return "Blue"
	}
	if h < 280 {
		return "Purple"
	}
	if h < 335 {
		return "Magenta"
	}
	return "Red"
}
