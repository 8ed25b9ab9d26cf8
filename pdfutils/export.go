package pdfutils

import (
	"io"
	"time"

	"github.com/golang/geo/r2"
	"github.com/mgmeyers/unipdf/v3/core"
	pdfmodel "github.com/mgmeyers/unipdf/v3/model"
	"github.com/pkg/errors"
)

// ExportHighlights writes a copy of the document with a highlight
// annotation added for each of annots. Sections are read as pixels of a page
// rendered width pixels wide.
func (d *Document) ExportHighlights(w io.Writer, annots []*Annotation, width int) error {
	pages, err := d.pages()
	if err != nil {
		return err
	}

	return exportPages(w, pages, annots, width)
}

func exportPages(w io.Writer, pages []*pdfmodel.PdfPage, annots []*Annotation, width int) error {
	byPage := map[int][]*Annotation{}

	for _, a := range annots {
		if a.PageNum < 1 || a.PageNum > len(pages) {
			return errors.Wrapf(ErrPageOutOfRange, "annotation %s on page %d of %d", a.ID, a.PageNum, len(pages))
		}
		byPage[a.PageNum] = append(byPage[a.PageNum], a)
	}

	writer := pdfmodel.NewPdfWriter()

	for i, page := range pages {
		n := i + 1

		if pending := byPage[n]; len(pending) > 0 {
			box, err := NewPageBox(page, width)
			if err != nil {
				return errors.Wrapf(err, "page %d media box", n)
			}

			for _, a := range pending {
				page.AddAnnotation(NewHighlightAnnotation(box, a).PdfAnnotation)
			}
		}

		if err := writer.AddPage(page); err != nil {
			return errors.Wrapf(err, "adding page %d", n)
		}
	}

	return errors.Wrap(writer.Write(w), "writing PDF")
}

func NewHighlightAnnotation(box PageBox, a *Annotation) *pdfmodel.PdfAnnotationHighlight {
	quads := make([]float64, 0, 8*len(a.HighlightSections))
	rect := r2.EmptyRect()

	for _, s := range a.HighlightSections {
		quads = append(quads, box.QuadPoints(s)...)
		rect = rect.Union(box.UserRect(s))
	}

	hl := pdfmodel.NewPdfAnnotationHighlight()
	hl.QuadPoints = core.MakeArrayFromFloats(quads)
	hl.Rect = core.MakeArrayFromFloats([]float64{rect.X.Lo, rect.Y.Lo, rect.X.Hi, rect.Y.Hi})
	hl.C = ColorToPDF(ParseColor(a.Color))

	if a.Comment != "" {
		hl.Contents = core.MakeString(a.Comment)
	}

	if a.Author != "" {
		hl.T = core.MakeString(a.Author)
	}

	if t, err := time.Parse(time.RFC3339, a.Date); err == nil {
		hl.M = FormatAnnotationDate(t)
	}

	return hl
}
