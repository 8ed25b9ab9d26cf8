package pdfutils

import (
	"sort"
	"time"

	"github.com/golang/geo/r2"
	"github.com/mgmeyers/unipdf/v3/core"
	"github.com/mgmeyers/unipdf/v3/extractor"
	pdfmodel "github.com/mgmeyers/unipdf/v3/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/research-exchange/pdfreview/model"
)

type ImportOptions struct {
	Width        int
	IgnoreBefore time.Time
	Log          logrus.FieldLogger
}

// Highlights reads every highlight annotation in the document, ordered by
// position.
func (d *Document) Highlights(opts ImportOptions) ([]*Annotation, error) {
	pages, err := d.pages()
	if err != nil {
		return nil, err
	}

	return highlightsOf(pages, opts)
}

func highlightsOf(pages []*pdfmodel.PdfPage, opts ImportOptions) ([]*Annotation, error) {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}

	ids := map[string]bool{}
	collected := []*Annotation{}

	for i, page := range pages {
		n := i + 1

		annotations, err := page.GetAnnotations()
		if err != nil {
			return nil, errors.Wrapf(err, "reading annotations of page %d", n)
		}

		if len(annotations) == 0 {
			continue
		}

		box, err := NewPageBox(page, opts.Width)
		if err != nil {
			return nil, errors.Wrapf(err, "page %d media box", n)
		}

		annots, err := processAnnotations(n, page, box, annotations, opts, ids)
		if err != nil {
			return nil, err
		}

		collected = append(collected, annots...)
	}

	sort.Stable(ByPosition(collected))

	return collected, nil
}

func processAnnotations(
	pageNum int,
	page *pdfmodel.PdfPage,
	box PageBox,
	annotations []*pdfmodel.PdfAnnotation,
	opts ImportOptions,
	ids map[string]bool,
) ([]*Annotation, error) {
	annots := []*Annotation{}

	ext, err := extractor.New(page)
	if err != nil {
		return nil, errors.Wrapf(err, "extracting text of page %d", pageNum)
	}

	txt, _, _, err := ext.ExtractPageText()
	if err != nil {
		return nil, errors.Wrapf(err, "extracting text of page %d", pageNum)
	}

	text := txt.Text()
	marks := txt.Marks().Elements()
	markRects := make([]r2.Rect, 0, len(marks))

	for _, mark := range marks {
		markRects = append(markRects, GetMarkRect(mark))
	}

	for _, annotation := range annotations {
		ctx := annotation.GetContext()
		annotType := GetAnnotationType(ctx)

		if annotType != Highlight {
			opts.Log.WithFields(logrus.Fields{"page": pageNum, "type": annotType}).Debug("skipping annotation")
			continue
		}

		date := GetAnnotationDate(annotation)

		if date != nil && date.Before(opts.IgnoreBefore) {
			continue
		}

		annoRects := GetAnnotationRects(annotation)

		if len(annoRects) == 0 {
			continue
		}

		str := ""
		sections := make([]model.SelectionRectangle, 0, len(annoRects))

		for _, anno := range annoRects {
			if !anno.IsValid() || anno.IsEmpty() {
				continue
			}

			sections = append(sections, box.Section(anno))

			if seg := GetMarkedText(text, anno, markRects, marks); seg != "" {
				if str != "" {
					str += " "
				}
				str += seg
			}
		}

		if len(sections) == 0 {
			continue
		}

		annot := &Annotation{
			PdfSelection: model.PdfSelection{
				PageNum:           pageNum,
				SelectedContent:   CondenseSpaces(RemoveNul(str)),
				HighlightSections: sections,
			},
			Color:         GetAnnotationColor(annotation),
			ColorCategory: GetAnnotationColorCategory(annotation),
		}

		if annotation.Contents != nil {
			annot.Comment = RemoveNul(annotation.Contents.String())
		}

		if hl, ok := ctx.(*pdfmodel.PdfAnnotationHighlight); ok && hl.PdfAnnotationMarkup != nil {
			if t, ok := hl.T.(*core.PdfObjectString); ok {
				annot.Author = t.String()
			}
		}

		if date != nil {
			annot.Date = date.Format(time.RFC3339)
		}

		bound := annot.Bounds()
		annot.ID = GetAnnotationID(ids, pageNum, bound.X.Lo, bound.Y.Lo, annotType)

		annots = append(annots, annot)
	}

	return annots, nil
}
