package pdfutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/golang/geo/r2"
	"github.com/mgmeyers/unipdf/v3/core"
	"github.com/mgmeyers/unipdf/v3/extractor"
	pdfmodel "github.com/mgmeyers/unipdf/v3/model"
)

const dateFormat = "D:20060102150405+07'00'"
const dateFormatZ = "D:20060102150405Z07'00'"
const dateFormatNoZ = "D:20060102150405"

func GetAnnotationDate(annot *pdfmodel.PdfAnnotation) *time.Time {
	dateStr, ok := annot.M.(*core.PdfObjectString)
	if !ok || dateStr == nil {
		return nil
	}

	date, err := time.Parse(dateFormat, dateStr.String())

	if err != nil {
		date, err = time.Parse(dateFormatZ, dateStr.String())
	}

	if err != nil {
		split := strings.Split(dateStr.String(), "Z")
		date, err = time.Parse(dateFormatNoZ, split[0])
	}

	if err != nil {
		return nil
	}

	return &date
}

// FormatAnnotationDate is the inverse of GetAnnotationDate.
func FormatAnnotationDate(t time.Time) *core.PdfObjectString {
	return core.MakeString(t.UTC().Format(dateFormatZ))
}

func GetAnnotationType(t interface{}) string {
	switch t.(type) {
	case *pdfmodel.PdfAnnotationHighlight:
		return Highlight
	case *pdfmodel.PdfAnnotationStrikeOut:
		return Strike
	case *pdfmodel.PdfAnnotationUnderline:
		return Underline
	case *pdfmodel.PdfAnnotationSquare:
		return Rectangle
	case *pdfmodel.PdfAnnotationText:
		return Text
	default:
		return Unsupported
	}
}

func RemoveNul(str string) string {
	return strings.Map(func(r rune) rune {
		if r == unicode.ReplacementChar {
			return -1
		}
		if unicode.IsControl(r) && r != '\n' {
			return -1
		}
		return r
	}, str)
}

// GetMarkedText joins the text marks mostly covered by annotRect, keeping a
// single space where the page text has a break between two marks.
func GetMarkedText(text string, annotRect r2.Rect, markRects []r2.Rect, marks []extractor.TextMark) string {
	segment := ""

	for i, mark := range markRects {
		if !mark.IsValid() || mark.IsEmpty() {
			continue
		}

		if annotRect.Intersects(mark) && IsWithinOverlapThresh(annotRect, mark) {
			if len(marks[i].Text) > 0 && marks[i].Offset > 0 && marks[i].Offset <= len(text) && len(segment) > 0 {
				prevChar := string(text[marks[i].Offset-1])

				if prevChar == " " || prevChar == "\n" {
					segment += " " + marks[i].Text
					continue
				}
			}

			segment += marks[i].Text
		}
	}

	return segment
}

func GetAnnotationID(ids map[string]bool, pageNum int, x float64, y float64, annotType string) string {
	xInt := int(x)
	yInt := int(y)
	id := fmt.Sprintf("%s-p%dx%dy%d", annotType, pageNum, xInt, yInt)
	_, ok := ids[id]

	for i := 1; ok; i++ {
		id = fmt.Sprintf("%s-p%dx%dy%d-%d", annotType, pageNum, xInt, yInt, i)
		_, ok = ids[id]
	}

	ids[id] = true

	return id
}

var nlAndSpace = regexp.MustCompile(`[\n\s]+`)

func CondenseSpaces(str string) string {
	return strings.TrimSpace(nlAndSpace.ReplaceAllString(str, " "))
}
