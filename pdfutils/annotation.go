package pdfutils

import (
	"strconv"
	"time"

	"github.com/research-exchange/pdfreview/model"
)

const postedFormat = "2006-01-02 15:04:05"

const (
	Highlight   string = "highlight"
	Strike             = "strike"
	Underline          = "underline"
	Text               = "text"
	Rectangle          = "rectangle"
	Unsupported        = "unsupported"
)

// Annotation is a highlight annotation carried in a PDF file, with its
// sections in canonical pixel space.
type Annotation struct {
	model.PdfSelection
	ID            string `json:"id"`
	Comment       string `json:"comment,omitempty"`
	Author        string `json:"author,omitempty"`
	Color         string `json:"color,omitempty"`
	ColorCategory string `json:"colorCategory,omitempty"`
	Date          string `json:"date,omitempty"`
}

func (a *Annotation) top() (float64, float64) {
	if len(a.HighlightSections) == 0 {
		return 0, 0
	}
	b := a.Bounds()
	return b.Y.Lo, b.X.Lo
}

// ByPosition orders annotations by page, then top to bottom, then left to
// right.
type ByPosition []*Annotation

func (a ByPosition) Len() int      { return len(a) }
func (a ByPosition) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a ByPosition) Less(i, j int) bool {
	if a[i].PageNum != a[j].PageNum {
		return a[i].PageNum < a[j].PageNum
	}

	yi, xi := a[i].top()
	yj, xj := a[j].top()
	if yi != yj {
		return yi < yj
	}
	return xi < xj
}

// FromReview lists a review's inline comments as annotations in the given
// colour.
func FromReview(review *model.Review, color string) []*Annotation {
	annots := make([]*Annotation, 0, len(review.InlineComments))

	for _, ic := range review.InlineComments {
		date := ""
		if t, err := time.Parse(postedFormat, ic.DatePosted); err == nil {
			date = t.Format(time.RFC3339)
		}

		annots = append(annots, &Annotation{
			PdfSelection:  ic.PdfSelection,
			ID:            strconv.FormatInt(ic.ID, 10),
			Comment:       ic.Content,
			Author:        ic.Author.Username,
			Color:         color,
			ColorCategory: ColorCategory(ParseColor(color)),
			Date:          date,
		})
	}

	return annots
}
