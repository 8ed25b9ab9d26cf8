package highlight

import (
	"strings"

	"github.com/golang/geo/r2"

	"github.com/research-exchange/pdfreview/model"
)

// Offsets of the floating "Add Comment" button from the selection's bounds.
const (
	affordanceOffsetX = 40
	affordanceOffsetY = 25
)

// NativeSelection is the live text selection reported by the rendering
// layer. Rectangles are in client space, y growing downwards.
type NativeSelection interface {
	String() string
	ClientRects() []r2.Rect
	BoundingClientRect() r2.Rect
}

// PageDescriptor identifies a rendered page and where it sits in client space.
type PageDescriptor struct {
	Number int
	Box    r2.Rect
}

type AnchorPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Capture converts sel into page-relative highlight sections. It returns
// false when there is nothing selected, the selected text is blank, or the
// selection spans no rectangles.
func Capture(sel NativeSelection, page PageDescriptor) (*model.PdfSelection, AnchorPoint, bool) {
	if sel == nil {
		return nil, AnchorPoint{}, false
	}

	text := sel.String()
	if strings.TrimSpace(text) == "" {
		return nil, AnchorPoint{}, false
	}

	clientRects := sel.ClientRects()
	if len(clientRects) == 0 {
		return nil, AnchorPoint{}, false
	}

	origin := page.Box.Lo()
	sections := make([]model.SelectionRectangle, 0, len(clientRects))

	for _, rect := range clientRects {
		sections = append(sections, model.SelectionRectangle{
			X:      rect.X.Lo - origin.X,
			Y:      rect.Y.Lo - origin.Y,
			Width:  rect.X.Length(),
			Height: rect.Y.Length(),
		})
	}

	return &model.PdfSelection{
		PageNum:           page.Number,
		SelectedContent:   text,
		HighlightSections: sections,
	}, affordanceAnchor(sel.BoundingClientRect()), true
}

func affordanceAnchor(bound r2.Rect) AnchorPoint {
	return AnchorPoint{
		X: bound.X.Lo + bound.X.Length()/2 - affordanceOffsetX,
		Y: bound.Y.Lo - affordanceOffsetY,
	}
}
