package highlight

import (
	"fmt"
	"time"
)

const (
	CommentPulseClass   = "blink-comment"
	HighlightPulseClass = "blink-highlight"

	// A comment row pulses for less time than a highlight does.
	CommentPulse   = 1000 * time.Millisecond
	HighlightPulse = 1500 * time.Millisecond
)

// Linker scrolls between a highlight's overlay and its comment row.
type Linker struct {
	anchors *Anchors
	after   func(d time.Duration, f func())
}

func NewLinker(anchors *Anchors) *Linker {
	return &Linker{
		anchors: anchors,
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// ScrollToComment centres the comment row of a highlight and pulses it.
// Asking for a highlight with no bound row is a programming error.
func (l *Linker) ScrollToComment(id string) {
	el, ok := l.anchors.Comment(id)
	if !ok {
		panic(fmt.Sprintf("highlight: no comment row bound for %q", id))
	}

	l.pulse(el, id, CommentPulseClass, CommentPulse, l.anchors.Comment)
}

// ScrollToHighlight centres the overlay group of a highlight and pulses it.
func (l *Linker) ScrollToHighlight(id string) {
	el, ok := l.anchors.HighlightBox(id)
	if !ok {
		panic(fmt.Sprintf("highlight: no overlay bound for %q", id))
	}

	l.pulse(el, id, HighlightPulseClass, HighlightPulse, l.anchors.HighlightBox)
}

func (l *Linker) pulse(
	el Element,
	id string,
	class string,
	d time.Duration,
	lookup func(string) (Element, bool),
) {
	el.ScrollIntoView(ScrollOptions{Smooth: true, Block: "center"})
	el.AddClass(class)

	l.after(d, func() {
		// the view may have gone away in the meantime
		if _, ok := lookup(id); ok {
			el.RemoveClass(class)
		}
	})
}
