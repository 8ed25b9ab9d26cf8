package highlight

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/golang/geo/r2"
)

type fakeSelection struct {
	text  string
	rects []r2.Rect
}

func (s fakeSelection) String() string { return s.text }

func (s fakeSelection) ClientRects() []r2.Rect { return s.rects }

func (s fakeSelection) BoundingClientRect() r2.Rect {
	bound := r2.EmptyRect()
	for _, r := range s.rects {
		bound = bound.Union(r)
	}
	return bound
}

func rect(x, y, w, h float64) r2.Rect {
	return r2.RectFromPoints(r2.Point{X: x, Y: y}, r2.Point{X: x + w, Y: y + h})
}

type fakeElement struct {
	name     string
	scrolls  []ScrollOptions
	classes  map[string]bool
	removals []string
}

func newFakeElement(name string) *fakeElement {
	return &fakeElement{name: name, classes: map[string]bool{}}
}

func (e *fakeElement) ScrollIntoView(opts ScrollOptions) { e.scrolls = append(e.scrolls, opts) }

func (e *fakeElement) AddClass(class string) { e.classes[class] = true }

func (e *fakeElement) RemoveClass(class string) {
	delete(e.classes, class)
	e.removals = append(e.removals, class)
}

type scheduled struct {
	d time.Duration
	f func()
}

type fakeTimers struct {
	pending []scheduled
}

func (t *fakeTimers) after(d time.Duration, f func()) {
	t.pending = append(t.pending, scheduled{d: d, f: f})
}

func (t *fakeTimers) fire() {
	pending := t.pending
	t.pending = nil
	for _, s := range pending {
		s.f()
	}
}

type fakeDocument struct {
	pages  int
	height int
	err    error
}

func (d fakeDocument) NumPages(context.Context) (int, error) {
	return d.pages, nil
}

func (d fakeDocument) RenderPage(_ context.Context, pageNum int, width int) (image.Image, error) {
	if d.err != nil {
		return nil, d.err
	}
	if pageNum < 1 || pageNum > d.pages {
		return nil, fmt.Errorf("page %d out of range", pageNum)
	}
	return image.NewRGBA(image.Rect(0, 0, width, d.height)), nil
}
