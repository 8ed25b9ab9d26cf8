package highlight

import "sync"

// ScrollOptions mirrors element.scrollIntoView.
type ScrollOptions struct {
	Smooth bool
	Block  string
}

// Element is a handle to something the rendering layer drew. Handles never
// own the element's lifetime.
type Element interface {
	ScrollIntoView(opts ScrollOptions)
	AddClass(class string)
	RemoveClass(class string)
}

// Anchors maps highlight ids to the comment row and the overlay group the
// rendering layer created for them. The renderer binds overlay groups, the
// comment bar binds rows. Entries are only read for scroll and pulse
// effects, never while the registry is being changed.
type Anchors struct {
	mu       sync.RWMutex
	comments map[string]Element
	boxes    map[string]Element
}

func NewAnchors() *Anchors {
	return &Anchors{
		comments: map[string]Element{},
		boxes:    map[string]Element{},
	}
}

func (a *Anchors) BindComment(id string, el Element) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.comments[id] = el
}

func (a *Anchors) BindHighlightBox(id string, el Element) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.boxes[id] = el
}

// Unbind forgets both handles of a highlight.
func (a *Anchors) Unbind(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.comments, id)
	delete(a.boxes, id)
}

// Reset forgets every handle, as when the view unmounts.
func (a *Anchors) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.comments = map[string]Element{}
	a.boxes = map[string]Element{}
}

func (a *Anchors) Comment(id string) (Element, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	el, ok := a.comments[id]
	return el, ok
}

func (a *Anchors) HighlightBox(id string) (Element, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	el, ok := a.boxes[id]
	return el, ok
}
