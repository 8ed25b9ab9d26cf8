package highlight

import (
	"fmt"

	"github.com/research-exchange/pdfreview/model"
)

// Highlight is one committed selection. Its UI anchors live in Anchors,
// keyed by UniqueID.
type Highlight struct {
	UniqueID  string             `json:"uniqueId"`
	Selection model.PdfSelection `json:"selection"`
}

func NewHighlight(sel model.PdfSelection) *Highlight {
	return &Highlight{
		UniqueID:  UniqueID(sel),
		Selection: sel,
	}
}

// Registry is the ordered list of highlights for one open document. Order
// is whatever insertion produced; it is never re-sorted.
type Registry struct {
	highlights []*Highlight
}

func NewRegistry() *Registry {
	return &Registry{}
}

// RegistryFrom builds a registry holding one highlight per selection, in
// the given order.
func RegistryFrom(selections []model.PdfSelection) *Registry {
	r := &Registry{highlights: make([]*Highlight, 0, len(selections))}

	for _, sel := range selections {
		r.highlights = append(r.highlights, NewHighlight(sel))
	}

	return r
}

func (r *Registry) Len() int {
	return len(r.highlights)
}

func (r *Registry) At(i int) *Highlight {
	return r.highlights[i]
}

// All returns a copy of the ordered highlights.
func (r *Registry) All() []*Highlight {
	return append([]*Highlight(nil), r.highlights...)
}

// InsertionIndex is the index of the first highlight whose id the given id
// sorts after, or Len() when there is none.
func (r *Registry) InsertionIndex(id string) int {
	for i, hl := range r.highlights {
		if sortsAfter(id, hl.UniqueID) {
			return i
		}
	}

	return len(r.highlights)
}

func (r *Registry) InsertAt(i int, hl *Highlight) {
	if i < 0 || i > len(r.highlights) {
		panic(fmt.Sprintf("highlight: insert index %d out of range [0,%d]", i, len(r.highlights)))
	}

	r.highlights = append(r.highlights, nil)
	copy(r.highlights[i+1:], r.highlights[i:])
	r.highlights[i] = hl
}

func (r *Registry) RemoveAt(i int) *Highlight {
	hl := r.highlights[i]

	copy(r.highlights[i:], r.highlights[i+1:])
	r.highlights[len(r.highlights)-1] = nil
	r.highlights = r.highlights[:len(r.highlights)-1]

	return hl
}

// FindByID returns the first highlight with the given id and its index, or
// -1 and nil.
func (r *Registry) FindByID(id string) (int, *Highlight) {
	for i, hl := range r.highlights {
		if hl.UniqueID == id {
			return i, hl
		}
	}

	return -1, nil
}

// OnPage lists the highlights on a 1-indexed page, in registry order.
func (r *Registry) OnPage(pageNum int) []*Highlight {
	hls := []*Highlight{}

	for _, hl := range r.highlights {
		if hl.Selection.PageNum == pageNum {
			hls = append(hls, hl)
		}
	}

	return hls
}
