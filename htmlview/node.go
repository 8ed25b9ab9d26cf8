package htmlview

import (
	"sort"
	"strings"
	"sync"

	"github.com/research-exchange/pdfreview/highlight"
)

// Node is an element of the generated page. Scroll and class changes made
// before the page is written show up in its markup, or those made before
// Freeze when the builder was frozen.
type Node struct {
	ID string

	mu       sync.Mutex
	classes  map[string]bool
	scrolled bool
	frozen   *nodeState
}

type nodeState struct {
	classes  map[string]bool
	scrolled bool
}

func newNode(id string) *Node {
	return &Node{ID: id, classes: map[string]bool{}}
}

func (n *Node) ScrollIntoView(opts highlight.ScrollOptions) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.scrolled = true
}

func (n *Node) AddClass(class string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.classes[class] = true
}

func (n *Node) RemoveClass(class string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.classes, class)
}

func (n *Node) freeze() {
	n.mu.Lock()
	defer n.mu.Unlock()

	state := &nodeState{classes: make(map[string]bool, len(n.classes)), scrolled: n.scrolled}
	for c := range n.classes {
		state.classes[c] = true
	}
	n.frozen = state
}

// state is what the markup shows. Callers hold n.mu.
func (n *Node) state() nodeState {
	if n.frozen != nil {
		return *n.frozen
	}
	return nodeState{classes: n.classes, scrolled: n.scrolled}
}

func (n *Node) HasClass(class string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state().classes[class]
}

func (n *Node) Class() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	st := n.state()
	classes := make([]string, 0, len(st.classes))
	for c := range st.classes {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	return strings.Join(classes, " ")
}

func (n *Node) Scrolled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state().scrolled
}

var idReplacer = strings.NewReplacer(",", "_", ".", "-")

func domID(prefix, highlightID string) string {
	return prefix + idReplacer.Replace(highlightID)
}
