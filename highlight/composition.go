package highlight

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/research-exchange/pdfreview/model"
)

type State int

const (
	Idle State = iota
	Selecting
)

func (s State) String() string {
	if s == Selecting {
		return "selecting"
	}
	return "idle"
}

var (
	ErrValidation         = errors.New("review is incomplete")
	ErrDuplicateHighlight = errors.New("highlight already has a comment")
)

// ValidationError lists the form fields that failed required checks.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrValidation, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Cause() error { return ErrValidation }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ReviewSubmitter sends a finished review to the backend.
type ReviewSubmitter interface {
	PostReview(ctx context.Context, articleID int64, req model.ReviewRequest) error
}

// Composition is the authoring flow for one review. The registry and the
// comment rows are only changed here, always together, so that row i
// always holds the comment for highlight i. A Composition is driven by a
// single author and is not safe for concurrent use.
type Composition struct {
	view     *DocumentView
	comments []string

	state      State
	pending    *model.PdfSelection
	affordance AnchorPoint
}

func NewComposition() *Composition {
	return &Composition{view: NewDocumentView(nil)}
}

func (c *Composition) View() *DocumentView {
	return c.view
}

func (c *Composition) State() State {
	return c.state
}

func (c *Composition) Pending() *model.PdfSelection {
	return c.pending
}

// Affordance is where the "Add Comment" button goes while selecting.
func (c *Composition) Affordance() *AnchorPoint {
	if c.state != Selecting {
		return nil
	}

	a := c.affordance
	return &a
}

// HandlePageClick reads the selection left behind by a click on a page.
// A blank selection drops back to Idle.
func (c *Composition) HandlePageClick(sel NativeSelection, page PageDescriptor) {
	pending, anchor, ok := Capture(sel, page)
	if !ok {
		c.clearPending()
		return
	}

	c.pending = pending
	c.affordance = anchor
	c.state = Selecting
}

// ClearSelection is called when the selection goes away without a commit.
func (c *Composition) ClearSelection() {
	c.clearPending()
}

func (c *Composition) clearPending() {
	c.pending = nil
	c.affordance = AnchorPoint{}
	c.state = Idle
}

// AddComment commits the pending selection and opens an empty comment row
// at the same index. It returns the index, or -1 when nothing was pending
// or the same highlight is already committed.
func (c *Composition) AddComment() (int, error) {
	if c.pending == nil {
		return -1, nil
	}

	hl := NewHighlight(*c.pending)
	c.clearPending()

	reg := c.view.Registry
	if i, _ := reg.FindByID(hl.UniqueID); i >= 0 {
		return -1, errors.Wrapf(ErrDuplicateHighlight, "highlight %s", hl.UniqueID)
	}

	i := reg.InsertionIndex(hl.UniqueID)
	reg.InsertAt(i, hl)
	c.comments = append(c.comments, "")
	copy(c.comments[i+1:], c.comments[i:])
	c.comments[i] = ""

	return i, nil
}

// RemoveComment drops highlight i and its comment row.
func (c *Composition) RemoveComment(i int) {
	if i < 0 || i >= len(c.comments) {
		panic(fmt.Sprintf("highlight: remove index %d out of range [0,%d)", i, len(c.comments)))
	}

	hl := c.view.Registry.RemoveAt(i)
	c.comments = append(c.comments[:i], c.comments[i+1:]...)
	c.view.Anchors.Unbind(hl.UniqueID)
}

func (c *Composition) SetComment(i int, text string) {
	c.comments[i] = text
}

func (c *Composition) Comments() []string {
	return append([]string(nil), c.comments...)
}

func (c *Composition) Len() int {
	return c.view.Registry.Len()
}

// ScrollToHighlight scrolls to the overlay of highlight i.
func (c *Composition) ScrollToHighlight(i int) {
	c.view.Linker.ScrollToHighlight(c.view.Registry.At(i).UniqueID)
}

// Bar lists one entry per highlight, in registry order.
func (c *Composition) Bar() []BarItem {
	items := make([]BarItem, 0, c.Len())

	for i, hl := range c.view.Registry.All() {
		items = append(items, BarItem{
			HighlightID: hl.UniqueID,
			Referencing: Referencing(hl.Selection.SelectedContent),
			Content:     c.comments[i],
		})
	}

	return items
}

// BuildReview validates the form and pairs every comment row with its
// highlight's selection.
func (c *Composition) BuildReview(author, mainComment string, status model.ReviewStatus) (model.ReviewRequest, error) {
	missing := []string{}

	if strings.TrimSpace(mainComment) == "" {
		missing = append(missing, "mainComment")
	}

	if _, err := model.ParseReviewStatus(string(status)); err != nil {
		missing = append(missing, "status")
	}

	for i, comment := range c.comments {
		if strings.TrimSpace(comment) == "" {
			missing = append(missing, fmt.Sprintf("inlineComments.%d", i))
		}
	}

	if len(missing) > 0 {
		return model.ReviewRequest{}, &ValidationError{Fields: missing}
	}

	inline := make([]model.InlineCommentData, 0, len(c.comments))

	for i, comment := range c.comments {
		inline = append(inline, model.InlineCommentData{
			Content:      comment,
			PdfSelection: c.view.Registry.At(i).Selection,
		})
	}

	return model.ReviewRequest{
		Author:         author,
		Content:        mainComment,
		Status:         status,
		InlineComments: inline,
	}, nil
}

// Submit validates locally and only then posts the review.
func (c *Composition) Submit(
	ctx context.Context,
	sub ReviewSubmitter,
	articleID int64,
	author string,
	mainComment string,
	status model.ReviewStatus,
) (model.ReviewRequest, error) {
	req, err := c.BuildReview(author, mainComment, status)
	if err != nil {
		return req, err
	}

	if err := sub.PostReview(ctx, articleID, req); err != nil {
		return req, errors.Wrap(err, "submitting review")
	}

	return req, nil
}
