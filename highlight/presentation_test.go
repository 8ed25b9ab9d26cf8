package highlight

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/research-exchange/pdfreview/model"
)

func inlineComment(id int64, content string, sel model.PdfSelection) model.InlineComment {
	ic := model.InlineComment{PdfSelection: sel}
	ic.ID = id
	ic.Content = content
	return ic
}

func TestPresentationWithoutInlineComments(t *testing.T) {
	article := &model.Article{ID: 1, Name: "On Things"}
	review := &model.Review{Status: model.Approved, InlineComments: []model.InlineComment{}}
	review.Author.Username = "expert"

	p := NewPresentation(article, review)
	rendered, err := testRenderer().Render(context.Background(), fakeDocument{pages: 2, height: 50}, p.View(), RenderOptions{})
	require.NoError(t, err)

	assert.Zero(t, rendered.OverlayCount())

	bar := p.Bar()
	assert.Empty(t, bar.InlineTitle)
	assert.Empty(t, bar.Inline)
	assert.Equal(t, "expert", bar.Reviewer)
	assert.Equal(t, "On Things", bar.ArticleName)
}

func TestPresentationKeepsServerOrder(t *testing.T) {
	article := &model.Article{ID: 1, Approved: true}
	review := &model.Review{Status: model.NeedsWork}
	review.InlineComments = []model.InlineComment{
		inlineComment(11, "first", model.PdfSelection{PageNum: 1, SelectedContent: "x", HighlightSections: []model.SelectionRectangle{{X: 1, Y: 30}}}),
		inlineComment(12, "second", model.PdfSelection{PageNum: 1, SelectedContent: "y", HighlightSections: []model.SelectionRectangle{{X: 1, Y: 4}}}),
	}

	p := NewPresentation(article, review)
	bar := p.Bar()

	assert.Equal(t, "Inline Comments", bar.InlineTitle)
	require.Len(t, bar.Inline, 2)
	assert.Equal(t, "1,30,1", bar.Inline[0].HighlightID)
	assert.Equal(t, int64(12), bar.Inline[1].CommentID)
	assert.Equal(t, "second", bar.Inline[1].Content)
	assert.True(t, bar.StatusLocked)
}

func TestPresentationScrollToHighlight(t *testing.T) {
	review := &model.Review{}
	review.InlineComments = []model.InlineComment{
		inlineComment(1, "c", model.PdfSelection{PageNum: 1, HighlightSections: []model.SelectionRectangle{{X: 2, Y: 3}}}),
	}

	p := NewPresentation(&model.Article{}, review)
	timers := &fakeTimers{}
	p.View().Linker.after = timers.after

	box := newFakeElement("box")
	p.View().Anchors.BindHighlightBox("1,3,2", box)

	p.ScrollToHighlight(0)
	assert.True(t, box.classes[HighlightPulseClass])
	assert.Equal(t, HighlightPulse, timers.pending[0].d)
}

func TestReferencingCountsUTF16Units(t *testing.T) {
	a := func(n int) string { return strings.Repeat("a", n) }
	smile := func(n int) string { return strings.Repeat("😀", n) }

	assert.Equal(t, a(110), Referencing(a(110)))
	assert.Equal(t, a(110)+"...", Referencing(a(111)))
	assert.Equal(t, strings.Repeat("é", 110), Referencing(strings.Repeat("é", 110)))

	// astral runes are two units each
	assert.Equal(t, smile(55), Referencing(smile(55)))
	assert.Equal(t, smile(55)+"...", Referencing(smile(56)))

	// the pair straddling the limit is dropped whole
	assert.Equal(t, a(109)+"...", Referencing(a(109)+smile(1)))
}
