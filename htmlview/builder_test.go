package htmlview

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/research-exchange/pdfreview/highlight"
	"github.com/research-exchange/pdfreview/model"
)

type blankDocument struct {
	pages int
}

func (d blankDocument) NumPages(ctx context.Context) (int, error) {
	return d.pages, nil
}

func (d blankDocument) RenderPage(ctx context.Context, pageNum int, width int) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, width, 1400)), nil
}

func review() (*model.Article, *model.Review) {
	article := &model.Article{ID: 1, Name: "On Things"}
	rev := &model.Review{
		TopLevelComment: model.TopLevelComment{Comment: model.Comment{
			ID:      9,
			Content: "Mostly *really* good.\n<script>alert(1)</script>",
			Author:  model.Author{Username: "expert"},
		}},
		Status: model.NeedsWork,
		InlineComments: []model.InlineComment{{
			TopLevelComment: model.TopLevelComment{Comment: model.Comment{ID: 10, Content: "cite this"}},
			PdfSelection: model.PdfSelection{
				PageNum:           2,
				SelectedContent:   "Hello",
				HighlightSections: []model.SelectionRectangle{{X: 10, Y: 20, Width: 100, Height: 15}},
			},
		}},
	}
	return article, rev
}

func render(t *testing.T, b *Builder, view *highlight.DocumentView) *highlight.Rendered {
	t.Helper()

	log, _ := test.NewNullLogger()
	rendered, err := highlight.NewRenderer(log).Render(context.Background(), blankDocument{pages: 2}, view, highlight.RenderOptions{
		MountGroup: b.MountGroup,
	})
	require.NoError(t, err)

	return rendered
}

func TestWritePresentation(t *testing.T) {
	article, rev := review()
	p := highlight.NewPresentation(article, rev)
	defer p.View().Close()

	b := New("review", func(n int) string { return fmt.Sprintf("page-%d.png", n) })
	rendered := render(t, b, p.View())
	bar := p.Bar()
	b.BindBar(p.View(), bar.Inline)

	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf, rendered, bar))
	out := buf.String()

	assert.Contains(t, out, `src="page-1.png"`)
	assert.Contains(t, out, `src="page-2.png"`)
	assert.Contains(t, out, `id="hl-2_20_10"`)
	assert.Contains(t, out, `id="comment-2_20_10"`)
	assert.Contains(t, out, "left: 10px; top: 20px; width: 100px; height: 15px")
	assert.Contains(t, out, "<em>really</em>")
	assert.NotContains(t, out, "<script>alert")
	assert.Contains(t, out, "Inline Comments")
	assert.Contains(t, out, "Needs Work")
	assert.NotContains(t, out, "document.getElementById(\"hl-")
}

func TestScrolledHighlightIsFocused(t *testing.T) {
	article, rev := review()
	p := highlight.NewPresentation(article, rev)
	defer p.View().Close()

	b := New("review", func(n int) string { return "" })
	rendered := render(t, b, p.View())
	bar := p.Bar()
	b.BindBar(p.View(), bar.Inline)

	p.ScrollToHighlight(0)
	assert.True(t, b.Pulsing("2,20,10"))

	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf, rendered, bar))
	out := buf.String()

	assert.Contains(t, out, `class="highlight blink-highlight" id="hl-2_20_10"`)
	assert.Contains(t, out, `document.getElementById("hl-2_20_10")`)
}

func TestOverlayClickPulsesCommentRow(t *testing.T) {
	article, rev := review()
	p := highlight.NewPresentation(article, rev)
	defer p.View().Close()

	b := New("review", func(n int) string { return "" })
	rendered := render(t, b, p.View())
	b.BindBar(p.View(), p.Bar().Inline)

	rendered.ClickHighlight("2,20,10")

	row := b.node("comment-2_20_10")
	assert.True(t, row.Scrolled())
	assert.Equal(t, highlight.CommentPulseClass, row.Class())
}

func TestEmptyReviewHasNoInlineSection(t *testing.T) {
	article, rev := review()
	rev.InlineComments = nil
	p := highlight.NewPresentation(article, rev)

	b := New("review", func(n int) string { return "" })
	rendered := render(t, b, p.View())

	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf, rendered, p.Bar()))
	assert.NotContains(t, buf.String(), "Inline Comments")
	assert.NotContains(t, buf.String(), `class="highlight`)
	assert.NotContains(t, buf.String(), `class="add-comment"`)
}

func TestAddCommentButtonFloatsAtAnchor(t *testing.T) {
	article, rev := review()
	p := highlight.NewPresentation(article, rev)
	defer p.View().Close()

	b := New("review", func(n int) string { return "" })
	rendered := render(t, b, p.View())
	rendered.Extra = &highlight.AnchorPoint{X: 40, Y: 1010.5}

	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf, rendered, p.Bar()))
	assert.Contains(t, buf.String(), `<button class="add-comment" style="left: 40px; top: 1010.5px">Add Comment</button>`)
}

func TestFreezeKeepsPulseAfterItEnds(t *testing.T) {
	article, rev := review()
	p := highlight.NewPresentation(article, rev)
	defer p.View().Close()

	b := New("review", func(n int) string { return "" })
	rendered := render(t, b, p.View())
	bar := p.Bar()
	b.BindBar(p.View(), bar.Inline)

	p.ScrollToHighlight(0)
	b.Freeze()

	// the pulse timer fires while pages are still being written
	b.node("hl-2_20_10").RemoveClass(highlight.HighlightPulseClass)

	assert.True(t, b.Pulsing("2,20,10"))
	assert.False(t, b.Pulsing("1,0,0"))

	var buf bytes.Buffer
	require.NoError(t, b.Write(&buf, rendered, bar))
	assert.Contains(t, buf.String(), `class="highlight blink-highlight" id="hl-2_20_10"`)
	assert.Contains(t, buf.String(), `document.getElementById("hl-2_20_10")`)
}
