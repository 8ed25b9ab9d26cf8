package highlight

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/research-exchange/pdfreview/model"
)

func testRenderer() *Renderer {
	log, _ := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return NewRenderer(log)
}

func TestRenderOverlaysHighlightsOnTheirPage(t *testing.T) {
	view := NewDocumentView(RegistryFrom([]model.PdfSelection{
		{PageNum: 2, SelectedContent: "a", HighlightSections: []model.SelectionRectangle{{X: 10, Y: 20, Width: 100, Height: 15}}},
		{PageNum: 1, SelectedContent: "b", HighlightSections: []model.SelectionRectangle{{X: 1, Y: 2, Width: 3, Height: 4}, {X: 1, Y: 8, Width: 3, Height: 4}}},
		{PageNum: 2, SelectedContent: "c", HighlightSections: []model.SelectionRectangle{{X: 5, Y: 6, Width: 7, Height: 8}}},
	}))

	mounted := map[string]*fakeElement{}
	rendered, err := testRenderer().Render(context.Background(), fakeDocument{pages: 3, height: 1300}, view, RenderOptions{
		MountGroup: func(page *Page, group OverlayGroup) Element {
			el := newFakeElement(group.HighlightID)
			mounted[group.HighlightID] = el
			return el
		},
	})
	require.NoError(t, err)
	require.Len(t, rendered.Pages, 3)

	for i, p := range rendered.Pages {
		assert.Equal(t, i+1, p.Number)
		assert.Equal(t, CanonicalWidth, p.Width)
		assert.Equal(t, float64(i*1300), p.Descriptor.Box.Y.Lo)
	}

	require.Len(t, rendered.Pages[0].Overlays, 1)
	assert.Len(t, rendered.Pages[0].Overlays[0].Rects, 2)
	require.Len(t, rendered.Pages[1].Overlays, 2)
	assert.Equal(t, "2,20,10", rendered.Pages[1].Overlays[0].HighlightID)
	assert.Equal(t, "c", rendered.Pages[1].Overlays[1].Key)
	assert.Empty(t, rendered.Pages[2].Overlays)
	assert.Equal(t, 3, rendered.OverlayCount())

	box, ok := view.Anchors.HighlightBox("2,20,10")
	require.True(t, ok)
	assert.Same(t, mounted["2,20,10"], box)
}

func TestClickHighlightScrollsToComment(t *testing.T) {
	view := NewDocumentView(RegistryFrom([]model.PdfSelection{
		{PageNum: 1, HighlightSections: []model.SelectionRectangle{{X: 1, Y: 2}}},
	}))
	timers := &fakeTimers{}
	view.Linker.after = timers.after

	rendered, err := testRenderer().Render(context.Background(), fakeDocument{pages: 1, height: 10}, view, RenderOptions{})
	require.NoError(t, err)

	row := newFakeElement("row")
	view.Anchors.BindComment("1,2,1", row)

	rendered.ClickHighlight("1,2,1")
	assert.Len(t, row.scrolls, 1)
	assert.True(t, row.classes[CommentPulseClass])
}

func TestClickPageForwardsDescriptor(t *testing.T) {
	var got []PageDescriptor
	rendered, err := testRenderer().Render(context.Background(), fakeDocument{pages: 2, height: 100}, NewDocumentView(nil), RenderOptions{
		OnPageClick: func(_ ClickEvent, page PageDescriptor) { got = append(got, page) },
	})
	require.NoError(t, err)

	rendered.ClickPage(2, ClickEvent{X: 5, Y: 150})
	rendered.ClickPage(3, ClickEvent{})

	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Number)
	assert.Equal(t, 100.0, got[0].Box.Y.Lo)
}

func TestRenderFailsWhenAPageFails(t *testing.T) {
	_, err := testRenderer().Render(context.Background(), fakeDocument{pages: 2, height: 10, err: errors.New("corrupt")}, NewDocumentView(nil), RenderOptions{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt")
}
