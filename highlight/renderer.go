package highlight

import (
	"context"
	"image"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/research-exchange/pdfreview/model"
)

// CanonicalWidth is the pixel width every page is rendered at. Highlight
// sections are only meaningful against this width.
const CanonicalWidth = 1000

// Document is the PDF rendering engine.
type Document interface {
	NumPages(ctx context.Context) (int, error)
	// RenderPage renders a 1-indexed page scaled to the given pixel width.
	RenderPage(ctx context.Context, pageNum int, width int) (image.Image, error)
}

// DocumentView is the state of one open document: its highlights and the
// handles the rendering layer bound for them. Create one per opened view
// and Close it when the view goes away.
type DocumentView struct {
	Registry *Registry
	Anchors  *Anchors
	Linker   *Linker
}

func NewDocumentView(reg *Registry) *DocumentView {
	if reg == nil {
		reg = NewRegistry()
	}

	anchors := NewAnchors()

	return &DocumentView{
		Registry: reg,
		Anchors:  anchors,
		Linker:   NewLinker(anchors),
	}
}

func (v *DocumentView) Close() {
	v.Anchors.Reset()
}

// OverlayGroup is the clickable group drawn for one highlight. Rects are
// used as left/top/width/height directly.
type OverlayGroup struct {
	HighlightID string                     `json:"highlightId"`
	Key         string                     `json:"key"`
	Rects       []model.SelectionRectangle `json:"rects"`
}

type Page struct {
	Descriptor PageDescriptor `json:"-"`
	Number     int            `json:"page"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Image      image.Image    `json:"-"`
	Overlays   []OverlayGroup `json:"overlays"`
}

type ClickEvent struct {
	X float64
	Y float64
}

type PageClickFunc func(ev ClickEvent, page PageDescriptor)

type RenderOptions struct {
	OnPageClick PageClickFunc
	// Extra is where to float the "Add Comment" button, if anywhere.
	Extra *AnchorPoint
	// MountGroup creates the element for an overlay group. The returned
	// handle is bound as the highlight's overlay anchor.
	MountGroup func(page *Page, group OverlayGroup) Element
}

// Rendered is a document laid out page after page, top to bottom.
type Rendered struct {
	Pages []*Page      `json:"pages"`
	Extra *AnchorPoint `json:"extra,omitempty"`

	view        *DocumentView
	onPageClick PageClickFunc
}

// ClickHighlight is what happens when an overlay group is clicked.
func (r *Rendered) ClickHighlight(id string) {
	r.view.Linker.ScrollToComment(id)
}

// ClickPage forwards a click on a 1-indexed page to the page click handler.
func (r *Rendered) ClickPage(pageNum int, ev ClickEvent) {
	if r.onPageClick == nil || pageNum < 1 || pageNum > len(r.Pages) {
		return
	}

	r.onPageClick(ev, r.Pages[pageNum-1].Descriptor)
}

func (r *Rendered) OverlayCount() int {
	n := 0

	for _, p := range r.Pages {
		n += len(p.Overlays)
	}

	return n
}

type Renderer struct {
	Width int
	Log   logrus.FieldLogger
}

func NewRenderer(log logrus.FieldLogger) *Renderer {
	return &Renderer{Width: CanonicalWidth, Log: log}
}

// Render asks the document for its page count, renders every page and
// lays the view's highlights over the page they belong to.
func (r *Renderer) Render(ctx context.Context, doc Document, view *DocumentView, opts RenderOptions) (*Rendered, error) {
	numPages, err := doc.NumPages(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "reading page count")
	}

	r.Log.WithField("pages", numPages).Debug("document loaded")

	images := make([]image.Image, numPages)
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < numPages; i++ {
		i := i
		g.Go(func() error {
			img, err := doc.RenderPage(gctx, i+1, r.Width)
			if err != nil {
				return errors.Wrapf(err, "rendering page %d", i+1)
			}

			images[i] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	rendered := &Rendered{
		Pages:       make([]*Page, 0, numPages),
		Extra:       opts.Extra,
		view:        view,
		onPageClick: opts.OnPageClick,
	}

	top := 0.0

	for i, img := range images {
		bounds := img.Bounds()
		page := &Page{
			Number: i + 1,
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
			Image:  img,
			Descriptor: PageDescriptor{
				Number: i + 1,
				Box: r2.RectFromPoints(
					r2.Point{X: 0, Y: top},
					r2.Point{X: float64(bounds.Dx()), Y: top + float64(bounds.Dy())},
				),
			},
		}
		top += float64(bounds.Dy())

		for _, hl := range view.Registry.OnPage(i + 1) {
			group := OverlayGroup{
				HighlightID: hl.UniqueID,
				Key:         hl.Selection.SelectedContent,
				Rects:       hl.Selection.HighlightSections,
			}
			page.Overlays = append(page.Overlays, group)

			if opts.MountGroup != nil {
				view.Anchors.BindHighlightBox(hl.UniqueID, opts.MountGroup(page, group))
			}
		}

		r.Log.WithFields(logrus.Fields{
			"page":     page.Number,
			"overlays": len(page.Overlays),
		}).Debug("page rendered")

		rendered.Pages = append(rendered.Pages, page)
	}

	return rendered, nil
}
