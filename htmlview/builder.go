// Package htmlview writes a rendered document and its comment bar as a
// standalone HTML page.
package htmlview

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/research-exchange/pdfreview/highlight"
)

// Builder owns the nodes created for one page. Use MountGroup as the
// renderer's mount function and BindBar for the comment rows, then Write.
type Builder struct {
	Title string
	// ImageSrc is the src of a 1-indexed page image.
	ImageSrc func(pageNum int) string

	mu     sync.Mutex
	nodes  map[string]*Node
	frozen bool
	md     goldmark.Markdown
}

func New(title string, imageSrc func(pageNum int) string) *Builder {
	return &Builder{
		Title:    title,
		ImageSrc: imageSrc,
		nodes:    map[string]*Node{},
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

func (b *Builder) node(id string) *Node {
	b.mu.Lock()
	defer b.mu.Unlock()

	n, ok := b.nodes[id]
	if !ok {
		n = newNode(id)
		if b.frozen {
			n.freeze()
		}
		b.nodes[id] = n
	}

	return n
}

// Freeze fixes what every node shows from now on. Pulses still running
// when the page is written, long after Freeze, keep their class.
func (b *Builder) Freeze() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.frozen = true
	for _, n := range b.nodes {
		n.freeze()
	}
}

func (b *Builder) MountGroup(page *highlight.Page, group highlight.OverlayGroup) highlight.Element {
	return b.node(domID("hl-", group.HighlightID))
}

// BindBar creates a comment row for every bar item and binds it to its
// highlight.
func (b *Builder) BindBar(view *highlight.DocumentView, items []highlight.BarItem) {
	for _, item := range items {
		view.Anchors.BindComment(item.HighlightID, b.node(domID("comment-", item.HighlightID)))
	}
}

func (b *Builder) markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := b.md.Convert([]byte(src), &buf); err != nil {
		return "", errors.Wrap(err, "converting comment")
	}

	// raw HTML in the source is dropped by the renderer
	return template.HTML(buf.String()), nil
}

type rectData struct {
	Left, Top, Width, Height float64
}

type overlayData struct {
	ID        string
	Class     string
	CommentID string
	Rects     []rectData
}

type pageData struct {
	Number   int
	Width    int
	Height   int
	Src      string
	Overlays []overlayData
}

type itemData struct {
	ID          string
	HighlightID string
	Class       string
	Referencing string
	Content     template.HTML
}

type pageView struct {
	Title        string
	Reviewer     string
	ArticleName  string
	Status       string
	StatusLocked bool
	Main         template.HTML
	InlineTitle  string
	Items        []itemData
	Pages        []pageData
	Focus        string
	Pulse        map[string]int64
	Extra        *highlight.AnchorPoint
}

func (b *Builder) Write(w io.Writer, rendered *highlight.Rendered, bar highlight.ReviewBar) error {
	main, err := b.markdown(bar.Main.Content)
	if err != nil {
		return err
	}

	data := pageView{
		Title:        b.Title,
		Reviewer:     bar.Reviewer,
		ArticleName:  bar.ArticleName,
		Status:       string(bar.Status),
		StatusLocked: bar.StatusLocked,
		Main:         main,
		InlineTitle:  bar.InlineTitle,
		Extra:        rendered.Extra,
		Pulse: map[string]int64{
			highlight.CommentPulseClass:   highlight.CommentPulse.Milliseconds(),
			highlight.HighlightPulseClass: highlight.HighlightPulse.Milliseconds(),
		},
	}

	for _, item := range bar.Inline {
		content, err := b.markdown(item.Content)
		if err != nil {
			return err
		}

		n := b.node(domID("comment-", item.HighlightID))
		if n.Scrolled() && data.Focus == "" {
			data.Focus = n.ID
		}

		data.Items = append(data.Items, itemData{
			ID:          n.ID,
			HighlightID: domID("hl-", item.HighlightID),
			Class:       n.Class(),
			Referencing: item.Referencing,
			Content:     content,
		})
	}

	for _, p := range rendered.Pages {
		pd := pageData{
			Number: p.Number,
			Width:  p.Width,
			Height: p.Height,
			Src:    b.ImageSrc(p.Number),
		}

		for _, o := range p.Overlays {
			n := b.node(domID("hl-", o.HighlightID))
			if n.Scrolled() && data.Focus == "" {
				data.Focus = n.ID
			}

			od := overlayData{
				ID:        n.ID,
				Class:     n.Class(),
				CommentID: domID("comment-", o.HighlightID),
			}
			for _, r := range o.Rects {
				od.Rects = append(od.Rects, rectData{Left: r.X, Top: r.Y, Width: r.Width, Height: r.Height})
			}

			pd.Overlays = append(pd.Overlays, od)
		}

		data.Pages = append(data.Pages, pd)
	}

	return errors.Wrap(pageTemplate.Execute(w, data), "writing page")
}

func px(v interface{}) template.CSS {
	return template.CSS(fmt.Sprintf("%vpx", v))
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{"px": px}).Parse(pageHTML))

// Pulsing reports whether the overlay of a highlight is currently pulsed.
func (b *Builder) Pulsing(highlightID string) bool {
	return b.node(domID("hl-", highlightID)).HasClass(highlight.HighlightPulseClass)
}
