package highlight

import (
	"github.com/research-exchange/pdfreview/model"
)

const referencingLimit = 110

// Referencing shortens selected text for the comment bar. The limit is in
// UTF-16 code units, the way the web client measures text, but a surrogate
// pair is never split.
func Referencing(content string) string {
	units := 0

	for i, r := range content {
		units++
		if r > 0xFFFF {
			units++
		}
		if units > referencingLimit {
			return content[:i] + "..."
		}
	}

	return content
}

type BarItem struct {
	HighlightID string `json:"highlightId"`
	Referencing string `json:"referencing"`
	Content     string `json:"content"`
	CommentID   int64  `json:"commentId,omitempty"`
}

// ReviewBar is the comment bar shown next to a submitted review.
type ReviewBar struct {
	Reviewer     string                `json:"reviewer"`
	ArticleName  string                `json:"articleName"`
	Status       model.ReviewStatus    `json:"status"`
	Main         model.TopLevelComment `json:"main"`
	InlineTitle  string                `json:"inlineTitle,omitempty"`
	Inline       []BarItem             `json:"inline,omitempty"`
	StatusLocked bool                  `json:"statusLocked"`
}

// Presentation is the read-only view of a submitted review. Its registry
// is built once from the review's inline comments and never changes.
type Presentation struct {
	view    *DocumentView
	article *model.Article
	review  *model.Review
}

func NewPresentation(article *model.Article, review *model.Review) *Presentation {
	selections := make([]model.PdfSelection, 0, len(review.InlineComments))

	for _, ic := range review.InlineComments {
		selections = append(selections, ic.PdfSelection)
	}

	return &Presentation{
		view:    NewDocumentView(RegistryFrom(selections)),
		article: article,
		review:  review,
	}
}

func (p *Presentation) View() *DocumentView {
	return p.view
}

// ScrollToHighlight scrolls to the overlay of inline comment i.
func (p *Presentation) ScrollToHighlight(i int) {
	p.view.Linker.ScrollToHighlight(p.view.Registry.At(i).UniqueID)
}

func (p *Presentation) Bar() ReviewBar {
	bar := ReviewBar{
		Reviewer:    p.review.Author.Username,
		ArticleName: p.article.Name,
		Status:      p.review.Status,
		Main:        p.review.TopLevelComment,
		// status can only change until the article is approved
		StatusLocked: p.article.Approved,
	}

	if len(p.review.InlineComments) == 0 {
		return bar
	}

	bar.InlineTitle = "Inline Comments"

	for i, ic := range p.review.InlineComments {
		hl := p.view.Registry.At(i)
		bar.Inline = append(bar.Inline, BarItem{
			HighlightID: hl.UniqueID,
			Referencing: Referencing(hl.Selection.SelectedContent),
			Content:     ic.Content,
			CommentID:   ic.ID,
		})
	}

	return bar
}
