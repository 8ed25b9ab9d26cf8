package main

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/research-exchange/pdfreview/highlight"
	"github.com/research-exchange/pdfreview/htmlview"
	"github.com/research-exchange/pdfreview/model"
)

type ViewCmd struct {
	Article int64  `required:"" help:"Article id"`
	Review  int64  `help:"Expert review id. Without one, the article's reviews and comments are listed"`
	Out     string `short:"o" type:"path" help:"Output directory. Required with --review"`
	Format  string `short:"f" enum:"html,png,jpg" default:"html" help:"Output format. Supports html, png and jpg"`
	Quality int    `short:"q" default:"90" help:"Image quality. Only applies to jpg images"`
	Focus   int    `default:"-1" help:"Inline comment to scroll to and pulse"`
}

type viewOutput struct {
	Article int64               `json:"article"`
	Review  int64               `json:"review"`
	Bar     highlight.ReviewBar `json:"bar"`
	Pages   []*highlight.Page   `json:"pages"`
	Files   []string            `json:"files"`
}

// postSummary is one line of an article's discussion.
type postSummary struct {
	Kind      string             `json:"kind"`
	ID        int64              `json:"id"`
	Author    string             `json:"author"`
	Score     int                `json:"score"`
	Posted    string             `json:"datePosted"`
	Status    model.ReviewStatus `json:"status,omitempty"`
	Inline    int                `json:"inlineComments,omitempty"`
	Followups int                `json:"followups"`
}

func summarizePosts(article *model.Article) []postSummary {
	posts := article.Posts()
	out := make([]postSummary, 0, len(posts))

	for _, p := range posts {
		s := postSummary{
			Kind:      p.Kind.String(),
			ID:        p.Comment.ID,
			Author:    p.Comment.Author.Username,
			Score:     p.Comment.Score,
			Posted:    p.Comment.DatePosted,
			Followups: len(p.Comment.Followups),
		}
		if p.Review != nil {
			s.Status = p.Review.Status
			s.Inline = len(p.Review.InlineComments)
		}
		out = append(out, s)
	}

	return out
}

func (cmd *ViewCmd) listPosts(ctx context.Context, env *Env) error {
	article, err := env.Client.GetArticleWithComments(ctx, cmd.Article)
	if err != nil {
		return err
	}

	return logOutput(summarizePosts(article))
}

func (cmd *ViewCmd) Run(env *Env) error {
	ctx := context.Background()

	if cmd.Review == 0 {
		return cmd.listPosts(ctx, env)
	}
	if cmd.Out == "" {
		return errors.New("--out is required to render a review")
	}

	var (
		article *model.Article
		review  *model.Review
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		article, err = env.Client.GetArticle(gctx, cmd.Article)
		return err
	})
	g.Go(func() (err error) {
		review, err = env.Client.GetReview(gctx, cmd.Review)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	p := highlight.NewPresentation(article, review)
	defer p.View().Close()

	doc, err := openArticlePDF(ctx, env, article)
	if err != nil {
		return err
	}
	defer doc.Close()

	ext := imageExt(cmd.Format)
	b := htmlview.New(article.Name, func(n int) string { return pageFile(n, ext) })

	rendered, err := env.Renderer.Render(ctx, doc, p.View(), highlight.RenderOptions{MountGroup: b.MountGroup})
	if err != nil {
		return err
	}

	bar := p.Bar()
	b.BindBar(p.View(), bar.Inline)

	if cmd.Focus >= 0 {
		if cmd.Focus >= len(bar.Inline) {
			return errors.Errorf("review %d has %d inline comments", cmd.Review, len(bar.Inline))
		}
		p.ScrollToHighlight(cmd.Focus)
	}

	// pulses end on a timer; the output shows the moment after focusing
	b.Freeze()

	files, err := writeRendering(cmd.Out, cmd.Format, cmd.Quality, rendered, b, bar)
	if err != nil {
		return err
	}

	return logOutput(viewOutput{
		Article: cmd.Article,
		Review:  cmd.Review,
		Bar:     bar,
		Pages:   rendered.Pages,
		Files:   files,
	})
}
