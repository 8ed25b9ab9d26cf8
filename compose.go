package main

import (
	"context"
	"os"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/research-exchange/pdfreview/api"
	"github.com/research-exchange/pdfreview/highlight"
	"github.com/research-exchange/pdfreview/htmlview"
	"github.com/research-exchange/pdfreview/model"
)

var errNotExpert = errors.New("only experts can review articles")

// scriptSelection is a text selection read from a compose script. Rects
// are relative to the top-left corner of the page.
type scriptSelection struct {
	Page  int                        `yaml:"page"`
	Text  string                     `yaml:"text"`
	Rects []model.SelectionRectangle `yaml:"rects"`

	origin r2.Point
}

func (s *scriptSelection) String() string {
	return s.Text
}

func (s *scriptSelection) ClientRects() []r2.Rect {
	rects := make([]r2.Rect, 0, len(s.Rects))
	for _, r := range s.Rects {
		rect := r.R2()
		rects = append(rects, r2.RectFromPoints(rect.Lo().Add(s.origin), rect.Hi().Add(s.origin)))
	}
	return rects
}

func (s *scriptSelection) BoundingClientRect() r2.Rect {
	bound := r2.EmptyRect()
	for _, r := range s.ClientRects() {
		bound = bound.Union(r)
	}
	return bound
}

type commentStep struct {
	Index int    `yaml:"index"`
	Text  string `yaml:"text"`
}

// composeStep is one user action. Exactly one field is expected to be set.
type composeStep struct {
	Select  *scriptSelection `yaml:"select"`
	Add     bool             `yaml:"add"`
	Comment *commentStep     `yaml:"comment"`
	Remove  *int             `yaml:"remove"`
	Clear   bool             `yaml:"clear"`
}

type composeScript struct {
	Main   string        `yaml:"main"`
	Status string        `yaml:"status"`
	Steps  []composeStep `yaml:"steps"`
}

func loadScript(path string) (*composeScript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	script := &composeScript{}
	if err := yaml.Unmarshal(data, script); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}

	return script, nil
}

type ComposeCmd struct {
	Article int64  `required:"" help:"Article id"`
	Main    string `help:"Main comment. Overrides the script"`
	Status  string `help:"Review status: Approved, Needs Work or Rejected. Overrides the script"`
	DryRun  bool   `help:"Validate and print the review without submitting it"`
	Edit    bool   `help:"Replace your existing review of the article instead of posting a new one"`
	Out     string `type:"path" help:"Also write an HTML preview of the review to this directory"`

	Script string `arg:"" name:"script" type:"existingfile" help:"YAML script of selections and comments"`
}

// reviewEditor submits by replacing the author's review of the article.
type reviewEditor struct {
	client *api.Client
}

func (e reviewEditor) PostReview(ctx context.Context, articleID int64, req model.ReviewRequest) error {
	return e.client.EditReview(ctx, articleID, req)
}

func (cmd *ComposeCmd) submitter(client *api.Client) highlight.ReviewSubmitter {
	if cmd.Edit {
		return reviewEditor{client: client}
	}
	return client
}

func (cmd *ComposeCmd) Run(env *Env) error {
	ctx := context.Background()

	if env.User == nil {
		return errors.Wrap(errNotExpert, "log in first")
	}
	if !env.User.IsExpert() {
		return errors.Wrapf(errNotExpert, "%s is not an expert", env.User.Sub)
	}

	script, err := loadScript(cmd.Script)
	if err != nil {
		return err
	}

	article, err := env.Client.GetArticle(ctx, cmd.Article)
	if err != nil {
		return err
	}

	doc, err := openArticlePDF(ctx, env, article)
	if err != nil {
		return err
	}
	defer doc.Close()

	comp := highlight.NewComposition()
	defer comp.View().Close()

	var current highlight.NativeSelection

	rendered, err := env.Renderer.Render(ctx, doc, comp.View(), highlight.RenderOptions{
		OnPageClick: func(ev highlight.ClickEvent, page highlight.PageDescriptor) {
			comp.HandlePageClick(current, page)
		},
	})
	if err != nil {
		return err
	}

	if err := runSteps(env.Log, comp, rendered, script.Steps, func(sel highlight.NativeSelection) { current = sel }); err != nil {
		return err
	}

	mainComment := script.Main
	if cmd.Main != "" {
		mainComment = cmd.Main
	}

	status := model.ReviewStatus(script.Status)
	if cmd.Status != "" {
		status = model.ReviewStatus(cmd.Status)
	}
	if parsed, err := model.ParseReviewStatus(string(status)); err == nil {
		status = parsed
	}

	var req model.ReviewRequest

	if cmd.DryRun {
		req, err = comp.BuildReview(env.User.Sub, mainComment, status)
	} else {
		req, err = comp.Submit(ctx, cmd.submitter(env.Client), cmd.Article, env.User.Sub, mainComment, status)
	}
	if err != nil {
		return err
	}

	if cmd.Out != "" {
		if err := writePreview(ctx, env, cmd.Out, doc, comp, article, req); err != nil {
			return err
		}
	}

	return logOutput(req)
}

// runSteps replays a script against the composition. A selection step
// selects the text and clicks its page.
func runSteps(
	log logrus.FieldLogger,
	comp *highlight.Composition,
	rendered *highlight.Rendered,
	steps []composeStep,
	setSelection func(highlight.NativeSelection),
) error {
	for n, step := range steps {
		stepLog := log.WithField("step", n)

		switch {
		case step.Select != nil:
			sel := step.Select
			if sel.Page < 1 || sel.Page > len(rendered.Pages) {
				return errors.Errorf("step %d: no page %d", n, sel.Page)
			}

			sel.origin = rendered.Pages[sel.Page-1].Descriptor.Box.Lo()
			setSelection(sel)
			rendered.ClickPage(sel.Page, highlight.ClickEvent{})

			stepLog.WithField("state", comp.State()).Debug("page clicked")

		case step.Add:
			i, err := comp.AddComment()
			if errors.Is(err, highlight.ErrDuplicateHighlight) {
				stepLog.WithError(err).Warn("highlight already has a comment")
				continue
			}
			if err != nil {
				return errors.Wrapf(err, "step %d", n)
			}
			if i < 0 {
				stepLog.Debug("nothing pending")
				continue
			}

			stepLog.WithField("index", i).Debug("comment added")

		case step.Comment != nil:
			if step.Comment.Index < 0 || step.Comment.Index >= comp.Len() {
				return errors.Errorf("step %d: no comment %d", n, step.Comment.Index)
			}
			comp.SetComment(step.Comment.Index, step.Comment.Text)

		case step.Remove != nil:
			if *step.Remove < 0 || *step.Remove >= comp.Len() {
				return errors.Errorf("step %d: no comment %d", n, *step.Remove)
			}
			comp.RemoveComment(*step.Remove)

		case step.Clear:
			comp.ClearSelection()

		default:
			return errors.Errorf("step %d does nothing", n)
		}
	}

	return nil
}

func writePreview(
	ctx context.Context,
	env *Env,
	dir string,
	doc highlight.Document,
	comp *highlight.Composition,
	article *model.Article,
	req model.ReviewRequest,
) error {
	b := htmlview.New(article.Name, func(n int) string { return pageFile(n, "png") })

	rendered, err := env.Renderer.Render(ctx, doc, comp.View(), highlight.RenderOptions{
		MountGroup: b.MountGroup,
		Extra:      comp.Affordance(),
	})
	if err != nil {
		return err
	}

	bar := highlight.ReviewBar{
		Reviewer:    req.Author,
		ArticleName: article.Name,
		Status:      req.Status,
		Main:        model.TopLevelComment{Comment: model.Comment{Content: req.Content}},
		Inline:      comp.Bar(),
	}
	if len(bar.Inline) > 0 {
		bar.InlineTitle = "Inline Comments"
	}
	b.BindBar(comp.View(), bar.Inline)

	files, err := writeRendering(dir, "html", 0, rendered, b, bar)
	if err != nil {
		return err
	}

	env.Log.WithField("files", len(files)).Info("preview written")

	return nil
}
