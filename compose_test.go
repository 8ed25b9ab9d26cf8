package main

import (
	"context"
	"encoding/base64"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/research-exchange/pdfreview/api"
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

const script = `
main: Solid work.
status: needs work
steps:
  - select:
      page: 2
      text: Hello
      rects:
        - {x: 10, y: 20, width: 100, height: 15}
  - add: true
  - comment: {index: 0, text: cite this}
  - select:
      page: 1
      text: World
      rects:
        - {x: 5, y: 5, width: 50, height: 15}
  - add: true
  - select:
      page: 2
      text: Hello
      rects:
        - {x: 10, y: 20, width: 100, height: 15}
  - add: true
  - comment: {index: 1, text: first page}
`

func writeScript(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

// renderBlank renders a blank two page document for comp. The returned
// function sets the selection the next page click reads.
func renderBlank(t *testing.T, comp *highlight.Composition) (*highlight.Rendered, func(highlight.NativeSelection)) {
	t.Helper()

	log, _ := test.NewNullLogger()

	var current highlight.NativeSelection
	rendered, err := highlight.NewRenderer(log).Render(context.Background(), blankDocument{pages: 2}, comp.View(), highlight.RenderOptions{
		OnPageClick: func(ev highlight.ClickEvent, page highlight.PageDescriptor) {
			comp.HandlePageClick(current, page)
		},
	})
	require.NoError(t, err)

	return rendered, func(sel highlight.NativeSelection) { current = sel }
}

func TestRunSteps(t *testing.T) {
	s, err := loadScript(writeScript(t, script))
	require.NoError(t, err)
	assert.Equal(t, "Solid work.", s.Main)
	require.Len(t, s.Steps, 8)

	comp := highlight.NewComposition()
	rendered, setSelection := renderBlank(t, comp)
	log, hook := test.NewNullLogger()

	require.NoError(t, runSteps(log, comp, rendered, s.Steps, setSelection))

	// the second selection of the same text is rejected
	assert.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, highlight.Idle, comp.State())

	status, err := model.ParseReviewStatus(s.Status)
	require.NoError(t, err)

	req, err := comp.BuildReview("expert", s.Main, status)
	require.NoError(t, err)

	// "1,5,5" does not sort after "2,20,10" so it goes last
	require.Len(t, req.InlineComments, 2)
	assert.Equal(t, "cite this", req.InlineComments[0].Content)
	assert.Equal(t, []model.SelectionRectangle{{X: 10, Y: 20, Width: 100, Height: 15}}, req.InlineComments[0].HighlightSections)
	assert.Equal(t, "first page", req.InlineComments[1].Content)
	assert.Equal(t, 1, req.InlineComments[1].PageNum)
	assert.Equal(t, model.NeedsWork, req.Status)
}

func TestRunStepsRejectsBadSteps(t *testing.T) {
	log, _ := test.NewNullLogger()

	cases := map[string]string{
		"unknown page":  "steps:\n  - select: {page: 3, text: x, rects: [{x: 1, y: 1, width: 1, height: 1}]}\n",
		"empty step":    "steps:\n  - {}\n",
		"no comment":    "steps:\n  - comment: {index: 0, text: x}\n",
		"remove absent": "steps:\n  - remove: 2\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := loadScript(writeScript(t, content))
			require.NoError(t, err)

			comp := highlight.NewComposition()
			rendered, setSelection := renderBlank(t, comp)

			assert.Error(t, runSteps(log, comp, rendered, s.Steps, setSelection))
		})
	}
}

func TestClearStep(t *testing.T) {
	s, err := loadScript(writeScript(t, `
steps:
  - select: {page: 1, text: Hi, rects: [{x: 1, y: 2, width: 3, height: 4}]}
  - clear: true
  - add: true
`))
	require.NoError(t, err)

	comp := highlight.NewComposition()
	rendered, setSelection := renderBlank(t, comp)
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	require.NoError(t, runSteps(log, comp, rendered, s.Steps, setSelection))
	assert.Equal(t, 0, comp.Len())

	messages := []string{}
	for _, e := range hook.AllEntries() {
		messages = append(messages, e.Message)
	}
	assert.Equal(t, "nothing pending", hook.LastEntry().Message)
	assert.NotContains(t, messages, "comment added")
}

func TestScriptSelectionIsInClientSpace(t *testing.T) {
	sel := &scriptSelection{
		Page:  2,
		Text:  "x",
		Rects: []model.SelectionRectangle{{X: 10, Y: 20, Width: 100, Height: 15}, {X: 0, Y: 35, Width: 40, Height: 15}},
	}
	sel.origin.Y = 1400

	rects := sel.ClientRects()
	require.Len(t, rects, 2)
	assert.Equal(t, 1420.0, rects[0].Y.Lo)

	bound := sel.BoundingClientRect()
	assert.Equal(t, 0.0, bound.X.Lo)
	assert.Equal(t, 110.0, bound.X.Hi)
	assert.Equal(t, 1450.0, bound.Y.Hi)
}

func TestNewEnvPrefersFlagToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	claims := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"saved","roles":["User"],"id":1}`))
	require.NoError(t, api.SaveCredentials(path, &api.Credentials{Token: "h." + claims + ".s", Username: "saved"}))

	env, err := newEnv(&Globals{LogLevel: "info", LogFormat: "text", Width: 1000, Credentials: path})
	require.NoError(t, err)
	require.NotNil(t, env.User)
	assert.Equal(t, "saved", env.User.Sub)
	assert.False(t, env.User.IsExpert())

	flag := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"flag","roles":["Expert in Biology"],"id":2}`))
	env, err = newEnv(&Globals{LogLevel: "debug", LogFormat: "json", Width: 1000, Token: "h." + flag + ".s", Credentials: path})
	require.NoError(t, err)
	assert.Equal(t, "flag", env.User.Sub)
	assert.True(t, env.User.IsExpert())
	assert.Equal(t, 1000, env.Renderer.Width)

	env, err = newEnv(&Globals{LogLevel: "info", LogFormat: "text", Width: 1000})
	require.NoError(t, err)
	assert.Nil(t, env.User)
}

func TestComposeNeedsExpert(t *testing.T) {
	env, err := newEnv(&Globals{LogLevel: "info", LogFormat: "text", Width: 1000})
	require.NoError(t, err)

	err = (&ComposeCmd{Article: 1, Script: "unused.yaml"}).Run(env)
	assert.ErrorIs(t, err, errNotExpert)
}

func TestComposeEditReplacesReview(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
	}))
	defer srv.Close()

	log, _ := test.NewNullLogger()
	client := api.New(srv.URL, "token", log)
	req := model.ReviewRequest{Author: "expert", Status: model.Approved}

	require.NoError(t, (&ComposeCmd{Edit: true}).submitter(client).PostReview(context.Background(), 7, req))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/articles/7/review-article", path)

	require.NoError(t, (&ComposeCmd{}).submitter(client).PostReview(context.Background(), 7, req))
	assert.Equal(t, http.MethodPost, method)
}

func TestPreviewShowsAddCommentWhileSelecting(t *testing.T) {
	s, err := loadScript(writeScript(t, `
steps:
  - select: {page: 1, text: Hi, rects: [{x: 100, y: 200, width: 60, height: 20}]}
  - add: true
  - select: {page: 2, text: There, rects: [{x: 10, y: 20, width: 100, height: 15}]}
`))
	require.NoError(t, err)

	env, err := newEnv(&Globals{LogLevel: "info", LogFormat: "text", Width: 1000})
	require.NoError(t, err)

	comp := highlight.NewComposition()
	rendered, setSelection := renderBlank(t, comp)
	require.NoError(t, runSteps(env.Log, comp, rendered, s.Steps, setSelection))
	require.Equal(t, highlight.Selecting, comp.State())

	req, err := comp.BuildReview("expert", "main", model.Approved)
	require.NoError(t, err)

	dir := t.TempDir()
	article := &model.Article{ID: 1, Name: "Paper"}
	require.NoError(t, writePreview(context.Background(), env, dir, blankDocument{pages: 2}, comp, article, req))

	out, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(out), `<button class="add-comment"`)
	assert.Contains(t, string(out), "Add Comment")
}
