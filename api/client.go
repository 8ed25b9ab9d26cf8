package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/research-exchange/pdfreview/model"
)

const DefaultBaseURL = "http://localhost:8080"

var (
	// ErrNotFound is returned by every fetch that did not produce data.
	ErrNotFound     = errors.New("no data")
	ErrUnauthorized = errors.New("not authorized")
)

// StatusError is a non-2xx answer to a write.
type StatusError struct {
	Method string
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d", e.Method, e.Path, e.Status)
}

// Unwrap exposes ErrUnauthorized for 401 and 403 answers.
func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// Client talks to the article backend. Token is sent as a bearer token
// when set; the backend decides what needs one.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
	Log     logrus.FieldLogger
}

func New(baseURL, token string, log logrus.FieldLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
		Log:     log,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s %s", method, path)
	}

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	return req, nil
}

// getJSON decodes the response into out. Any failure, including a
// non-2xx status, is reported as ErrNotFound.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		c.Log.WithError(err).WithField("path", path).Warn("API request failed")
		return errors.Wrapf(ErrNotFound, "GET %s: %v", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.Log.WithFields(logrus.Fields{
			"path":   path,
			"status": res.StatusCode,
		}).Warn("API request failed")
		return errors.Wrapf(ErrNotFound, "GET %s: status %d", path, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrapf(ErrNotFound, "GET %s: decoding: %v", path, err)
	}

	return nil
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body []byte) error {
	req, err := c.newRequest(ctx, method, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.Log.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": res.StatusCode,
		}).Warn("API request failed")
		return &StatusError{Method: method, Path: path, Status: res.StatusCode}
	}

	return nil
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return errors.Wrapf(err, "encoding %s body", path)
	}

	return c.send(ctx, method, path, "application/json", data)
}

// ListArticles lists the articles matching q.
func (c *Client) ListArticles(ctx context.Context, q model.ArticleQuery) ([]model.ArticlePreview, error) {
	path := "/articles"
	if v := q.Values(); len(v) > 0 {
		path += "?" + v.Encode()
	}

	articles := []model.ArticlePreview{}
	if err := c.getJSON(ctx, path, &articles); err != nil {
		return nil, err
	}

	return articles, nil
}

func (c *Client) GetArticle(ctx context.Context, articleID int64) (*model.Article, error) {
	article := &model.Article{}
	if err := c.getJSON(ctx, fmt.Sprintf("/articles/%d", articleID), article); err != nil {
		return nil, err
	}

	return article, nil
}

func (c *Client) GetArticleReviews(ctx context.Context, articleID int64) ([]model.Review, error) {
	reviews := []model.Review{}
	if err := c.getJSON(ctx, fmt.Sprintf("/articles/%d/expert-reviews", articleID), &reviews); err != nil {
		return nil, err
	}

	return reviews, nil
}

func (c *Client) GetArticleComments(ctx context.Context, articleID int64) ([]model.TopLevelComment, error) {
	comments := []model.TopLevelComment{}
	if err := c.getJSON(ctx, fmt.Sprintf("/articles/%d/comments", articleID), &comments); err != nil {
		return nil, err
	}

	return comments, nil
}

// GetArticleWithComments fetches an article together with its reviews and
// comments.
func (c *Client) GetArticleWithComments(ctx context.Context, articleID int64) (*model.Article, error) {
	var (
		article  *model.Article
		reviews  []model.Review
		comments []model.TopLevelComment
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		article, err = c.GetArticle(gctx, articleID)
		return err
	})
	g.Go(func() (err error) {
		reviews, err = c.GetArticleReviews(gctx, articleID)
		return err
	})
	g.Go(func() (err error) {
		comments, err = c.GetArticleComments(gctx, articleID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	article.ExpertReviews = reviews
	article.Comments = comments

	return article, nil
}

func (c *Client) GetReview(ctx context.Context, reviewID int64) (*model.Review, error) {
	review := &model.Review{}
	if err := c.getJSON(ctx, fmt.Sprintf("/expert-reviews/%d", reviewID), review); err != nil {
		return nil, err
	}

	return review, nil
}

func (c *Client) PostReview(ctx context.Context, articleID int64, req model.ReviewRequest) error {
	return c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/articles/%d/review-article", articleID), req)
}

func (c *Client) EditReview(ctx context.Context, articleID int64, req model.ReviewRequest) error {
	return c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/articles/%d/review-article", articleID), req)
}

// EditReviewStatus sends the bare status string as the body.
func (c *Client) EditReviewStatus(ctx context.Context, reviewID int64, status model.ReviewStatus) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/expert-reviews/%d/change-status", reviewID), "application/json", []byte(status))
}

func (c *Client) PostComment(ctx context.Context, articleID int64, req model.CommentRequest) error {
	return c.sendJSON(ctx, http.MethodPost, fmt.Sprintf("/articles/%d/post-comment", articleID), req)
}

// Vote sends the literal "up" or "down" as the body.
func (c *Client) Vote(ctx context.Context, target model.VoteTarget, postID int64, dir model.VoteDirection) error {
	return c.send(ctx, http.MethodPost, fmt.Sprintf("/%s/%d/vote", target, postID), "application/json", []byte(dir))
}

// FetchPDF downloads the article PDF. Relative locations are resolved
// against the backend.
func (c *Client) FetchPDF(ctx context.Context, location string) ([]byte, error) {
	url := location
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		url = c.BaseURL + "/" + strings.TrimLeft(location, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building PDF request")
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "fetching %s: %v", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, errors.Wrapf(ErrNotFound, "fetching %s: status %d", url, res.StatusCode)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", url)
	}

	return data, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login trades a username and password for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return "", errors.Wrap(err, "encoding login body")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "POST /login")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.Log.WithFields(logrus.Fields{"path": "/login", "status": res.StatusCode}).Warn("API request failed")
		return "", &StatusError{Method: http.MethodPost, Path: "/login", Status: res.StatusCode}
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", errors.Wrap(err, "decoding login answer")
	}

	if out.AccessToken == "" {
		return "", errors.New("login answer carries no token")
	}

	return out.AccessToken, nil
}
