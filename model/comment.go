package model

import (
	"strings"

	"github.com/pkg/errors"
)

type ReviewStatus string

const (
	Approved  ReviewStatus = "Approved"
	NeedsWork ReviewStatus = "Needs Work"
	Rejected  ReviewStatus = "Rejected"
)

// AllStatuses is the order statuses are offered in.
var AllStatuses = []ReviewStatus{Approved, NeedsWork, Rejected}

func ParseReviewStatus(s string) (ReviewStatus, error) {
	for _, status := range AllStatuses {
		if strings.EqualFold(string(status), strings.TrimSpace(s)) {
			return status, nil
		}
	}

	return "", errors.Errorf("unknown review status %q", s)
}

type Author struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Comment struct {
	ID         int64  `json:"id"`
	Score      int    `json:"score"`
	DatePosted string `json:"datePosted"`
	Content    string `json:"content"`
	Author     Author `json:"author"`
}

type FollowupComment struct {
	Comment
	ReplyingTo *int64 `json:"replyingTo,omitempty"`
}

type TopLevelComment struct {
	Comment
	Followups []FollowupComment `json:"followups,omitempty"`
}

// InlineComment is a comment anchored to a PDF selection.
type InlineComment struct {
	TopLevelComment
	PdfSelection
}

type Review struct {
	TopLevelComment
	Status         ReviewStatus    `json:"status"`
	InlineComments []InlineComment `json:"inlineComments"`
}

type PostKind int

const (
	PlainComment PostKind = iota
	ExpertReview
)

func (k PostKind) String() string {
	if k == ExpertReview {
		return "review"
	}
	return "comment"
}

// Post is either a plain top-level comment or an expert review. Review is
// only set for ExpertReview posts.
type Post struct {
	Kind    PostKind
	Comment TopLevelComment
	Review  *Review
}

func CommentPost(c TopLevelComment) Post {
	return Post{Kind: PlainComment, Comment: c}
}

func ReviewPost(r *Review) Post {
	return Post{Kind: ExpertReview, Comment: r.TopLevelComment, Review: r}
}

type Article struct {
	ID              int64             `json:"id"`
	Score           int               `json:"score"`
	DatePosted      string            `json:"datePosted"`
	PdfURL          string            `json:"pdfUrl"`
	Name            string            `json:"name"`
	ArticleAbstract string            `json:"articleAbstract"`
	MainField       string            `json:"mainField"`
	SubField        string            `json:"subField"`
	Tags            []string          `json:"tags"`
	RepoURL         string            `json:"repoUrl"`
	DataURL         string            `json:"dataUrl"`
	Links           []string          `json:"links"`
	Approved        bool              `json:"approved"`
	Authors         []Author          `json:"authors"`
	ExpertReviews   []Review          `json:"expertReviews"`
	Comments        []TopLevelComment `json:"comments"`
}

// ArticlePreview is an article as listed, with the usernames of its
// reviewers instead of the reviews.
type ArticlePreview struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	ArticleAbstract string   `json:"articleAbstract"`
	MainField       string   `json:"mainField"`
	SubField        string   `json:"subField"`
	DatePosted      string   `json:"datePosted"`
	Score           int      `json:"score"`
	Tags            []string `json:"tags"`
	Approved        bool     `json:"approved"`
	ExpertReviews   []string `json:"expertReviews"`
}

// Posts lists the article's reviews followed by its plain comments.
func (a *Article) Posts() []Post {
	posts := make([]Post, 0, len(a.ExpertReviews)+len(a.Comments))

	for i := range a.ExpertReviews {
		posts = append(posts, ReviewPost(&a.ExpertReviews[i]))
	}

	for _, c := range a.Comments {
		posts = append(posts, CommentPost(c))
	}

	return posts
}
