package model

import (
	"net/url"
	"strconv"
	"strings"
)

// InlineCommentData is one inline comment in an outgoing review.
type InlineCommentData struct {
	Content string `json:"content"`
	PdfSelection
}

// Selection returns the selection part of the record.
func (d InlineCommentData) Selection() PdfSelection {
	return d.PdfSelection
}

type ReviewRequest struct {
	Author         string              `json:"author"`
	Content        string              `json:"content"`
	Status         ReviewStatus        `json:"status"`
	InlineComments []InlineCommentData `json:"inlineComments"`
}

// CommentRequest posts a new comment. Nil ids start a new thread.
type CommentRequest struct {
	RootThreadID *int64 `json:"rootThreadId"`
	ReplyToID    *int64 `json:"replyToId"`
	Author       string `json:"author"`
	Content      string `json:"content"`
}

type VoteDirection string

const (
	Up   VoteDirection = "up"
	Down VoteDirection = "down"
)

type VoteTarget string

const (
	ArticleVote VoteTarget = "articles"
	CommentVote VoteTarget = "comment-posts"
)

// AnySubject is the main field that means no field filter.
const AnySubject = "Any subject"

// ArticleQuery filters one page of the article listing. Empty fields are
// not sent. Page is 1-indexed; the backend counts pages from 0.
type ArticleQuery struct {
	SearchValue string
	MainField   string
	SubField    string
	Tags        []string
	Page        int
	PerPage     int
	Approved    bool
}

func (q ArticleQuery) Values() url.Values {
	v := url.Values{}

	set := func(key, value string) {
		if strings.TrimSpace(value) != "" {
			v.Set(key, value)
		}
	}

	page := q.Page
	if page < 1 {
		page = 1
	}

	mainField, subField := q.MainField, q.SubField
	if mainField == AnySubject {
		mainField, subField = "", ""
	}

	set("pageNum", strconv.Itoa(page-1))
	if q.PerPage > 0 {
		set("recordsPerPage", strconv.Itoa(q.PerPage))
	}
	set("searchValue", q.SearchValue)
	set("mainField", mainField)
	set("subField", subField)
	set("tags", strings.Join(q.Tags, ","))
	set("approved", strconv.FormatBool(q.Approved))

	return v
}
