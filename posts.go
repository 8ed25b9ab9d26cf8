package main

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/research-exchange/pdfreview/api"
	"github.com/research-exchange/pdfreview/model"
)

type ListCmd struct {
	Search    string   `short:"s" help:"Text to search article names for"`
	MainField string   `help:"Main field"`
	SubField  string   `help:"Sub field"`
	Tags      []string `help:"Tags"`
	Page      int      `default:"1" help:"Page of results, from 1"`
	PerPage   int      `default:"10" help:"Articles per page"`
	Approved  bool     `negatable:"" default:"true" help:"List approved articles. --no-approved lists the rest"`
}

func (cmd *ListCmd) Query() model.ArticleQuery {
	return model.ArticleQuery{
		SearchValue: cmd.Search,
		MainField:   cmd.MainField,
		SubField:    cmd.SubField,
		Tags:        cmd.Tags,
		Page:        cmd.Page,
		PerPage:     cmd.PerPage,
		Approved:    cmd.Approved,
	}
}

func (cmd *ListCmd) Run(env *Env) error {
	articles, err := env.Client.ListArticles(context.Background(), cmd.Query())
	if err != nil {
		return err
	}

	return logOutput(articles)
}

type LoginCmd struct {
	Username string `arg:"" help:"Username"`
	Password string `env:"PDFREVIEW_PASSWORD" required:"" help:"Password"`
}

func (cmd *LoginCmd) Run(env *Env) error {
	if env.Credentials == "" {
		return errors.New("--credentials is needed to save the login")
	}

	token, err := env.Client.Login(context.Background(), cmd.Username, cmd.Password)
	if err != nil {
		return err
	}

	if err := api.SaveCredentials(env.Credentials, &api.Credentials{Token: token, Username: cmd.Username}); err != nil {
		return err
	}

	env.Log.WithField("username", cmd.Username).Info("logged in")

	return nil
}

type VoteCmd struct {
	Target    string `arg:"" enum:"article,comment" help:"What to vote on: article or comment"`
	ID        int64  `arg:"" help:"Article or comment id"`
	Direction string `arg:"" enum:"up,down" help:"up or down"`
}

func (cmd *VoteCmd) Run(env *Env) error {
	target := model.ArticleVote
	if cmd.Target == "comment" {
		target = model.CommentVote
	}

	return env.Client.Vote(context.Background(), target, cmd.ID, model.VoteDirection(cmd.Direction))
}

type CommentCmd struct {
	Article int64 `required:"" help:"Article id"`
	ReplyTo int64 `help:"Followup being replied to, within the thread"`
	Thread  int64 `help:"Top-level comment of the thread. Leave out to start a new thread"`

	Text []string `arg:"" help:"Comment text"`
}

func (cmd *CommentCmd) Run(env *Env) error {
	if env.User == nil {
		return errors.Wrap(api.ErrUnauthorized, "log in to comment")
	}

	content := strings.Join(cmd.Text, " ")
	if strings.TrimSpace(content) == "" {
		return errors.New("comment is empty")
	}

	req := model.CommentRequest{Author: env.User.Sub, Content: content}
	if cmd.Thread != 0 {
		req.RootThreadID = &cmd.Thread
	}
	if cmd.ReplyTo != 0 {
		req.ReplyToID = &cmd.ReplyTo
	}

	return env.Client.PostComment(context.Background(), cmd.Article, req)
}

type StatusCmd struct {
	Review int64  `required:"" help:"Expert review id"`
	Status string `arg:"" help:"Approved, Needs Work or Rejected"`
}

func (cmd *StatusCmd) Run(env *Env) error {
	status, err := model.ParseReviewStatus(cmd.Status)
	if err != nil {
		return err
	}

	return env.Client.EditReviewStatus(context.Background(), cmd.Review, status)
}
