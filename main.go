package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/research-exchange/pdfreview/api"
	"github.com/research-exchange/pdfreview/highlight"
)

type Globals struct {
	APIURL      string `name:"api-url" env:"PDFREVIEW_API_URL" default:"http://localhost:8080" help:"Base URL of the article backend"`
	Token       string `env:"PDFREVIEW_TOKEN" help:"Bearer token. Overrides the credentials file"`
	Credentials string `type:"path" env:"PDFREVIEW_CREDENTIALS" help:"YAML file holding the saved login"`
	LogLevel    string `enum:"trace,debug,info,warn,error" default:"info" help:"Log level"`
	LogFormat   string `enum:"text,json" default:"text" help:"Log format. Supports text and json"`
	Width       int    `default:"1000" help:"Page width in pixels that highlight sections refer to"`
}

var cli struct {
	Globals

	View    ViewCmd    `cmd:"" help:"Render a submitted review over its article"`
	Compose ComposeCmd `cmd:"" help:"Compose a review from a script of selections and submit it"`
	Export  ExportCmd  `cmd:"" help:"Write a review's inline comments into the article PDF"`
	Import  ImportCmd  `cmd:"" help:"List the highlight annotations of a PDF as selections"`
	List    ListCmd    `cmd:"" help:"List articles"`
	Login   LoginCmd   `cmd:"" help:"Log in and save the token"`
	Vote    VoteCmd    `cmd:"" help:"Vote on an article or a comment"`
	Comment CommentCmd `cmd:"" help:"Post a comment on an article"`
	Status  StatusCmd  `cmd:"" help:"Change the status of a review"`
}

// Env is what every command runs with.
type Env struct {
	Log         *logrus.Logger
	Client      *api.Client
	Renderer    *highlight.Renderer
	Width       int
	Credentials string
	// User is nil when no token is known.
	User *api.User
}

func newLogger(level, format string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(lvl)

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger, nil
}

func newEnv(g *Globals) (*Env, error) {
	logger, err := newLogger(g.LogLevel, g.LogFormat)
	if err != nil {
		return nil, err
	}

	token := g.Token
	if token == "" && g.Credentials != "" {
		creds, err := api.LoadCredentials(g.Credentials)
		if err != nil {
			return nil, err
		}
		token = creds.Token
	}

	env := &Env{
		Log:         logger,
		Client:      api.New(g.APIURL, token, logger),
		Renderer:    highlight.NewRenderer(logger),
		Width:       g.Width,
		Credentials: g.Credentials,
	}
	env.Renderer.Width = g.Width

	if token != "" {
		user, err := api.ParseUser(token)
		if err != nil {
			logger.WithError(err).Warn("token carries no readable claims")
		} else {
			env.User = user
		}
	}

	return env, nil
}

func logOutput(v interface{}) error {
	out, err := json.Marshal(v)
	if err != nil {
		return err
	}

	oLog := log.New(os.Stdout, "", 0)
	oLog.Println(string(out))

	return nil
}

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	ctx := kong.Parse(&cli,
		kong.Name("pdfreview"),
		kong.Description("Review research articles with inline PDF comments."),
		kong.UsageOnError(),
	)

	env, err := newEnv(&cli.Globals)
	ctx.FatalIfErrorf(err)

	ctx.FatalIfErrorf(ctx.Run(env))
}
