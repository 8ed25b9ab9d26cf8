package main

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/research-exchange/pdfreview/pdfutils"
)

type ExportCmd struct {
	Article int64  `required:"" help:"Article id"`
	Review  int64  `required:"" help:"Expert review id"`
	Out     string `short:"o" type:"path" required:"" help:"Path of the annotated PDF"`
	Color   string `short:"c" default:"#ffd43b" help:"Highlight colour"`
}

func (cmd *ExportCmd) Run(env *Env) error {
	ctx := context.Background()

	article, err := env.Client.GetArticle(ctx, cmd.Article)
	if err != nil {
		return err
	}

	review, err := env.Client.GetReview(ctx, cmd.Review)
	if err != nil {
		return err
	}

	doc, err := openArticlePDF(ctx, env, article)
	if err != nil {
		return err
	}
	defer doc.Close()

	annots := pdfutils.FromReview(review, cmd.Color)

	fd, err := os.Create(cmd.Out)
	if err != nil {
		return errors.Wrapf(err, "creating %s", cmd.Out)
	}
	defer fd.Close()

	if err := doc.ExportHighlights(fd, annots, env.Width); err != nil {
		return err
	}

	env.Log.WithFields(logrus.Fields{
		"annotations": len(annots),
		"path":        cmd.Out,
	}).Info("highlights exported")

	return logOutput(annots)
}

type ImportCmd struct {
	IgnoreBefore time.Time `short:"b" help:"Ignore annotations added before this date. Must be ISO 8601 formatted"`

	InputPDF string `arg:"" name:"input" help:"Path to input PDF" type:"existingfile"`
}

func (cmd *ImportCmd) Run(env *Env) error {
	data, err := os.ReadFile(cmd.InputPDF)
	if err != nil {
		return errors.Wrapf(err, "reading %s", cmd.InputPDF)
	}

	doc, err := pdfutils.OpenDocument(data)
	if err != nil {
		return err
	}
	defer doc.Close()

	annots, err := doc.Highlights(pdfutils.ImportOptions{
		Width:        env.Width,
		IgnoreBefore: cmd.IgnoreBefore,
		Log:          env.Log,
	})
	if err != nil {
		return err
	}

	return logOutput(annots)
}
