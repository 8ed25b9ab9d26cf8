package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/research-exchange/pdfreview/highlight"
	"github.com/research-exchange/pdfreview/htmlview"
	"github.com/research-exchange/pdfreview/model"
	"github.com/research-exchange/pdfreview/pdfutils"
)

func openArticlePDF(ctx context.Context, env *Env, article *model.Article) (*pdfutils.Document, error) {
	data, err := env.Client.FetchPDF(ctx, article.PdfURL)
	if err != nil {
		return nil, err
	}

	env.Log.WithField("bytes", len(data)).Debug("article PDF fetched")

	return pdfutils.OpenDocument(data)
}

func imageExt(format string) string {
	if format == "jpg" {
		return "jpg"
	}
	return "png"
}

func pageFile(pageNum int, ext string) string {
	return fmt.Sprintf("page-%03d.%s", pageNum, ext)
}

// writeRendering writes one image per page into dir. Overlays are painted
// onto the images unless format is html, where they are drawn by the page
// written as index.html.
func writeRendering(
	dir string,
	format string,
	quality int,
	rendered *highlight.Rendered,
	b *htmlview.Builder,
	bar highlight.ReviewBar,
) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}

	ext := imageExt(format)
	fill := pdfutils.ParseColor(pdfutils.DefaultHighlightHex)
	pulse := pdfutils.ParseColor(pdfutils.PulseHighlightHex)
	files := []string{}

	for _, p := range rendered.Pages {
		img := p.Image

		if format != "html" {
			for _, o := range p.Overlays {
				c := fill
				if b.Pulsing(o.HighlightID) {
					c = pulse
				}
				img = pdfutils.Composite(img, o.Rects, c, pdfutils.HighlightOpacity)
			}
		}

		name := filepath.Join(dir, pageFile(p.Number, ext))
		if err := pdfutils.WriteImage(img, name, ext, quality); err != nil {
			return nil, err
		}
		files = append(files, name)
	}

	if format != "html" {
		return files, nil
	}

	name := filepath.Join(dir, "index.html")
	fd, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	if err := b.Write(fd, rendered, bar); err != nil {
		return nil, err
	}

	return append(files, name), nil
}
