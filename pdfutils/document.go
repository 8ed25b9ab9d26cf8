package pdfutils

import (
	"bytes"
	"context"
	"image"

	"github.com/gen2brain/go-fitz"
	pdfmodel "github.com/mgmeyers/unipdf/v3/model"
	"github.com/pkg/errors"
)

var ErrPageOutOfRange = errors.New("page out of range")

// Document is an opened PDF. MuPDF rasterises pages; unipdf reads the page
// dictionaries.
type Document struct {
	img    *fitz.Document
	reader *pdfmodel.PdfReader
}

func OpenDocument(data []byte) (*Document, error) {
	img, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, errors.Wrap(err, "opening PDF for rendering")
	}

	reader, err := pdfmodel.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		img.Close()
		return nil, errors.Wrap(err, "parsing PDF")
	}

	return &Document{img: img, reader: reader}, nil
}

func (d *Document) Close() error {
	return d.img.Close()
}

func (d *Document) NumPages(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	return d.img.NumPage(), nil
}

func (d *Document) checkPage(pageNum int) error {
	if pageNum < 1 || pageNum > d.img.NumPage() {
		return errors.Wrapf(ErrPageOutOfRange, "page %d of %d", pageNum, d.img.NumPage())
	}
	return nil
}

// RenderPage rasterises a 1-indexed page exactly width pixels wide.
func (d *Document) RenderPage(ctx context.Context, pageNum int, width int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := d.checkPage(pageNum); err != nil {
		return nil, err
	}

	// bounds are reported at 72 DPI, one pixel per point
	bound, err := d.img.Bound(pageNum - 1)
	if err != nil {
		return nil, errors.Wrapf(err, "page %d bounds", pageNum)
	}

	if bound.Dx() == 0 {
		return nil, errors.Errorf("page %d has no width", pageNum)
	}

	dpi := 72.0 * float64(width) / float64(bound.Dx())

	img, err := d.img.ImageDPI(pageNum-1, dpi)
	if err != nil {
		return nil, errors.Wrapf(err, "rasterising page %d", pageNum)
	}

	return ScaleToWidth(img, width), nil
}

func (d *Document) page(pageNum int) (*pdfmodel.PdfPage, error) {
	if err := d.checkPage(pageNum); err != nil {
		return nil, err
	}

	page, err := d.reader.GetPage(pageNum)
	if err != nil {
		return nil, errors.Wrapf(err, "reading page %d", pageNum)
	}

	return page, nil
}

func (d *Document) pages() ([]*pdfmodel.PdfPage, error) {
	pages := make([]*pdfmodel.PdfPage, 0, d.img.NumPage())

	for n := 1; n <= d.img.NumPage(); n++ {
		page, err := d.page(n)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}

	return pages, nil
}
