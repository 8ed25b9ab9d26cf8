package pdfutils

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"github.com/research-exchange/pdfreview/model"
)

// ScaleToWidth resizes img to exactly width pixels, keeping the aspect
// ratio. Images already that wide are returned as they are.
func ScaleToWidth(img image.Image, width int) image.Image {
	b := img.Bounds()
	if b.Dx() == width || b.Dx() == 0 {
		return img
	}

	height := int(math.Round(float64(b.Dy()) * float64(width) / float64(b.Dx())))
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	return dst
}

// Composite returns a copy of page with every rectangle tinted by c. Pixels
// covered by several rectangles are tinted once.
func Composite(page image.Image, rects []model.SelectionRectangle, c colorful.Color, opacity float64) *image.RGBA {
	b := page.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), page, b.Min, draw.Src)

	mask := image.NewAlpha(dst.Bounds())
	for _, r := range rects {
		area := image.Rect(
			int(math.Floor(r.X)),
			int(math.Floor(r.Y)),
			int(math.Ceil(r.X+r.Width)),
			int(math.Ceil(r.Y+r.Height)),
		).Intersect(dst.Bounds())
		draw.Draw(mask, area, image.Opaque, image.Point{}, draw.Src)
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if mask.AlphaAt(x, y).A == 0 {
				continue
			}

			base, ok := colorful.MakeColor(dst.RGBAAt(x, y))
			if !ok {
				continue
			}

			r, g, bl := base.BlendRgb(c, opacity).Clamped().RGB255()
			dst.SetRGBA(x, y, color.RGBA{R: r, G: g, B: bl, A: 255})
		}
	}

	return dst
}

func WriteImage(img image.Image, name string, format string, quality int) error {
	if format == "jpg" {
		return writeJPGImage(img, name, quality)
	}

	return writePNGImage(img, name)
}

func writeJPGImage(img image.Image, name string, quality int) error {
	fd, err := os.Create(name)
	if err != nil {
		return err
	}

	defer fd.Close()
	return errors.Wrapf(jpeg.Encode(fd, img, &jpeg.Options{Quality: quality}), "encoding %s", name)
}

func writePNGImage(img image.Image, name string) error {
	fd, err := os.Create(name)
	if err != nil {
		return err
	}

	defer fd.Close()
	return errors.Wrapf(png.Encode(fd, img), "encoding %s", name)
}
