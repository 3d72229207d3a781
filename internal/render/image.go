package render

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"folder2pdf/pkg/imgutil"
)

// Rect is a placement on the page in points.
type Rect struct {
	X, Y, W, H float64
}

// Fit scales an image of the given pixel size uniformly into the page body
// and centers it horizontally below the header.
func Fit(imgW, imgH float64) Rect {
	maxW := PageWidth - 2*Margin
	maxH := PageHeight - 100
	ratio := math.Min(maxW/imgW, maxH/imgH)
	w, h := imgW*ratio, imgH*ratio
	return Rect{X: (PageWidth - w) / 2, Y: BodyTop, W: w, H: h}
}

// AddImage renders the image at path on a single page. Nothing is added
// when the image cannot be decoded.
func (d *Document) AddImage(path, name string) error {
	pic, err := imgutil.Load(path)
	if err != nil {
		return err
	}

	imageType, r, err := embeddable(pic)
	if err != nil {
		return err
	}

	key, opts, err := d.embed(name, imageType, r)
	if err != nil {
		return err
	}

	box := Fit(float64(pic.Width()), float64(pic.Height()))
	d.newPage(Header(name))
	d.pdf.ImageOptions(key, box.X, box.Y, box.W, box.H, false, opts, 0, "")
	return nil
}

// embed registers an image stream under a fresh key. A stream gofpdf
// rejects leaves the document usable.
func (d *Document) embed(name, imageType string, r io.Reader) (string, gofpdf.ImageOptions, error) {
	d.images++
	key := fmt.Sprintf("image-%d", d.images)
	opts := gofpdf.ImageOptions{ImageType: imageType}
	d.pdf.RegisterImageOptionsReader(key, opts, r)
	if err := d.pdf.Error(); err != nil {
		d.pdf.ClearError()
		return "", opts, fmt.Errorf("embed %s: %w", name, err)
	}
	return key, opts, nil
}

// embeddable returns a stream gofpdf can embed. Upright JPEGs are passed
// through; everything else is re-encoded as 8-bit PNG.
func embeddable(pic *imgutil.Picture) (string, io.Reader, error) {
	if pic.Kind == imgutil.KindJPEG && pic.Orientation == imgutil.OrientationNormal {
		return "JPG", bytes.NewReader(pic.Raw), nil
	}

	bounds := pic.Image.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), pic.Image, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return "", nil, fmt.Errorf("encode png: %w", err)
	}
	return "PNG", &buf, nil
}
