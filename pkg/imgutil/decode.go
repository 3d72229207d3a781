package imgutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Picture is a decoded image together with the bytes it was read from.
type Picture struct {
	Kind        Kind
	Image       image.Image
	Raw         []byte
	Orientation Orientation
}

// Width returns the upright width in pixels.
func (p *Picture) Width() int {
	return p.Image.Bounds().Dx()
}

// Height returns the upright height in pixels.
func (p *Picture) Height() int {
	return p.Image.Bounds().Dy()
}

// Load reads and fully decodes the image at path. The returned image has
// its EXIF orientation applied.
func Load(path string) (*Picture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}

// Decode decodes raw image bytes. Orientation metadata that cannot be parsed
// is ignored; pixel data that cannot be decoded is an error.
func Decode(raw []byte) (*Picture, error) {
	kind, err := DetectHeader(raw)
	if err != nil {
		return nil, err
	}
	if kind == KindUnknown {
		return nil, fmt.Errorf("unrecognized image format")
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("decode %s: empty image", kind)
	}

	pic := &Picture{Kind: kind, Image: img, Raw: raw, Orientation: OrientationNormal}
	if kind.HasExif() {
		pic.Orientation = orientationOf(raw)
	}
	pic.Image = Orient(img, pic.Orientation)
	return pic, nil
}

// orientationOf falls back to OrientationNormal on any parse failure,
// including panics raised inside the EXIF parser.
func orientationOf(raw []byte) (o Orientation) {
	defer func() {
		if recover() != nil {
			o = OrientationNormal
		}
	}()
	o, err := ReadOrientation(raw)
	if err != nil {
		return OrientationNormal
	}
	return o
}
