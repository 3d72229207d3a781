package imgutil

import (
	"errors"
	"image"
	"image/draw"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

// Orientation is the EXIF orientation tag value (1-8).
type Orientation int

const (
	OrientationNormal Orientation = 1
	OrientationFlipH  Orientation = 2
	OrientationRot180 Orientation = 3
	OrientationFlipV  Orientation = 4
	// OrientationTranspose is a flip about the top-left to bottom-right diagonal.
	OrientationTranspose  Orientation = 5
	OrientationRot90CW    Orientation = 6
	OrientationTransverse Orientation = 7
	OrientationRot90CCW   Orientation = 8
)

// ReadOrientation returns the primary-image orientation stored in the
// EXIF block of raw. Files without EXIF data report OrientationNormal.
func ReadOrientation(raw []byte) (Orientation, error) {
	rawExif, err := exif.SearchAndExtractExif(raw)
	if err != nil {
		if errors.Is(err, exif.ErrNoExif) {
			return OrientationNormal, nil
		}
		return OrientationNormal, err
	}

	tags, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return OrientationNormal, err
	}

	for _, tag := range tags {
		if tag.TagName != "Orientation" || strings.HasPrefix(tag.IfdPath, "IFD1") {
			continue
		}
		if values, ok := tag.Value.([]uint16); ok && len(values) > 0 {
			o := Orientation(values[0])
			if o < OrientationNormal || o > OrientationRot90CCW {
				return OrientationNormal, nil
			}
			return o, nil
		}
	}

	return OrientationNormal, nil
}

// SwapsAxes reports whether applying o exchanges width and height.
func (o Orientation) SwapsAxes() bool {
	return o >= OrientationTranspose && o <= OrientationRot90CCW
}

// Orient returns img transformed so that it displays upright.
func Orient(img image.Image, o Orientation) image.Image {
	if o <= OrientationNormal || o > OrientationRot90CCW {
		return img
	}

	src := image.NewNRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(src, src.Bounds(), img, img.Bounds().Min, draw.Src)

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dw, dh := w, h
	if o.SwapsAxes() {
		dw, dh = h, w
	}
	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := mapPixel(o, x, y, w, h)
			dst.SetNRGBA(dx, dy, src.NRGBAAt(x, y))
		}
	}
	return dst
}

func mapPixel(o Orientation, x, y, w, h int) (int, int) {
	switch o {
	case OrientationFlipH:
		return w - 1 - x, y
	case OrientationRot180:
		return w - 1 - x, h - 1 - y
	case OrientationFlipV:
		return x, h - 1 - y
	case OrientationTranspose:
		return y, x
	case OrientationRot90CW:
		return h - 1 - y, x
	case OrientationTransverse:
		return h - 1 - y, w - 1 - x
	case OrientationRot90CCW:
		return y, w - 1 - x
	default:
		return x, y
	}
}
