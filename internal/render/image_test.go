package render

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit(t *testing.T) {
	wide := Fit(1070, 100)
	assert.InDelta(t, PageWidth-2*Margin, wide.W, 0.001)
	assert.InDelta(t, 50, wide.H, 0.001)
	assert.InDelta(t, Margin, wide.X, 0.001)
	assert.Equal(t, BodyTop, wide.Y)

	tall := Fit(100, 1484)
	assert.InDelta(t, PageHeight-100, tall.H, 0.001)
	assert.InDelta(t, 50, tall.W, 0.001)
	assert.InDelta(t, (PageWidth-50)/2, tall.X, 0.001)

	small := Fit(10, 10)
	assert.InDelta(t, small.W/small.H, 1, 0.0001)
}

func TestAddImage(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "pic.png")
	writePNG(t, good, 8, 4)

	doc := NewDocument()
	require.NoError(t, doc.AddImage(good, "pic.png"))
	assert.Equal(t, 1, doc.PageCount())

	bad := filepath.Join(dir, "broken.jpg")
	require.NoError(t, os.WriteFile(bad, []byte("\xff\xd8\xff\xe0 this is not really a jpeg"), 0o644))
	assert.Error(t, doc.AddImage(bad, "broken.jpg"))
	assert.Equal(t, 1, doc.PageCount())
	require.NoError(t, doc.Err())

	out := filepath.Join(dir, "out.pdf")
	require.NoError(t, doc.WriteFile(out))
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestAddImageAppliesOrientation(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 80, 40))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	path := filepath.Join(t.TempDir(), "phone.jpg")
	require.NoError(t, os.WriteFile(path, jpegWithOrientation(buf.Bytes(), 6), 0o644))

	doc := NewDocument()
	require.NoError(t, doc.AddImage(path, "phone.jpg"))
	require.NoError(t, doc.Err())

	info := doc.pdf.GetImageInfo("image-1")
	require.NotNil(t, info)
	assert.InDelta(t, 40, info.Width(), 0.001)
	assert.InDelta(t, 80, info.Height(), 0.001)

	box := Fit(info.Width(), info.Height())
	assert.Less(t, box.W, box.H)
}

func TestEmbedRejectedStreamKeepsDocument(t *testing.T) {
	dir := t.TempDir()
	doc := NewDocument()

	_, _, err := doc.embed("bogus.jpg", "JPG", bytes.NewReader([]byte("not a jpeg stream")))
	require.Error(t, err)
	require.NoError(t, doc.Err())
	assert.Equal(t, 0, doc.PageCount())

	good := filepath.Join(dir, "pic.png")
	writePNG(t, good, 4, 4)
	require.NoError(t, doc.AddImage(good, "pic.png"))
	require.NoError(t, doc.Err())
	assert.Equal(t, 1, doc.PageCount())
}

// jpegWithOrientation inserts an APP1 EXIF segment carrying only the
// Orientation tag after the SOI marker.
func jpegWithOrientation(jpegData []byte, orientation uint16) []byte {
	var tiff bytes.Buffer
	tiff.Write([]byte{'I', 'I', 0x2a, 0x00})
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(1))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x0112))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(3))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(1))
	_ = binary.Write(&tiff, binary.LittleEndian, orientation)
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(0))

	segment := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	var out bytes.Buffer
	out.Write(jpegData[:2])
	out.Write([]byte{0xff, 0xe1})
	_ = binary.Write(&out, binary.BigEndian, uint16(len(segment)+2))
	out.Write(segment)
	out.Write(jpegData[2:])
	return out.Bytes()
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 0x20, G: uint8(x * 30), B: uint8(y * 60), A: 0xff})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}
