package processor

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMixedFolder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a_photo.png", pngBytes(t, 8, 4))
	writeFile(t, root, "b_notes.txt", []byte(strings.Repeat("line\n", 99)+"line"))
	writeFile(t, root, "c_broken.jpg", []byte("\xff\xd8\xff\xe0 not a real jpeg at all"))
	writeFile(t, root, "d_report.docx", docxBytes(t, "Hello from a document"))
	writeFile(t, root, "e_ignored.zip", []byte("PK"))

	dest := filepath.Join(t.TempDir(), "out.pdf")
	var logs bytes.Buffer
	opts := Options{Verify: true, Logger: slog.New(slog.NewTextHandler(&logs, nil))}

	summary, statuses, err := runCollect(root, dest, opts)
	require.NoError(t, err)

	assert.Equal(t, StateDone, summary.State)
	assert.Equal(t, 4, summary.Found)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 3, summary.Rendered())
	assert.Equal(t, 4, summary.Pages)

	var names []string
	for _, res := range summary.Results {
		names = append(names, res.Entry.Name)
	}
	assert.Equal(t, []string{"a_photo.png", "b_notes.txt", "c_broken.jpg", "d_report.docx"}, names)
	assert.Equal(t, []int{1, 2, 0, 1}, []int{
		summary.Results[0].Pages, summary.Results[1].Pages,
		summary.Results[2].Pages, summary.Results[3].Pages,
	})

	skipped := summary.SkippedResults()
	require.Len(t, skipped, 1)
	assert.Equal(t, "c_broken.jpg", skipped[0].Entry.Name)
	assert.NotEmpty(t, skipped[0].Reason)
	assert.Contains(t, logs.String(), "c_broken.jpg")

	pages, err := Verify(dest)
	require.NoError(t, err)
	assert.Equal(t, 4, pages)

	require.NotEmpty(t, statuses)
	assert.Equal(t, StateScanning, statuses[0].State)
	assert.Equal(t, StateDone, statuses[len(statuses)-1].State)
	assert.Equal(t, StateFinalizing, statuses[len(statuses)-2].State)

	lastPages := 0
	rendering := 0
	for _, st := range statuses {
		assert.GreaterOrEqual(t, st.Pages, lastPages)
		lastPages = st.Pages
		if st.State == StateRendering && st.Result != nil {
			rendering++
			assert.InDelta(t, float64(st.Index)/4, st.Progress, 0.0001)
		}
	}
	assert.Equal(t, 4, rendering)
}

func TestRunWithoutVerify(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "one.md", []byte("# title"))

	dest := filepath.Join(t.TempDir(), "out.pdf")
	summary, _, err := runCollect(root, dest, Options{})
	require.NoError(t, err)
	assert.Equal(t, StateDone, summary.State)
	assert.Equal(t, 1, summary.Pages)
	assert.FileExists(t, dest)
}

func TestRunNoEligibleFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "data.bin", []byte{1, 2, 3})
	writeFile(t, root, "nested/archive.tar", []byte{4})

	dest := filepath.Join(t.TempDir(), "out.pdf")
	summary, statuses, err := runCollect(root, dest, Options{Verify: true})
	require.NoError(t, err)

	assert.Equal(t, StateNoFiles, summary.State)
	assert.Zero(t, summary.Found)
	assert.NoFileExists(t, dest)
	require.Len(t, statuses, 2)
	assert.Equal(t, StateNoFiles, statuses[1].State)
}

func TestRunNoEligibleFilesWithBadDestination(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(t.TempDir(), "nope", "out.pdf")

	summary, statuses, err := runCollect(root, dest, Options{})
	require.NoError(t, err)
	assert.Equal(t, StateNoFiles, summary.State)
	assert.NoError(t, summary.Err)
	require.Len(t, statuses, 2)
	assert.Equal(t, StateNoFiles, statuses[1].State)
}

func TestRunFailsOnBadDestination(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", []byte("hello"))

	tests := map[string]string{
		"missing folder": filepath.Join(t.TempDir(), "nope", "out.pdf"),
		"directory":      t.TempDir(),
	}

	for name, dest := range tests {
		t.Run(name, func(t *testing.T) {
			summary, statuses, err := runCollect(root, dest, Options{})
			require.Error(t, err)
			assert.Equal(t, StateFailed, summary.State)
			assert.Equal(t, err, summary.Err)
			require.NotEmpty(t, statuses)
			assert.Equal(t, StateFailed, statuses[len(statuses)-1].State)
		})
	}
}

func TestRunFailsOnMissingSource(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.pdf")
	summary, _, err := runCollect(filepath.Join(t.TempDir(), "missing"), dest, Options{})
	require.Error(t, err)
	assert.Equal(t, StateFailed, summary.State)
	assert.NoFileExists(t, dest)
}

func TestRunNilUpdates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.csv", []byte("a,b\n1,2"))

	dest := filepath.Join(t.TempDir(), "out.pdf")
	summary, err := Run(root, dest, Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, StateDone, summary.State)
}

func runCollect(root, dest string, opts Options) (Summary, []Status, error) {
	updates := make(chan Status, 16)
	var statuses []Status
	done := make(chan struct{})
	go func() {
		defer close(done)
		for st := range updates {
			statuses = append(statuses, st)
		}
	}()

	summary, err := Run(root, dest, opts, updates)
	close(updates)
	<-done
	return summary, statuses, err
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 20), G: 0x80, B: uint8(y * 40), A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func docxBytes(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` +
		text + `</w:t></w:r></w:p></w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
