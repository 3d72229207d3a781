package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// minRunLength is the shortest printable run kept from legacy binary files.
const minRunLength = 4

var (
	oleSignature = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}
	slidePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
)

// AddOffice extracts the readable text of a document, spreadsheet or
// presentation and lays it out like a text file. Nothing is added when
// extraction fails.
func (d *Document) AddOffice(path, name string) (int, error) {
	text, err := ExtractOffice(path)
	if err != nil {
		return 0, err
	}
	return d.addPages(Paginate(name, SplitLines(text))), nil
}

// ExtractOffice returns the text content of an office file, chosen by
// extension.
func ExtractOffice(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return extractDocx(path)
	case ".pptx":
		return extractPptx(path)
	case ".xlsx":
		return extractXlsx(path)
	case ".doc", ".ppt", ".xls":
		return extractLegacy(path)
	default:
		return "", ErrUnsupported
	}
}

func extractDocx(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		paragraphs, err := readZipXML(f)
		if err != nil {
			return "", err
		}
		return strings.Join(paragraphs, "\n"), nil
	}
	return "", fmt.Errorf("open docx: word/document.xml missing")
}

func extractPptx(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open pptx: %w", err)
	}
	defer zr.Close()

	type slide struct {
		num  int
		file *zip.File
	}
	var slides []slide
	for _, f := range zr.File {
		m := slidePattern.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slide{num: n, file: f})
	}
	if len(slides) == 0 {
		return "", fmt.Errorf("open pptx: no slides")
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	var out []string
	for _, s := range slides {
		paragraphs, err := readZipXML(s.file)
		if err != nil {
			return "", err
		}
		out = append(out, fmt.Sprintf("--- Slide %d ---", s.num))
		out = append(out, paragraphs...)
	}
	return strings.Join(out, "\n"), nil
}

func extractXlsx(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	var out []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		out = append(out, fmt.Sprintf("--- Sheet %s ---", sheet))
		for _, row := range rows {
			out = append(out, strings.Join(row, " | "))
		}
	}
	return strings.Join(out, "\n"), nil
}

// extractLegacy recovers printable runs from OLE compound files. Single
// NUL bytes between printable bytes are skipped so UTF-16LE text survives.
func extractLegacy(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !bytes.HasPrefix(data, oleSignature) {
		return "", fmt.Errorf("not an OLE compound document")
	}

	runs := PrintableRuns(data[len(oleSignature):], minRunLength)
	if len(runs) == 0 {
		return "", ErrNoText
	}
	return strings.Join(runs, "\n"), nil
}

// PrintableRuns returns runs of printable ASCII at least minLen bytes long.
func PrintableRuns(data []byte, minLen int) []string {
	var (
		runs []string
		cur  []byte
	)
	flush := func() {
		if len(cur) >= minLen {
			runs = append(runs, strings.TrimSpace(string(cur)))
		}
		cur = cur[:0]
	}

	for i := 0; i < len(data); i++ {
		b := data[i]
		switch {
		case b == '\t' || (b >= 0x20 && b < 0x7f):
			cur = append(cur, b)
		case b == 0 && len(cur) > 0 && i+1 < len(data) && data[i+1] >= 0x20 && data[i+1] < 0x7f:
			// UTF-16LE high byte
		default:
			flush()
		}
	}
	flush()

	out := runs[:0]
	for _, r := range runs {
		if len(r) >= minLen {
			out = append(out, r)
		}
	}
	return out
}

// readZipXML returns the paragraph texts of an OOXML part. Text runs are
// the "t" elements, paragraphs the "p" elements, in both WordprocessingML
// and DrawingML.
func readZipXML(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	paragraphs, err := paragraphText(rc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Name, err)
	}
	return paragraphs, nil
}

// paragraphText collects one string per "p" element. Paragraphs nested in
// text boxes are emitted on their own, before the paragraph holding the box.
// Tabs count only inside runs. Markup-compatibility fallbacks are skipped.
func paragraphText(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var (
		paragraphs []string
		open       []*strings.Builder
		inText     bool
		runDepth   int
		fallback   int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "Fallback" {
				fallback++
			}
			if fallback > 0 {
				continue
			}
			switch t.Name.Local {
			case "p":
				open = append(open, &strings.Builder{})
			case "r":
				runDepth++
			case "t":
				inText = true
			case "tab":
				if runDepth > 0 && len(open) > 0 {
					open[len(open)-1].WriteByte('\t')
				}
			case "br":
				if len(open) > 0 {
					open[len(open)-1].WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Local == "Fallback" {
				fallback--
				continue
			}
			if fallback > 0 {
				continue
			}
			switch t.Name.Local {
			case "p":
				if n := len(open); n > 0 {
					paragraphs = append(paragraphs, open[n-1].String())
					open = open[:n-1]
				}
			case "r":
				if runDepth > 0 {
					runDepth--
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && fallback == 0 && len(open) > 0 {
				open[len(open)-1].Write(t)
			}
		}
	}
	return paragraphs, nil
}
