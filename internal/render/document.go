// Package render lays files out as pages of a single A4 PDF document.
package render

import (
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Page geometry in points, origin at the top-left corner.
const (
	PageWidth  = 595.0
	PageHeight = 842.0

	Margin       = 30.0
	HeaderY      = 30.0
	BodyTop      = 60.0
	BodyBottom   = PageHeight - 50.0
	LineHeight   = 12.0
	LinesPerPage = int((BodyBottom-BodyTop)/LineHeight) + 1

	headerFont     = "Helvetica"
	headerFontSize = 10.0
	bodyFont       = "Courier"
	bodyFontSize   = 8.0
)

var (
	// ErrUnsupported is returned for files no renderer accepts.
	ErrUnsupported = errors.New("unsupported file type")
	// ErrNoText is returned when an office document yields no readable text.
	ErrNoText = errors.New("no readable text")
)

// Document is an append-only sequence of pages. It is not safe for
// concurrent use.
type Document struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	images int
}

// NewDocument returns an empty portrait A4 document.
func NewDocument() *Document {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	pdf.SetMargins(Margin, Margin, Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("folder2pdf", true)

	return &Document{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// PageCount returns the number of pages added so far.
func (d *Document) PageCount() int {
	return d.pdf.PageCount()
}

// Err returns the first error recorded by the underlying PDF writer.
func (d *Document) Err() error {
	return d.pdf.Error()
}

// WriteFile writes the document to path. The document cannot be used
// afterwards.
func (d *Document) WriteFile(path string) error {
	if err := d.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (d *Document) newPage(header string) {
	d.pdf.AddPage()
	d.pdf.SetFont(headerFont, "B", headerFontSize)
	d.pdf.Text(Margin, HeaderY, d.tr(header))
}

// Header returns the page header for a file's first page.
func Header(name string) string {
	return "File: " + name
}

// ContinuedHeader returns the page header for a file's follow-up pages.
func ContinuedHeader(name string) string {
	return Header(name) + " (continued)"
}
