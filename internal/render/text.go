package render

import (
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const (
	// MaxLineChars is the longest line drawn before truncation.
	MaxLineChars = 95
	// Ellipsis marks a truncated line.
	Ellipsis = "..."
	// Unreadable replaces the content of files that cannot be read.
	Unreadable = "[file could not be read]"
)

// Page is one laid-out page of text.
type Page struct {
	Header string
	Lines  []string
}

// AddText renders the text file at path and returns the number of pages
// added. It never fails: unreadable content is replaced by a placeholder.
func (d *Document) AddText(path, name string) int {
	return d.addPages(Paginate(name, SplitLines(ReadText(path))))
}

func (d *Document) addPages(pages []Page) int {
	for _, page := range pages {
		d.newPage(page.Header)
		d.pdf.SetFont(bodyFont, "", bodyFontSize)
		y := BodyTop
		for _, line := range page.Lines {
			d.pdf.Text(Margin, y, d.tr(line))
			y += LineHeight
		}
	}
	return len(pages)
}

// ReadText returns the file content decoded as UTF-8, falling back to
// ISO-8859-1.
func ReadText(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return Unreadable
	}
	text, ok := DecodeText(data)
	if !ok {
		return Unreadable
	}
	return text
}

// DecodeText decodes data as UTF-8 when valid and as ISO-8859-1 otherwise.
func DecodeText(data []byte) (string, bool) {
	if utf8.Valid(data) {
		return strings.TrimPrefix(string(data), "\ufeff"), true
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// SplitLines splits content on \n, \r\n or a lone \r and truncates long
// lines.
func SplitLines(content string) []string {
	lines := strings.Split(lineEndings.Replace(content), "\n")
	for i, line := range lines {
		lines[i] = TruncateLine(line)
	}
	return lines
}

// TruncateLine cuts line to MaxLineChars characters and appends Ellipsis
// when it is longer.
func TruncateLine(line string) string {
	if utf8.RuneCountInString(line) <= MaxLineChars {
		return line
	}
	runes := []rune(line)
	return string(runes[:MaxLineChars]) + Ellipsis
}

// Paginate distributes lines over pages of LinesPerPage lines. The first
// page carries the file header, the rest the continuation header. At least
// one page is returned.
func Paginate(name string, lines []string) []Page {
	pages := []Page{{Header: Header(name)}}
	for _, line := range lines {
		last := &pages[len(pages)-1]
		if len(last.Lines) == LinesPerPage {
			pages = append(pages, Page{Header: ContinuedHeader(name)})
			last = &pages[len(pages)-1]
		}
		last.Lines = append(last.Lines, line)
	}
	return pages
}
