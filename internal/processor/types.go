package processor

import "log/slog"

type Category int

const (
	CategoryUnsupported Category = iota
	CategoryImage
	CategoryText
	CategoryOffice
)

func (c Category) String() string {
	switch c {
	case CategoryImage:
		return "image"
	case CategoryText:
		return "text"
	case CategoryOffice:
		return "office"
	default:
		return "unsupported"
	}
}

type Options struct {
	// Verify re-reads the written PDF with pdfcpu and counts its pages.
	Verify bool
	Logger *slog.Logger
}

// FileEntry is an eligible file found under the source root.
type FileEntry struct {
	Path     string
	RelPath  string
	Name     string
	Ext      string
	Category Category
}

type Outcome int

const (
	OutcomeRendered Outcome = iota
	OutcomeSkipped
)

func (o Outcome) String() string {
	if o == OutcomeSkipped {
		return "skipped"
	}
	return "rendered"
}

// FileResult is the per-file outcome of a job.
type FileResult struct {
	Entry   FileEntry
	Outcome Outcome
	Pages   int
	Reason  string
}

type Summary struct {
	State   State
	Source  string
	Output  string
	Found   int
	Skipped int
	Pages   int
	Results []FileResult
	Err     error
}

// Rendered returns the number of files that produced pages.
func (s Summary) Rendered() int {
	return s.Found - s.Skipped
}

// SkippedResults returns the results of files that were skipped, in
// processing order.
func (s Summary) SkippedResults() []FileResult {
	var out []FileResult
	for _, r := range s.Results {
		if r.Outcome == OutcomeSkipped {
			out = append(out, r)
		}
	}
	return out
}

// Status is a snapshot of job progress sent to the front end.
type Status struct {
	State    State
	Message  string
	Index    int
	Total    int
	Progress float64
	Pages    int
	Result   *FileResult
}
