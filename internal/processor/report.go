package processor

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Report is the serialized form of a finished job.
type Report struct {
	Source   string       `yaml:"source"`
	Output   string       `yaml:"output,omitempty"`
	State    string       `yaml:"state"`
	Error    string       `yaml:"error,omitempty"`
	Found    int          `yaml:"found"`
	Rendered int          `yaml:"rendered"`
	Skipped  int          `yaml:"skipped"`
	Pages    int          `yaml:"pages"`
	Files    []ReportFile `yaml:"files"`
}

type ReportFile struct {
	Path     string `yaml:"path"`
	Category string `yaml:"category"`
	Outcome  string `yaml:"outcome"`
	Pages    int    `yaml:"pages"`
	Reason   string `yaml:"reason,omitempty"`
}

// NewReport flattens a summary for serialization.
func NewReport(s Summary) Report {
	r := Report{
		Source:   s.Source,
		State:    s.State.String(),
		Found:    s.Found,
		Rendered: s.Rendered(),
		Skipped:  s.Skipped,
		Pages:    s.Pages,
		Files:    make([]ReportFile, 0, len(s.Results)),
	}
	if s.State == StateDone {
		r.Output = s.Output
	}
	if s.Err != nil {
		r.Error = s.Err.Error()
	}
	for _, res := range s.Results {
		r.Files = append(r.Files, ReportFile{
			Path:     res.Entry.RelPath,
			Category: res.Entry.Category.String(),
			Outcome:  res.Outcome.String(),
			Pages:    res.Pages,
			Reason:   res.Reason,
		})
	}
	return r
}

// WriteReport writes the job summary to path as YAML.
func WriteReport(path string, s Summary) error {
	data, err := yaml.Marshal(NewReport(s))
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
