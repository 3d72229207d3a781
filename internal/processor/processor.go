package processor

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"folder2pdf/internal/render"
)

// Run converts every eligible file under root into a single PDF at dest.
// Status values are sent on updates as the job moves through its states;
// the caller owns the channel and closes it after Run returns. Files that
// fail to render are skipped. The returned error is non-nil only when the
// job itself failed.
func Run(root, dest string, opts Options, updates chan<- Status) (Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	summary := Summary{State: StateIdle, Source: root, Output: dest}
	m := &machine{state: StateIdle, updates: updates}

	fail := func(err error) (Summary, error) {
		logger.Error("conversion failed", "source", root, "output", dest, "error", err)
		summary.State = StateFailed
		summary.Err = err
		m.enter(StateFailed, Status{Message: fmt.Sprintf("Conversion failed: %v", err)})
		return summary, err
	}

	m.enter(StateScanning, Status{Message: "Scanning files..."})

	entries, err := Discover(root)
	if err != nil {
		return fail(err)
	}
	summary.Found = len(entries)
	logger.Info("scan complete", "source", root, "found", len(entries))

	if len(entries) == 0 {
		summary.State = StateNoFiles
		m.enter(StateNoFiles, Status{Message: "No convertible files found in the folder"})
		return summary, nil
	}

	if err := checkDestination(dest); err != nil {
		return fail(err)
	}

	total := len(entries)
	m.enter(StateRendering, Status{
		Message: fmt.Sprintf("%d files found. Building PDF...", total),
		Total:   total,
	})

	doc := render.NewDocument()
	for i, entry := range entries {
		res := renderEntry(doc, entry)
		summary.Results = append(summary.Results, res)
		if res.Outcome == OutcomeSkipped {
			summary.Skipped++
			logger.Warn("skipped file", "path", entry.Path, "category", entry.Category, "reason", res.Reason)
		} else {
			logger.Debug("rendered file", "path", entry.Path, "category", entry.Category, "pages", res.Pages)
		}

		m.enter(StateRendering, Status{
			Message:  fmt.Sprintf("Processing: %d/%d - %s", i+1, total, entry.Name),
			Index:    i + 1,
			Total:    total,
			Progress: float64(i+1) / float64(total),
			Pages:    doc.PageCount(),
			Result:   &res,
		})
	}

	if err := doc.Err(); err != nil {
		return fail(fmt.Errorf("build document: %w", err))
	}

	summary.Pages = doc.PageCount()
	m.enter(StateFinalizing, Status{
		Message:  "Writing PDF...",
		Index:    total,
		Total:    total,
		Progress: 1,
		Pages:    summary.Pages,
	})

	if err := doc.WriteFile(dest); err != nil {
		return fail(err)
	}

	if opts.Verify {
		pages, err := Verify(dest)
		if err != nil {
			return fail(err)
		}
		summary.Pages = pages
	}

	logger.Info("pdf written", "output", dest, "pages", summary.Pages, "files", summary.Rendered(), "skipped", summary.Skipped)
	summary.State = StateDone
	m.enter(StateDone, Status{
		Message:  "PDF created successfully",
		Index:    total,
		Total:    total,
		Progress: 1,
		Pages:    summary.Pages,
	})
	return summary, nil
}

// renderEntry appends entry to doc. Errors and panics raised while
// rendering are turned into a skipped result.
func renderEntry(doc *render.Document, entry FileEntry) (res FileResult) {
	res = FileResult{Entry: entry, Outcome: OutcomeRendered}
	before := doc.PageCount()

	defer func() {
		if r := recover(); r != nil {
			res.Outcome = OutcomeSkipped
			res.Reason = fmt.Sprintf("panic: %v", r)
			res.Pages = doc.PageCount() - before
		}
	}()

	var err error
	switch entry.Category {
	case CategoryImage:
		err = doc.AddImage(entry.Path, entry.Name)
	case CategoryText:
		doc.AddText(entry.Path, entry.Name)
	case CategoryOffice:
		_, err = doc.AddOffice(entry.Path, entry.Name)
	default:
		err = render.ErrUnsupported
	}

	res.Pages = doc.PageCount() - before
	if err != nil {
		res.Outcome = OutcomeSkipped
		res.Reason = err.Error()
	}
	return res
}

func checkDestination(dest string) error {
	if dest == "" {
		return fmt.Errorf("destination path is empty")
	}
	dir := filepath.Dir(dest)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("destination folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("destination folder %s is not a directory", dir)
	}
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		return fmt.Errorf("destination %s is a directory", dest)
	}
	return nil
}
