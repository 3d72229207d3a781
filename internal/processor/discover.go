package processor

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	imageExts  = extSet("jpg", "jpeg", "png", "bmp", "gif", "tiff", "webp")
	textExts   = extSet("txt", "md", "csv", "json", "xml", "log", "py", "js", "html", "css", "java", "cpp", "c", "h")
	officeExts = extSet("docx", "doc", "pptx", "ppt", "xlsx", "xls")
)

func extSet(exts ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		set["."+ext] = struct{}{}
	}
	return set
}

// Classify returns the category of path by its lowercase extension.
func Classify(path string) Category {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := imageExts[ext]; ok {
		return CategoryImage
	}
	if _, ok := textExts[ext]; ok {
		return CategoryText
	}
	if _, ok := officeExts[ext]; ok {
		return CategoryOffice
	}
	return CategoryUnsupported
}

// Discover walks root and returns every eligible file sorted by full path.
// Symlinks to regular files are included; symlinked directories are not
// descended into. An empty result is not an error.
func Discover(root string) ([]FileEntry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var entries []FileEntry
	fsys := os.DirFS(absRoot)
	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		category := Classify(path)
		if category == CategoryUnsupported {
			return nil
		}

		full := filepath.Join(absRoot, filepath.FromSlash(path))
		if !isFile(d, full) {
			return nil
		}

		entries = append(entries, FileEntry{
			Path:     full,
			RelPath:  path,
			Name:     filepath.Base(path),
			Ext:      strings.ToLower(filepath.Ext(path)),
			Category: category,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func isFile(d fs.DirEntry, path string) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
