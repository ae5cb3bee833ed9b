package convert

import (
	"os"
	"path/filepath"
	"strings"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory.
	RelPath string
	// Key is the relative path without extension, using forward slashes.
	Key string
	// Size is the file size in bytes.
	Size int64
}

// ScanImages walks inputDir and returns every file whose extension is one
// of formats. Extensions only pick candidates; the actual format is
// detected from content during conversion. Directories listed in skip
// (typically the output directory) are not descended into.
func ScanImages(inputDir string, formats []string, skip ...string) ([]Source, error) {
	exts := make(map[string]bool, len(formats))
	for _, f := range formats {
		exts["."+strings.ToLower(f)] = true
	}
	skipped := make(map[string]bool, len(skip))
	for _, d := range skip {
		if abs, err := filepath.Abs(d); err == nil {
			skipped[abs] = true
		}
	}

	var sources []Source
	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories.
			if strings.HasPrefix(info.Name(), ".") && path != inputDir {
				return filepath.SkipDir
			}
			if path != inputDir && len(skipped) > 0 {
				if abs, err := filepath.Abs(path); err == nil && skipped[abs] {
					return filepath.SkipDir
				}
			}
			return nil
		}

		ext := filepath.Ext(path)
		if !exts[strings.ToLower(ext)] {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: filepath.ToSlash(relPath),
			Key:     filepath.ToSlash(strings.TrimSuffix(relPath, ext)),
			Size:    info.Size(),
		})
		return nil
	})

	return sources, err
}
