package pipeline

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AnyUserName/webpfit/internal/source"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory.
	RelPath string
	// Key is the asset key (relpath without extension).
	Key string
	// Format is the source format implied by the extension.
	Format string
	// Size is the file size in bytes.
	Size int64
}

// ScanImages walks the input directory and returns all image sources.
// Files sharing a stem (logo.png, logo.jpg) get the extension appended to
// the key of every file after the first, then a counter if that is taken too.
func ScanImages(inputDir string) ([]Source, error) {
	var sources []Source
	seen := map[string]bool{}

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories.
			if strings.HasPrefix(info.Name(), ".") && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}

		format, ok := source.FormatOf(path)
		if !ok {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}

		key := uniqueKey(seen, relPath)
		seen[key] = true

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: filepath.ToSlash(relPath),
			Key:     key,
			Format:  format,
			Size:    info.Size(),
		})
		return nil
	})

	return sources, err
}

// uniqueKey returns the first unused of <stem>, <stem>-<ext>, <stem>-<ext>-2, ...
func uniqueKey(seen map[string]bool, relPath string) string {
	ext := filepath.Ext(relPath)
	key := filepath.ToSlash(strings.TrimSuffix(relPath, ext))
	if !seen[key] {
		return key
	}
	key += "-" + strings.ToLower(strings.TrimPrefix(ext, "."))
	for i, base := 2, key; seen[key]; i++ {
		key = base + "-" + strconv.Itoa(i)
	}
	return key
}
