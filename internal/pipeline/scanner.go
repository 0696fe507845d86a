package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/mediagrid/internal/manifest"
)

// Source represents a discovered conversation document.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory.
	RelPath string
	// Key is the document key (relpath without extension).
	Key string
	// Size is the file size in bytes.
	Size int64
}

// ScanDocuments walks the input directory and returns every *.json
// document, skipping hidden directories and render manifests.
func ScanDocuments(inputDir string) ([]Source, error) {
	var sources []Source

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".json" || info.Name() == manifest.FileName {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: filepath.ToSlash(relPath),
			Key:     filepath.ToSlash(strings.TrimSuffix(relPath, filepath.Ext(relPath))),
			Size:    info.Size(),
		})
		return nil
	})

	return sources, err
}
