package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/suykerbuyk/vttseg/internal/archive"
	"github.com/suykerbuyk/vttseg/internal/cue"
)

// CaptionFile represents a discovered caption file on disk.
type CaptionFile struct {
	Path       string
	Format     cue.Format
	Compressed bool  // true for .zst archives
	ModTime    int64 // unix timestamp for sorting
}

// IsCaption reports whether path has a supported caption extension,
// optionally followed by .zst.
func IsCaption(path string) bool {
	_, err := cue.DetectFormat(path)
	return err == nil
}

// Discover walks basePath recursively and returns all caption files,
// sorted by modification time (oldest first). Hidden directories are skipped.
func Discover(basePath string) ([]CaptionFile, error) {
	var results []CaptionFile

	err := filepath.Walk(basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if info.IsDir() {
			if path != basePath && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		format, ferr := cue.DetectFormat(path)
		if ferr != nil {
			return nil
		}

		results = append(results, CaptionFile{
			Path:       path,
			Format:     format,
			Compressed: strings.HasSuffix(strings.ToLower(path), archive.Ext),
			ModTime:    info.ModTime().Unix(),
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ModTime < results[j].ModTime
	})

	return results, nil
}
