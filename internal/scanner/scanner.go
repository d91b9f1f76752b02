// Package scanner enumerates candidate music files under a source root.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// MusicExtensions is the extension allow-list for candidate files.
// Matching is case-sensitive against the stored extension.
var MusicExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".wav":  true,
	".m4a":  true,
}

// IsMusicFile reports whether path carries a recognized music extension.
func IsMusicFile(path string) bool {
	return MusicExtensions[filepath.Ext(path)]
}

// ScanResult contains the candidate files and statistics from a scan.
type ScanResult struct {
	// Files is the candidate set in directory-traversal order.
	Files []string

	DirsVisited  int
	FilesSkipped int // entries visited but not matching the allow-list
	Errors       []error
	Duration     time.Duration
}

// Scan walks root recursively and returns every file whose extension is on
// the music allow-list, in stable traversal order. The result is a snapshot:
// files created after the walk passes their directory are not picked up.
// Unreadable subtrees are recorded in Errors and skipped; only a root that
// is missing or not a directory fails the scan.
func Scan(root string) (*ScanResult, error) {
	start := time.Now()

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("unable to access source: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", root)
	}

	result := &ScanResult{}
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, err)
			return nil
		}
		if d.IsDir() {
			result.DirsVisited++
			return nil
		}
		if !IsMusicFile(path) {
			result.FilesSkipped++
			return nil
		}
		result.Files = append(result.Files, path)
		return nil
	})

	result.Duration = time.Since(start)
	return result, nil
}
