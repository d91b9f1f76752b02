package organizer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Nomadcxx/tunewatch/internal/logging"
)

// CollectEmptyDirs removes directories under root that are currently empty
// and returns how many were deleted. The root itself is never removed.
//
// This is a single pass over a snapshot of the tree: a parent that becomes
// empty only because this pass deleted its children survives until the next
// invocation. Repeated invocation is idempotent, so a purely-empty subtree
// drains over successive runs. Deletion failures are logged and skipped.
func (o *Organizer) CollectEmptyDirs(root string) (int, error) {
	info, err := os.Stat(root)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", root)
	}

	var dirs []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			o.log.Warn("cleanup", "unable to visit path", logging.F("path", path), logging.F("error", err))
			return nil
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			o.log.Error("cleanup", "unable to read directory", err, logging.F("dir", dir))
			continue
		}
		if len(entries) > 0 {
			continue
		}

		if err := os.Remove(dir); err != nil {
			o.log.Error("cleanup", "unable to delete empty folder", err, logging.F("dir", dir))
			continue
		}
		removed++
		o.log.Info("cleanup", "deleted empty folder", logging.F("dir", dir))
	}

	return removed, nil
}
