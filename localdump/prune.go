package localdump

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// produced records what one export job wrote, so the rest of pages/ can be pruned afterwards.
type produced struct {
	files map[string]bool
	// attachment directories of exported pages; whatever is inside them is kept.
	attachmentDirs map[string]bool
}

func newProduced() *produced {
	return &produced{files: map[string]bool{}, attachmentDirs: map[string]bool{}}
}

func (p *produced) keeps(rel string) bool {
	if p.files[rel] {
		return true
	}
	for dir := filepath.Dir(rel); dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
		if p.attachmentDirs[dir] {
			return true
		}
	}
	return false
}

// prune deletes files below root/pages that this job didn't produce, then removes directories
// left empty.  It returns how many files went.
func (e *Exporter) prune(root string, keep *produced) (int, error) {
	pagesRoot := filepath.Join(root, PagesDir)
	localFiles, err := listFiles(root, pagesRoot)
	if err != nil {
		return 0, fmt.Errorf("localdump: failed to list files in %s: %w", pagesRoot, err)
	}

	removed := 0
	for _, relative := range localFiles {
		if keep.keeps(relative) {
			continue
		}

		// if we're here, it's a stale/unknown file.
		e.logger().Printf("Pruning: %s\n", relative)
		if err := os.Remove(filepath.Join(root, relative)); err != nil {
			return removed, fmt.Errorf("localdump: failed to delete: %w", err)
		}
		removed++
	}

	if err := removeEmptyDirs(pagesRoot); err != nil {
		return removed, err
	}
	return removed, nil
}

// removeEmptyDirs removes empty directories below dir, deepest first.  dir itself stays.
func removeEmptyDirs(dir string) error {
	var dirs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("localdump: error during file tree walk: %w", err)
		}
		if d.IsDir() && path != dir {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	sort.Slice(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], string(filepath.Separator)) > strings.Count(dirs[j], string(filepath.Separator))
	})
	for _, d := range dirs {
		entries, err := os.ReadDir(d)
		if err != nil {
			return fmt.Errorf("localdump: couldn't read %s: %w", d, err)
		}
		if len(entries) > 0 {
			continue
		}
		if err := os.Remove(d); err != nil {
			return fmt.Errorf("localdump: couldn't remove empty directory %s: %w", d, err)
		}
	}
	return nil
}
