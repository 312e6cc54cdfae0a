package localdump

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/toothbrush/confluence-export/confluence"
)

// LoadSnapshot reads back the page list an earlier export saved under root, so pages can be
// exported again without talking to Confluence.
func LoadSnapshot(root string) ([]confluence.Page, error) {
	fullPath := filepath.Join(root, MetaDir, SnapshotFile)
	source, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("localdump: couldn't read snapshot %s: %w", fullPath, err)
	}

	var pages []confluence.Page
	if err := json.Unmarshal(source, &pages); err != nil {
		return nil, fmt.Errorf("localdump: couldn't parse snapshot %s: %w", fullPath, err)
	}
	return pages, nil
}

// listFiles returns every regular file below inFolder, relative to root.  A missing folder just
// means nothing has been exported there yet.
func listFiles(root, inFolder string) ([]string, error) {
	if _, err := os.Stat(inFolder); errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("localdump: error opening %s for file tree walk: %w", inFolder, err)
	}

	filenames := []string{}
	err := filepath.WalkDir(inFolder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("localdump: error during file tree walk: %w", err)
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("localdump: couldn't compute relative path of %s: %w", path, err)
		}
		filenames = append(filenames, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return filenames, nil
}
