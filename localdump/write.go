package localdump

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ensureRoot creates the output root if needed and checks it really is a directory.
func ensureRoot(root string) error {
	if err := os.MkdirAll(root, 0750); err != nil {
		return fmt.Errorf("localdump: couldn't create output root %s: %w", root, err)
	}
	stat, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("localdump: cannot stat '%s': %w", root, err)
	}
	if !stat.IsDir() {
		return fmt.Errorf("localdump: output root not a directory: '%s'", root)
	}
	return nil
}

// writeFile writes contents to root/rel, creating parent directories as needed.
func writeFile(root, rel string, contents []byte) error {
	abs := filepath.Join(root, rel)
	directory := filepath.Dir(abs)

	if err := os.MkdirAll(directory, 0750); err != nil {
		return fmt.Errorf("localdump: couldn't create directory %s: %w", directory, err)
	}

	f, err := os.Create(abs)
	if err != nil {
		return fmt.Errorf("localdump: couldn't create file %s: %w", abs, err)
	}
	defer f.Close()

	if _, err = f.Write(contents); err != nil {
		return fmt.Errorf("localdump: couldn't write to file %s: %w", abs, err)
	}
	return nil
}

func writeJSON(root, rel string, v any) error {
	contents, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("localdump: couldn't marshal %s: %w", rel, err)
	}
	return writeFile(root, rel, append(contents, '\n'))
}
