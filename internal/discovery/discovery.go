package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtension selects files when a directory is given.
const DefaultExtension = ".log"

// ErrInvalidPath is returned when the input path is neither a file nor a directory.
var ErrInvalidPath = errors.New("wrong path argument")

// Find resolves path into the list of sources to read. A file is returned
// as-is whatever its extension. A directory is walked recursively in
// lexical order and files whose name ends with ext are kept.
func Find(path, ext string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPath, path, err)
	}

	if info.Mode().IsRegular() {
		return []string{path}, nil
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	if ext == "" {
		ext = DefaultExtension
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		// symlinked directories are not descended into and are not sources
		if d.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(p); err == nil && info.IsDir() {
				return nil
			}
		}
		if strings.HasSuffix(d.Name(), ext) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", path, err)
	}

	return files, nil
}
