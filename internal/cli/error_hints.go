package cli

import (
	"bufio"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/vburojevic/logstat/internal/discovery"
)

func hintForPath(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, fs.ErrPermission) {
		return "Check read permissions on the path"
	}
	if errors.Is(err, discovery.ErrInvalidPath) {
		return "Pass an existing log file or directory with --path"
	}
	return ""
}

func hintForRead(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, fs.ErrPermission) {
		return "Check read permissions on the log files"
	}
	if errors.Is(err, bufio.ErrTooLong) {
		return "Lines longer than 1MB cannot be read; split or filter the file first"
	}
	return ""
}

func hintForWrite(err error, path string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, fs.ErrNotExist) {
		return "Create the directory " + filepath.Dir(path) + " or pass another --output"
	}
	if errors.Is(err, fs.ErrPermission) {
		return "Pass a writable --output, or '-' for stdout"
	}
	return ""
}

// withHint drops empty hints so error output omits the field.
func withHint(hint string) []string {
	if hint == "" {
		return nil
	}
	return []string{hint}
}
