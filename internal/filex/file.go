// Package filex contains small filesystem helpers for writing exported data
// to disk.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EnsureSubDir creates dirName under the current working directory if it
// does not exist and returns its absolute path.
func EnsureSubDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// WriteExport saves content into the "exports" subdirectory under a
// timestamped name like users-20060102-150405.csv and returns the full path.
func WriteExport(content, format string, now time.Time) (string, error) {
	dir, err := EnsureSubDir("exports")
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("users-%s.%s", now.Format("20060102-150405"), format)
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, []byte(content), 0o660); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return path, nil
}
