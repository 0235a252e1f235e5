// Package fsutil provides file system utility functions.
package fsutil

import "os"

// Exists reports whether path names anything at all.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path names a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ListFileNames returns the names of the non-directory entries of dir, in
// directory-listing order (lexical, per os.ReadDir). Subdirectories are not
// loadable module files, so they are excluded here.
func ListFileNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}
