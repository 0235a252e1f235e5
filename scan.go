package sockmount

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/sockmount/sockmount/internal/ctxlog"
	"github.com/sockmount/sockmount/internal/fsutil"
)

// Scan resolves dir against the configured root and appends every loadable
// module file to the discovered file list, in directory-listing order.
//
// A missing or unreadable target, or a target that is not a directory, is a
// soft failure: it is logged through the setup logger and the list stays
// untouched. Entries are filtered by extension first and the hidden-file
// marker second, each skip logged at info level.
func (b *Binder) Scan(dir string) *Binder {
	if b.err != nil {
		return b
	}
	logger := ctxlog.FromContext(b.ctx)
	target := filepath.Join(b.opts.Root, dir)

	if !fsutil.Exists(target) {
		logger.Error("Scan target does not exist, skipping.", "path", target)
		return b
	}
	if !fsutil.IsDir(target) {
		logger.Error("Scan target is not a directory, skipping.", "path", target)
		return b
	}

	names, err := fsutil.ListFileNames(target)
	if err != nil {
		logger.Error("Failed to list scan target, skipping.", "path", target, "error", err)
		return b
	}

	found := 0
	for _, name := range names {
		ext := extensionOf(name)
		if !slices.Contains(b.opts.Extensions, ext) {
			logger.Info("Ignoring entry with unhandled extension.", "entry", name, "extension", ext)
			continue
		}
		if strings.HasPrefix(name, ".") {
			logger.Info("Ignoring hidden entry.", "entry", name)
			continue
		}
		b.files = append(b.files, filepath.Join(target, name))
		found++
	}

	logger.Debug("Scan finished.", "path", target, "found", found, "total", len(b.files))
	return b
}

// extensionOf returns the part of name after its last dot, or the whole
// name when it has none. "archive.tar.gz" yields "gz", "Makefile" yields
// "Makefile".
func extensionOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
