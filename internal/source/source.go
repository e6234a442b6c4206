package source

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/depobrain/depobrain/constants"
)

// Document is one source transcript as listed by a Source.
type Document struct {
	Name string // base filename, the document identity used in storage
	Path string // provider-specific locator (absolute path for filesystems)
}

// Source lists the transcript corpus and hands out shareable references
// used to stamp findings for later retrieval. Implementations wrap the
// actual storage provider (a local folder, a file-sharing service, ...).
type Source interface {
	List(ctx context.Context) ([]Document, error)
	ShareLink(doc Document) string
}

// FSSource walks a directory tree for PDF transcripts.
type FSSource struct {
	root   string
	logger *slog.Logger
}

func NewFSSource(root string, logger *slog.Logger) *FSSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSSource{root: root, logger: logger}
}

// List walks the root, skipping hidden entries and anything that is not an
// allowed transcript format. Unreadable entries are logged and skipped.
func (s *FSSource) List(ctx context.Context) ([]Document, error) {
	var docs []Document
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if walkErr != nil {
			s.logger.Warn("source walk error; skipping", "path", path, "error", walkErr)
			return nil
		}
		if isHidden(path) {
			if d.IsDir() && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !constants.IsAllowedExt(filepath.Ext(path)) {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			s.logger.Warn("source abs path failed; skipping", "path", path, "error", err)
			return nil
		}
		docs = append(docs, Document{Name: filepath.Base(path), Path: abs})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// ShareLink returns an opaque reference back to the original document.
// For filesystem sources that is a file URI.
func (s *FSSource) ShareLink(doc Document) string {
	return "file://" + doc.Path
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
