package constants

import "strings"

// AllowedExtensions holds the file extensions the ingestion walk accepts.
// Deposition transcripts arrive as PDF only.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// DefaultCollectionID labels segments whose ingest run did not name a
// collection.
const DefaultCollectionID = "default"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether the (possibly dotted) extension is ingestible.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
