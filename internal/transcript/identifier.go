package transcript

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// FileUID derives a short stable identifier for a document from its source
// path. Collision resistance within a corpus is all that is required, so
// the first ten hex characters of an md5 are plenty.
func FileUID(path string) string {
	sum := md5.Sum([]byte(path))
	return hex.EncodeToString(sum[:])[:10]
}

// SegmentID builds the bates-style identifier for one chunk. It is a pure
// function of (document uid, page, chunk index); recomputing it for the
// same logical unit always yields the same value, which is what makes
// re-ingestion idempotent.
func SegmentID(fileUID string, page, index int) string {
	return fmt.Sprintf("%s_%03d_%02d", fileUID, page, index)
}
