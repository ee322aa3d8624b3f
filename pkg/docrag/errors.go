package docrag

import "errors"

var (
	// ErrNotFound is returned when the source document does not exist.
	ErrNotFound = errors.New("source document not found")
	// ErrEmptyDocument is returned when the source document has no
	// non-blank paragraphs to index.
	ErrEmptyDocument = errors.New("document is empty")
	// ErrCacheCorrupt marks a cache file that is present but unreadable
	// or structurally inconsistent. BuildOrLoad recovers from it by
	// rebuilding, so it never surfaces to callers.
	ErrCacheCorrupt = errors.New("embedding cache corrupt")
)
