package core

import (
	"context"
	"io"
)

// FileStore is any service that can store uploaded files and resolve them back
// to a readable URL. Implementations own bucketing/signing details.
type FileStore interface {
	// Upload stores the content read from r under key and returns the stored path.
	Upload(ctx context.Context, key string, r io.Reader) (string, error)
	// URL resolves a stored path to a readable (possibly time-limited) URL.
	URL(path string) string
}
