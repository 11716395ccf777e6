package storage

import (
	"context"
	"io"

	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// GCSScheme selects the Google Cloud Storage implementation
const GCSScheme = "gs"

// Storage represents an object destination rooted at a base URL. Names are
// relative to that base.
type Storage interface {
	// URL returns the base URL
	URL() string

	// Put writes the object, replacing any existing one
	Put(ctx context.Context, name string, reader io.Reader, contentType string) error

	// Get reads the whole object
	Get(ctx context.Context, name string) ([]byte, error)

	// Has reports whether the object exists
	Has(ctx context.Context, name string) (bool, error)

	// Count returns the number of objects under the base URL
	Count(ctx context.Context) (int, error)

	// Purge deletes every object under the base URL and returns how many
	// were removed
	Purge(ctx context.Context) (int, error)

	// Close releases held resources
	Close() error
}

// New returns the Storage implementation for baseURL: gs:// locations use
// the Cloud Storage client, anything else goes through afs.
func New(ctx context.Context, baseURL string, opts ...Option) (Storage, error) {
	o := newOptions(opts)
	if url.Scheme(baseURL, file.Scheme) == GCSScheme {
		return newGCS(ctx, baseURL, o)
	}
	return newFS(baseURL, o), nil
}
