package storage

import (
	"log/slog"

	gcs "cloud.google.com/go/storage"
	"github.com/viant/afs"
)

type options struct {
	fs          afs.Service
	client      *gcs.Client
	credentials []byte
	logger      *slog.Logger
}

// Option customises a Storage
type Option func(*options)

// WithFS sets the afs service used for non GCS locations
func WithFS(fs afs.Service) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithClient sets a GCS client; the caller keeps ownership of it
func WithClient(client *gcs.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithCredentials sets service account JSON used to create a GCS client
func WithCredentials(credentials []byte) Option {
	return func(o *options) {
		o.credentials = credentials
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) *options {
	ret := &options{}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	return ret
}
