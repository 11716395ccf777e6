package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/googleapis/gax-go/v2"
	"github.com/viant/afs"
	"golang.org/x/time/rate"
)

// DefaultMaxAttempts bounds upload attempts per asset
const DefaultMaxAttempts = 10

// Uploader is a consumer copying each asset to its destination Storage.
type Uploader struct {
	fs          afs.Service
	destination Storage
	overwrite   bool
	maxAttempts int
	backoff     gax.Backoff
	limiter     *rate.Limiter
	logger      *slog.Logger
}

// UploaderOption customises an Uploader
type UploaderOption func(*Uploader)

// WithOverwrite replaces objects that already exist at the destination
func WithOverwrite(overwrite bool) UploaderOption {
	return func(u *Uploader) {
		u.overwrite = overwrite
	}
}

// WithMaxAttempts sets the number of upload attempts per asset
func WithMaxAttempts(attempts int) UploaderOption {
	return func(u *Uploader) {
		if attempts > 0 {
			u.maxAttempts = attempts
		}
	}
}

// WithBackoff sets the pause policy between attempts
func WithBackoff(backoff gax.Backoff) UploaderOption {
	return func(u *Uploader) {
		u.backoff = backoff
	}
}

// WithLimiter throttles destination calls; a limiter may be shared by
// several uploaders.
func WithLimiter(limiter *rate.Limiter) UploaderOption {
	return func(u *Uploader) {
		u.limiter = limiter
	}
}

// WithSourceFS sets the afs service used to read sources
func WithSourceFS(fs afs.Service) UploaderOption {
	return func(u *Uploader) {
		u.fs = fs
	}
}

// WithUploaderLogger sets the structured logger
func WithUploaderLogger(logger *slog.Logger) UploaderOption {
	return func(u *Uploader) {
		u.logger = logger
	}
}

// NewUploader creates an uploader owning destination
func NewUploader(destination Storage, opts ...UploaderOption) *Uploader {
	ret := &Uploader{
		destination: destination,
		maxAttempts: DefaultMaxAttempts,
		backoff: gax.Backoff{
			Initial:    100 * time.Millisecond,
			Max:        5 * time.Second,
			Multiplier: 2,
		},
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
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

// Consume uploads asset, retrying failed attempts with exponential backoff.
// An existing object is left untouched unless overwrite is set.
func (u *Uploader) Consume(ctx context.Context, asset *Asset) error {
	data, err := u.fs.DownloadWithURL(ctx, asset.URL)
	if err != nil {
		return fmt.Errorf("failed to read %v: %w", asset.URL, err)
	}
	backoff := u.backoff
	for attempt := 1; ; attempt++ {
		if err = u.limiter.Wait(ctx); err != nil {
			return err
		}
		if err = u.upload(ctx, asset, data); err == nil {
			return nil
		}
		if attempt >= u.maxAttempts {
			return fmt.Errorf("failed to upload %v after %d attempts: %w", asset.Name, attempt, err)
		}
		pause := backoff.Pause()
		u.logger.Info("retrying upload", "tag", asset.Tag, "name", asset.Name, "attempt", attempt, "pause", pause, "error", err)
		if err = gax.Sleep(ctx, pause); err != nil {
			return err
		}
	}
}

func (u *Uploader) upload(ctx context.Context, asset *Asset, data []byte) error {
	if !u.overwrite {
		exists, err := u.destination.Has(ctx, asset.Name)
		if err != nil {
			return err
		}
		if exists {
			u.logger.Info(fmt.Sprintf("%s: %s already exists", asset.Tag, asset.Name))
			return nil
		}
	}
	if err := u.destination.Put(ctx, asset.Name, bytes.NewReader(data), asset.ContentType); err != nil {
		return err
	}
	u.logger.Info(fmt.Sprintf("%s: %s uploaded", asset.Tag, asset.Name))
	return nil
}

// Close releases the destination
func (u *Uploader) Close() error {
	return u.destination.Close()
}
