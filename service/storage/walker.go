package storage

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"path"
	"strings"

	"github.com/viant/afs"
	afsstorage "github.com/viant/afs/storage"
	"github.com/viant/afs/url"
)

// Walker is a producer yielding every file under a source location. Files
// are counted up front so each asset carries an "<index>/<total>" tag.
type Walker struct {
	fs        afs.Service
	sourceURL string
	dirname   string
	total     int
	logger    *slog.Logger
}

// NewWalker creates a walker for sourceURL and counts its files. It fails
// when the source does not exist or cannot be listed.
func NewWalker(ctx context.Context, sourceURL string, opts ...Option) (*Walker, error) {
	o := newOptions(opts)
	sourceURL = strings.TrimRight(sourceURL, "/")
	exists, err := o.fs.Exists(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to check %v: %w", sourceURL, err)
	}
	if !exists {
		return nil, fmt.Errorf("%v not found", sourceURL)
	}
	ret := &Walker{
		fs:        o.fs,
		sourceURL: sourceURL,
		dirname:   path.Base(url.Path(sourceURL)),
		logger:    o.logger,
	}
	if ret.total, err = ret.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count %v: %w", sourceURL, err)
	}
	return ret, nil
}

// Total returns the number of files counted when the walker was created
func (w *Walker) Total() int {
	return w.total
}

// Count returns the number of files under the source
func (w *Walker) Count(ctx context.Context) (int, error) {
	count := 0
	err := walk(ctx, w.fs, w.sourceURL, func(object afsstorage.Object) error {
		count++
		return nil
	})
	return count, err
}

// Items yields one asset per file. A listing failure is reported as the
// last element.
func (w *Walker) Items(ctx context.Context) iter.Seq2[*Asset, error] {
	return func(yield func(*Asset, error) bool) {
		total := w.total
		w.logger.Info(fmt.Sprintf("%d objects to be uploaded", total), "source", w.sourceURL)

		sourcePath := strings.TrimRight(url.Path(w.sourceURL), "/")
		index := 0
		err := walk(ctx, w.fs, w.sourceURL, func(object afsstorage.Object) error {
			if ctx.Err() != nil {
				return errStopWalk
			}
			index++
			name := w.dirname
			if objectPath := url.Path(object.URL()); objectPath != sourcePath {
				name = path.Join(w.dirname, strings.TrimPrefix(objectPath, sourcePath+"/"))
			}
			asset := &Asset{
				URL:         object.URL(),
				Name:        name,
				Tag:         fmt.Sprintf("%d/%d", index, total),
				Size:        object.Size(),
				ModTime:     object.ModTime(),
				ContentType: ContentType(name),
			}
			if !yield(asset, nil) {
				return errStopWalk
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopWalk) {
			yield(nil, err)
		}
	}
}

// Close is a no-op
func (w *Walker) Close() error {
	w.logger.Debug("walker closed", "source", w.sourceURL)
	return nil
}
