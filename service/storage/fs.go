package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	afsstorage "github.com/viant/afs/storage"
	"github.com/viant/afs/url"
)

// errStopWalk ends a walk early without reporting an error.
var errStopWalk = errors.New("stop walk")

// fsStorage implements Storage with afs, covering file://, mem:// and every
// other scheme afs has a manager for.
type fsStorage struct {
	fs      afs.Service
	baseURL string
}

func newFS(baseURL string, o *options) *fsStorage {
	return &fsStorage{fs: o.fs, baseURL: baseURL}
}

func (s *fsStorage) URL() string {
	return s.baseURL
}

func (s *fsStorage) objectURL(name string) string {
	return url.Join(s.baseURL, name)
}

func (s *fsStorage) Put(ctx context.Context, name string, reader io.Reader, _ string) error {
	URL := s.objectURL(name)
	if err := s.fs.Upload(ctx, URL, file.DefaultFileOsMode, reader); err != nil {
		return fmt.Errorf("failed to upload %v: %w", URL, err)
	}
	return nil
}

func (s *fsStorage) Get(ctx context.Context, name string) ([]byte, error) {
	URL := s.objectURL(name)
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", URL, err)
	}
	return data, nil
}

func (s *fsStorage) Has(ctx context.Context, name string) (bool, error) {
	return s.fs.Exists(ctx, s.objectURL(name))
}

func (s *fsStorage) Count(ctx context.Context) (int, error) {
	exists, err := s.fs.Exists(ctx, s.baseURL)
	if err != nil || !exists {
		return 0, err
	}
	count := 0
	err = walk(ctx, s.fs, s.baseURL, func(object afsstorage.Object) error {
		count++
		return nil
	})
	return count, err
}

func (s *fsStorage) Purge(ctx context.Context) (int, error) {
	count, err := s.Count(ctx)
	if err != nil || count == 0 {
		return 0, err
	}
	objects, err := s.fs.List(ctx, s.baseURL)
	if err != nil {
		return 0, fmt.Errorf("failed to list %v: %w", s.baseURL, err)
	}
	for i, object := range objects {
		if i == 0 && object.IsDir() {
			continue
		}
		if err = s.fs.Delete(ctx, object.URL()); err != nil {
			return 0, fmt.Errorf("failed to delete %v: %w", object.URL(), err)
		}
	}
	return count, nil
}

func (s *fsStorage) Close() error {
	return nil
}

// walk visits every file under URL depth first in listing order. The first
// entry of a directory listing is the directory itself and is skipped.
func walk(ctx context.Context, fs afs.Service, URL string, visit func(object afsstorage.Object) error) error {
	objects, err := fs.List(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to list %v: %w", URL, err)
	}
	for i, object := range objects {
		if object.IsDir() {
			if i == 0 {
				continue
			}
			if err = walk(ctx, fs, object.URL(), visit); err != nil {
				return err
			}
			continue
		}
		if err = visit(object); err != nil {
			return err
		}
	}
	return nil
}
