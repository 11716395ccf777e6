package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/viant/afs/url"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// gcsStorage implements Storage on a Cloud Storage bucket prefix
type gcsStorage struct {
	client  *gcs.Client
	owned   bool
	baseURL string
	bucket  string
	prefix  string
}

func newGCS(ctx context.Context, baseURL string, o *options) (*gcsStorage, error) {
	bucket := url.Host(baseURL)
	if bucket == "" {
		return nil, fmt.Errorf("invalid gcs URL %v: missing bucket", baseURL)
	}
	ret := &gcsStorage{
		client:  o.client,
		baseURL: baseURL,
		bucket:  bucket,
		prefix:  strings.Trim(url.Path(baseURL), "/"),
	}
	if ret.client == nil {
		var clientOptions []option.ClientOption
		if len(o.credentials) > 0 {
			clientOptions = append(clientOptions, option.WithCredentialsJSON(o.credentials))
		}
		client, err := gcs.NewClient(ctx, clientOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to create gcs client: %w", err)
		}
		ret.client = client
		ret.owned = true
	}
	return ret, nil
}

func (s *gcsStorage) URL() string {
	return s.baseURL
}

func (s *gcsStorage) object(name string) *gcs.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(path.Join(s.prefix, name))
}

func (s *gcsStorage) Put(ctx context.Context, name string, reader io.Reader, contentType string) error {
	writer := s.object(name).NewWriter(ctx)
	writer.ContentType = contentType
	if _, err := io.Copy(writer, reader); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write gs://%v/%v: %w", s.bucket, writer.ObjectAttrs.Name, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to write gs://%v/%v: %w", s.bucket, writer.ObjectAttrs.Name, err)
	}
	return nil
}

func (s *gcsStorage) Get(ctx context.Context, name string) ([]byte, error) {
	reader, err := s.object(name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read %v: %w", name, err)
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func (s *gcsStorage) Has(ctx context.Context, name string) (bool, error) {
	_, err := s.object(name).Attrs(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *gcsStorage) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.list(ctx, func(attrs *gcs.ObjectAttrs) error {
		count++
		return nil
	})
	return count, err
}

func (s *gcsStorage) Purge(ctx context.Context) (int, error) {
	count := 0
	err := s.list(ctx, func(attrs *gcs.ObjectAttrs) error {
		if err := s.client.Bucket(s.bucket).Object(attrs.Name).Delete(ctx); err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
			return fmt.Errorf("failed to delete gs://%v/%v: %w", s.bucket, attrs.Name, err)
		}
		count++
		return nil
	})
	return count, err
}

func (s *gcsStorage) list(ctx context.Context, visit func(attrs *gcs.ObjectAttrs) error) error {
	query := &gcs.Query{}
	if s.prefix != "" {
		query.Prefix = s.prefix + "/"
	}
	it := s.client.Bucket(s.bucket).Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to list gs://%v/%v: %w", s.bucket, s.prefix, err)
		}
		if err = visit(attrs); err != nil {
			return err
		}
	}
}

func (s *gcsStorage) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}
