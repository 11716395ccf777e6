package meta

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service represents a metadata loader
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// URL resolves location against the base URL
func (s *Service) URL(location string) string {
	if s.baseURL == "" || !url.IsRelative(location) {
		return location
	}
	return url.Join(s.baseURL, location)
}

// Download returns the raw content at location with env expressions expanded
func (s *Service) Download(ctx context.Context, location string) ([]byte, error) {
	URL := s.URL(location)
	data, err := s.fs.DownloadWithURL(ctx, URL, s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", URL, err)
	}
	return []byte(expandEnvExpr(string(data))), nil
}

// Load decodes the YAML document at location into target
func (s *Service) Load(ctx context.Context, location string, target interface{}) error {
	data, err := s.Download(ctx, location)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode %v: %w", s.URL(location), err)
	}
	return nil
}

// New creates a metadata service
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs, baseURL: baseURL, options: options}
}
