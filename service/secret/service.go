package secret

import (
	"context"
	"fmt"

	"github.com/viant/scy"
	_ "github.com/viant/scy/kms/blowfish"
)

// DefaultKey is the scy key used when none is supplied
const DefaultKey = "blowfish://default"

// Service provides secret management operations using viant/scy
type Service struct {
	scy *scy.Service
}

// New creates a new secret service
func New() *Service {
	return &Service{scy: scy.New()}
}

// Reveal decrypts the secret stored at URL and returns its raw content
func (s *Service) Reveal(ctx context.Context, URL, key string) ([]byte, error) {
	if key == "" {
		key = DefaultKey
	}
	resource := scy.NewResource(nil, URL, key)
	secret, err := s.scy.Load(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to load secret from %v: %w", URL, err)
	}
	return []byte(secret.String()), nil
}

// Secure encrypts content and stores it at URL
func (s *Service) Secure(ctx context.Context, content []byte, URL, key string) error {
	if key == "" {
		key = DefaultKey
	}
	resource := scy.NewResource(nil, URL, key)
	if err := s.scy.Store(ctx, scy.NewSecret(string(content), resource)); err != nil {
		return fmt.Errorf("failed to store secret at %v: %w", URL, err)
	}
	return nil
}
