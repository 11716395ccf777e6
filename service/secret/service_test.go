package secret

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

func TestService_SecureReveal(t *testing.T) {
	ctx := context.Background()
	srv := New()
	URL := "mem://localhost/secret_test/token.enc"
	content := []byte("s3cr3t-token")

	require.NoError(t, srv.Secure(ctx, content, URL, ""))

	stored, err := afs.New().DownloadWithURL(ctx, URL)
	require.NoError(t, err)
	assert.NotEqual(t, string(content), string(stored), "secret is stored encrypted")

	revealed, err := srv.Reveal(ctx, URL, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, string(content), string(revealed))
}

func TestService_RevealMissing(t *testing.T) {
	_, err := New().Reveal(context.Background(), "mem://localhost/secret_test/missing.json", "")
	assert.Error(t, err)
}
