package meta

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

type document struct {
	Name    string        `yaml:"name"`
	Target  string        `yaml:"target"`
	Timeout time.Duration `yaml:"timeout"`
}

func TestService_Load(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	baseURL := "mem://localhost/meta"
	content := "name: upload\ntarget: gs://${env.QWORKER_TEST_BUCKET}/data\ntimeout: 250ms\n"
	require.NoError(t, fs.Upload(ctx, baseURL+"/doc.yaml", file.DefaultFileOsMode, strings.NewReader(content)))
	t.Setenv("QWORKER_TEST_BUCKET", "assets")

	srv := New(fs, baseURL)

	var doc document
	require.NoError(t, srv.Load(ctx, "doc.yaml", &doc))
	assert.Equal(t, document{Name: "upload", Target: "gs://assets/data", Timeout: 250 * time.Millisecond}, doc)

	var absolute document
	require.NoError(t, New(fs, "").Load(ctx, baseURL+"/doc.yaml", &absolute))
	assert.Equal(t, doc, absolute)

	err := srv.Load(ctx, "missing.yaml", &doc)
	assert.Error(t, err)
}

func TestService_URL(t *testing.T) {
	srv := New(nil, "mem://localhost/meta")
	assert.Equal(t, "mem://localhost/meta/a.yaml", srv.URL("a.yaml"))
	assert.Equal(t, "file:///etc/a.yaml", srv.URL("file:///etc/a.yaml"))
}
