package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	afsstorage "github.com/viant/afs/storage"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func seed(t *testing.T, fs afs.Service, baseURL string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, fs.Upload(context.Background(), baseURL+"/"+name, file.DefaultFileOsMode, strings.NewReader(content)))
	}
}

func TestWalker_Items(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	sourceURL := "mem://localhost/walker_test/photos"
	seed(t, fs, sourceURL, map[string]string{
		"a.jpg":          "a",
		"2024/b.png":     "bb",
		"2024/05/c.json": "ccc",
	})

	walker, err := NewWalker(ctx, sourceURL, WithFS(fs), WithLogger(quiet))
	require.NoError(t, err)
	defer walker.Close()

	count, err := walker.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 3, walker.Total())

	var names, tags []string
	for asset, err := range walker.Items(ctx) {
		require.NoError(t, err)
		names = append(names, asset.Name)
		tags = append(tags, asset.Tag)
		assert.Equal(t, ContentType(asset.Name), asset.ContentType)
		assert.True(t, strings.HasPrefix(asset.URL, sourceURL+"/"))
	}
	sort.Strings(names)
	assert.Equal(t, []string{"photos/2024/05/c.json", "photos/2024/b.png", "photos/a.jpg"}, names)
	assert.Equal(t, []string{"1/3", "2/3", "3/3"}, tags)
}

func TestWalker_StopsEarly(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	sourceURL := "mem://localhost/walker_test/early"
	seed(t, fs, sourceURL, map[string]string{"1.txt": "1", "2.txt": "2", "3.txt": "3"})

	walker, err := NewWalker(ctx, sourceURL, WithFS(fs), WithLogger(quiet))
	require.NoError(t, err)
	taken := 0
	for range walker.Items(ctx) {
		taken++
		break
	}
	assert.Equal(t, 1, taken)
}

func TestWalker_MissingSource(t *testing.T) {
	_, err := NewWalker(context.Background(), "mem://localhost/walker_test/missing", WithLogger(quiet))
	assert.ErrorContains(t, err, "not found")
}

type unlistableFS struct {
	afs.Service
}

func (f *unlistableFS) List(ctx context.Context, URL string, options ...afsstorage.Option) ([]afsstorage.Object, error) {
	return nil, errors.New("permission denied")
}

func TestWalker_ListingFailure(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	sourceURL := "mem://localhost/walker_test/unlistable"
	seed(t, fs, sourceURL, map[string]string{"a.txt": "a"})

	_, err := NewWalker(ctx, sourceURL, WithFS(&unlistableFS{Service: fs}), WithLogger(quiet))
	assert.ErrorContains(t, err, "failed to count")
	assert.ErrorContains(t, err, "permission denied")
}
