package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentType(t *testing.T) {
	testCases := []struct {
		name   string
		expect string
	}{
		{name: "index.html", expect: "text/html"},
		{name: "dir/app.JS", expect: "application/javascript"},
		{name: "data.json", expect: "application/json"},
		{name: "photo.jpeg", expect: "image/jpeg"},
		{name: "archive.tar.gz", expect: "application/gzip"},
		{name: "README", expect: "application/octet-stream"},
		{name: "blob.unknownext", expect: "application/octet-stream"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, ContentType(tc.name))
		})
	}
}
