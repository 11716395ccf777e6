package storage

import "time"

// Asset represents a source file scheduled for upload
type Asset struct {
	// URL locates the source file.
	URL string `json:"url"`
	// Name is the destination object name: <source dirname>/<relative path>.
	Name string `json:"name"`
	// Tag reports the position as "<index>/<total>".
	Tag         string    `json:"tag"`
	Size        int64     `json:"size,omitempty"`
	ModTime     time.Time `json:"modTime,omitempty"`
	ContentType string    `json:"contentType,omitempty"`
}

// String returns a log friendly representation
func (a *Asset) String() string {
	if a == nil {
		return ""
	}
	return a.Tag + " " + a.Name
}
