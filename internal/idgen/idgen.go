package idgen

import "github.com/google/uuid"

// NewFunc generates identifiers; tests may replace it.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier.
func New() string { return NewFunc() }

// Short returns the first eight characters of a new identifier, enough to
// tell apart runs in log output.
func Short() string {
	id := NewFunc()
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
