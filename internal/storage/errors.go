package storage

import "errors"

// ErrNotFound is returned by every lookup that misses, regardless of the
// resource type. Callers translate it into their own taxonomy.
var ErrNotFound = errors.New("storage: not found")
