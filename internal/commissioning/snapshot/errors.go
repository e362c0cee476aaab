package snapshot

import "errors"

// ErrNotFound is returned when no snapshot matches a query.
var ErrNotFound = errors.New("snapshot: not found")
