package pipeline

import "errors"

// ErrUnsupportedFormat indicates an output format other than homeass or linknx.
var ErrUnsupportedFormat = errors.New("unsupported output format")
