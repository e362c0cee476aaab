package etsimport

import "errors"

// Sentinel errors for ETS import operations.
var (
	// ErrInvalidFile indicates the file is not named like an ETS export.
	ErrInvalidFile = errors.New("invalid ETS project file")

	// ErrCorruptArchive indicates the ZIP archive or one of its XML
	// entries cannot be decoded.
	ErrCorruptArchive = errors.New("corrupt archive")

	// ErrMissingProjectFiles indicates project.xml or 0.xml is absent.
	ErrMissingProjectFiles = errors.New("did not find project information or data")

	// ErrMissingNode indicates an expected XML level is absent.
	ErrMissingNode = errors.New("cannot find level in xml")

	// ErrFileTooLarge indicates the file exceeds the size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum size limit")
)
