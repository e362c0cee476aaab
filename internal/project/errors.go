package project

import "errors"

// Sentinel errors for project model operations.
var (
	// ErrGroupAddressNotFound is returned when an address ID is not registered.
	ErrGroupAddressNotFound = errors.New("project: group address not found")

	// ErrObjectNotFound is returned when an object ID is not registered.
	ErrObjectNotFound = errors.New("project: object not found")

	// ErrDuplicateGroupAddress is returned when an address ID is registered twice.
	ErrDuplicateGroupAddress = errors.New("project: duplicate group address")

	// ErrDuplicateObject is returned when an object ID is registered twice.
	ErrDuplicateObject = errors.New("project: duplicate object")

	// ErrInvalidID is returned for an empty identifier.
	ErrInvalidID = errors.New("project: identifier cannot be empty")

	// ErrUnknownFunctionType is returned for a Type attribute that is not FT-<digit>.
	ErrUnknownFunctionType = errors.New("project: unknown function type")
)
