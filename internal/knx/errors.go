package knx

import "errors"

// Domain-specific errors for KNX addressing.
var (
	// ErrInvalidGroupAddress is returned when a raw group address cannot be
	// parsed or is out of range.
	ErrInvalidGroupAddress = errors.New("knx: invalid group address")

	// ErrUnknownAddressStyle is returned when the address style is neither
	// Free, TwoLevel nor ThreeLevel.
	ErrUnknownAddressStyle = errors.New("knx: unknown group address style")
)
