package knx

import (
	"fmt"
	"strconv"
	"strings"
)

// AddressStyle selects how a raw 16-bit group address is rendered.
//
// ETS projects declare their style in project.xml (GroupAddressStyle);
// the user may override it from the command line.
type AddressStyle string

// Supported address styles, named as ETS writes them.
const (
	StyleFree       AddressStyle = "Free"
	StyleTwoLevel   AddressStyle = "TwoLevel"
	StyleThreeLevel AddressStyle = "ThreeLevel"
)

// Bit layout of a group address.
//
//	Three level: MMMM MIII SSSS SSSS (main 5, middle 3, sub 8)
//	Two level:   MMMM MSSS SSSS SSSS (main 5, sub 11)
const (
	gaMainShift   = 11
	gaMiddleShift = 8

	gaMainMask     = 0x1F  // 5 bits
	gaMiddleMask   = 0x07  // 3 bits
	gaSubMask      = 0xFF  // 8 bits
	gaTwoLevelMask = 0x7FF // 11 bits
)

// Styles returns every supported style in declaration order.
func Styles() []AddressStyle {
	return []AddressStyle{StyleFree, StyleTwoLevel, StyleThreeLevel}
}

// ParseAddressStyle validates a style name.
//
// Parameters:
//   - s: Style name exactly as ETS writes it ("Free", "TwoLevel", "ThreeLevel")
//
// Returns:
//   - AddressStyle: The matching style
//   - error: ErrUnknownAddressStyle if s is not a supported style
func ParseAddressStyle(s string) (AddressStyle, error) {
	for _, style := range Styles() {
		if string(style) == s {
			return style, nil
		}
	}
	return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnknownAddressStyle, s, joinStyles())
}

// ResolveAddressStyle picks the style for a project. A non-empty override
// wins over the style declared in the project metadata.
func ResolveAddressStyle(override, declared string) (AddressStyle, error) {
	if override != "" {
		return ParseAddressStyle(override)
	}
	return ParseAddressStyle(declared)
}

// FormatGroupAddress renders a raw group address in the given style.
//
// Parameters:
//   - addr: Raw integer address as stored in the ETS Address attribute
//   - style: Rendering style
//
// Returns:
//   - string: "2316" (Free), "1/268" (TwoLevel) or "1/1/12" (ThreeLevel)
//   - error: ErrInvalidGroupAddress for negative input, ErrUnknownAddressStyle for bad style
//
// Example:
//
//	s, _ := FormatGroupAddress(2316, StyleThreeLevel) // "1/1/12"
func FormatGroupAddress(addr int, style AddressStyle) (string, error) {
	if addr < 0 {
		return "", fmt.Errorf("%w: negative value %d", ErrInvalidGroupAddress, addr)
	}

	switch style {
	case StyleFree:
		return strconv.Itoa(addr), nil
	case StyleTwoLevel:
		return fmt.Sprintf("%d/%d",
			(addr>>gaMainShift)&gaMainMask,
			addr&gaTwoLevelMask,
		), nil
	case StyleThreeLevel:
		return fmt.Sprintf("%d/%d/%d",
			(addr>>gaMainShift)&gaMainMask,
			(addr>>gaMiddleShift)&gaMiddleMask,
			addr&gaSubMask,
		), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAddressStyle, string(style))
	}
}

// ParseRawAddress parses the decimal Address attribute of an ETS group address.
func ParseRawAddress(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGroupAddress, s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: negative value %d", ErrInvalidGroupAddress, v)
	}
	return v, nil
}

func joinStyles() string {
	names := make([]string, 0, len(Styles()))
	for _, s := range Styles() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
