package knx

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// dpstPattern matches the datapoint subtype identifiers ETS stores in
// DatapointType attributes, e.g. "DPST-1-1".
var dpstPattern = regexp.MustCompile(`^DPST-([0-9]+)-([0-9]+)$`)

// Datapoint types the converter knows by name.
const (
	DPTSwitch         = "1.001"
	DPTUpDown         = "1.008"
	DPTStep           = "1.010"
	DPTState          = "1.011"
	DPTControlDimming = "3.007"
	DPTPercentage     = "5.001"
)

// ParseDatapointType normalises an ETS datapoint subtype to "main.sub"
// with the subtype padded to three digits.
//
// Returns false when s does not look like DPST-<main>-<sub>. Only the
// subtype form is accepted: a bare "DPT-5" has no subtype and cannot be
// mapped to a device property.
//
// Example:
//
//	ParseDatapointType("DPST-5-1") // "5.001", true
//	ParseDatapointType("DPT-5")    // "", false
func ParseDatapointType(s string) (string, bool) {
	m := dpstPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}

	main, err := strconv.Atoi(m[1])
	if err != nil {
		return "", false
	}
	sub, err := strconv.Atoi(m[2])
	if err != nil {
		return "", false
	}

	return fmt.Sprintf("%d.%03d", main, sub), true
}

// MainType returns the main number of a normalised datapoint ("5.001" -> "5").
func MainType(dpt string) string {
	main, _, _ := strings.Cut(dpt, ".")
	return main
}
