package project

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/nerrad567/gray-logic-ets2hass/internal/knx"
)

// FunctionType classifies an ETS function (the "FT-n" Type attribute).
type FunctionType string

// Function types known to ETS.
const (
	FunctionCustom                    FunctionType = "custom"
	FunctionSwitchableLight           FunctionType = "switchable_light"
	FunctionDimmableLight             FunctionType = "dimmable_light"
	FunctionSunProtection             FunctionType = "sun_protection"
	FunctionHeatingRadiator           FunctionType = "heating_radiator"
	FunctionHeatingFloor              FunctionType = "heating_floor"
	FunctionHeatingSwitchingVariable  FunctionType = "heating_switching_variable"
	FunctionHeatingContinuousVariable FunctionType = "heating_continuous_variable"
)

// functionTypesByIndex maps the n of "FT-n" to a classification. ETS
// reuses dimmable_light (FT-2, FT-6) and sun_protection (FT-3, FT-7) for
// two codes each; both codes are kept.
var functionTypesByIndex = [...]FunctionType{
	FunctionCustom,
	FunctionSwitchableLight,
	FunctionDimmableLight,
	FunctionSunProtection,
	FunctionHeatingRadiator,
	FunctionHeatingFloor,
	FunctionDimmableLight,
	FunctionSunProtection,
	FunctionHeatingSwitchingVariable,
	FunctionHeatingContinuousVariable,
}

var functionTypePattern = regexp.MustCompile(`^FT-([0-9])$`)

// ParseFunctionType converts an ETS "FT-n" code to a FunctionType.
//
// Returns:
//   - FunctionType: The classification for the code
//   - error: ErrUnknownFunctionType when s is not FT- followed by one digit
func ParseFunctionType(s string) (FunctionType, error) {
	m := functionTypePattern.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownFunctionType, s)
	}
	idx, err := strconv.Atoi(m[1])
	if err != nil || idx >= len(functionTypesByIndex) {
		return "", fmt.Errorf("%w: %q", ErrUnknownFunctionType, s)
	}
	return functionTypesByIndex[idx], nil
}

// Valid reports whether t is one of the known function types.
func (t FunctionType) Valid() bool {
	for _, known := range functionTypesByIndex {
		if t == known {
			return true
		}
	}
	return false
}

// PropertyIgnore is the property override that drops a group address from
// its device without any warning.
const PropertyIgnore = "ignore"

// Info is the project-level metadata read from project.xml.
type Info struct {
	Name         string
	AddressStyle knx.AddressStyle
}

// GroupAddress is one entry of the ETS group address table.
type GroupAddress struct {
	// ID is the internal ETS identifier (e.g. "P-0341-0_GA-1"). Unique key.
	ID string

	Name        string
	Description string

	// Address is rendered in the project's address style ("1/1/1").
	Address string

	// Raw is the integer address, used for numeric ordering.
	Raw int

	// Datapoint is normalised as "main.sub" ("1.001"). Empty means unresolved.
	Datapoint string

	Ext GroupAddressExt
}

// GroupAddressExt carries per-address corrections.
type GroupAddressExt struct {
	// Property forces the device property this address fills.
	// PropertyIgnore drops the address silently.
	Property string

	// DisplayName replaces the address name in the linknx object list.
	DisplayName string
}

// Object is a functional object: an ETS function, or one synthesised by a
// correction.
type Object struct {
	ID    string
	Name  string
	Type  FunctionType
	Floor string
	Room  string
	Ext   ObjectExt
}

// ObjectExt carries per-object corrections.
type ObjectExt struct {
	// Domain forces the Home Assistant device category ("light", "switch").
	Domain string

	// Name is an explicit device name; it is never replaced by the default.
	Name string

	// Fields seed the generated device, in order.
	Fields []Field
}

// Field is one ordered key/value of a device definition.
type Field struct {
	Key   string
	Value any
}

// SetField replaces the value of key, or appends it when absent.
func (e *ObjectExt) SetField(key string, value any) {
	for i := range e.Fields {
		if e.Fields[i].Key == key {
			e.Fields[i].Value = value
			return
		}
	}
	e.Fields = append(e.Fields, Field{Key: key, Value: value})
}

// clone returns a copy that shares no slices with e.
func (e ObjectExt) clone() ObjectExt {
	if e.Fields != nil {
		e.Fields = append([]Field(nil), e.Fields...)
	}
	return e
}

// Association links a group address to an object.
type Association struct {
	GroupAddressID string
	ObjectID       string
}
