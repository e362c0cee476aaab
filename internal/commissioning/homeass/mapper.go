package homeass

import (
	"sort"
	"strings"

	"github.com/nerrad567/gray-logic-ets2hass/internal/knx"
	"github.com/nerrad567/gray-logic-ets2hass/internal/project"
)

// Home Assistant KNX platforms the mapper produces on its own. A
// correction may set any other domain through project.ObjectExt.
const (
	DomainLight  = "light"
	DomainCover  = "cover"
	DomainSwitch = "switch"
)

// Home Assistant KNX device properties.
const (
	PropertyAddress                = "address"
	PropertyStateAddress           = "state_address"
	PropertyMoveLongAddress        = "move_long_address"
	PropertyStopAddress            = "stop_address"
	PropertyBrightnessAddress      = "brightness_address"
	PropertyPositionAddress        = "position_address"
	PropertyBrightnessStateAddress = "brightness_state_address"
)

// nameKey is reserved for the device name.
const nameKey = "name"

// Logger is the logging surface the mapper needs.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Options control device naming and layout.
type Options struct {
	// FullName names devices "<object> <room>" instead of "<object>".
	FullName bool

	// Wrap nests the categories under WrapperKey.
	Wrap bool

	// SortByName orders devices by name inside each category instead of
	// by object identifier.
	SortByName bool
}

// Report counts what the mapper dropped or flagged.
type Report struct {
	Devices          int
	SkippedObjects   int
	SkippedAddresses int
	Conflicts        int
	Orphans          int
}

// Mapper turns a project model into a Home Assistant KNX configuration.
type Mapper struct {
	opts Options
	log  Logger
}

// NewMapper creates a mapper.
func NewMapper(opts Options, log Logger) *Mapper {
	return &Mapper{opts: opts, log: log}
}

// Map classifies every object of the model into a device.
//
// Objects are visited in identifier order and their addresses in link
// order. The model is only read, so mapping the same model twice gives
// the same configuration.
//
// Returns:
//   - *Config: Devices grouped by domain
//   - Report: Counts of skipped records and conflicts
func (m *Mapper) Map(model *project.Model) (*Config, Report) {
	var report Report

	for _, id := range model.OrphanGroupAddresses() {
		ga, err := model.GroupAddress(id)
		if err != nil {
			continue
		}
		m.log.Warn("group address not in any object: create functions in ETS or use a correction",
			"address", ga.Address, "name", ga.Name)
		report.Orphans++
	}

	byDomain := make(map[string][]Device)
	for _, id := range model.ObjectIDs() {
		obj, err := model.Object(id)
		if err != nil {
			continue
		}

		domain := obj.Ext.Domain
		if domain == "" {
			domain = domainFor(obj.Type)
		}
		if domain == "" {
			m.log.Warn("function type not mapped to a device, skipping",
				"name", obj.Name, "room", obj.Room, "type", string(obj.Type))
			report.SkippedObjects++
			continue
		}

		dev := m.newDevice(obj)
		for _, gaID := range model.ObjectGroupAddresses(id) {
			ga, err := model.GroupAddress(gaID)
			if err != nil {
				m.log.Error("group address not found, skipping", "object", obj.Name, "ref", gaID)
				report.SkippedAddresses++
				continue
			}
			switch m.assign(&dev, ga, domain) {
			case assignSkipped:
				report.SkippedAddresses++
			case assignConflict:
				report.Conflicts++
			}
		}

		for _, other := range byDomain[domain] {
			if strings.EqualFold(other.Name, dev.Name) {
				m.log.Error("device name is duplicated", "name", dev.Name, "domain", domain)
				report.Conflicts++
				break
			}
		}
		byDomain[domain] = append(byDomain[domain], dev)
	}

	cfg := &Config{Wrap: m.opts.Wrap}
	domains := make([]string, 0, len(byDomain))
	for d := range byDomain {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	for _, d := range domains {
		devices := byDomain[d]
		if m.opts.SortByName {
			sort.SliceStable(devices, func(i, j int) bool {
				return strings.ToLower(devices[i].Name) < strings.ToLower(devices[j].Name)
			})
		}
		cfg.Categories = append(cfg.Categories, Category{Domain: d, Devices: devices})
		report.Devices += len(devices)
	}

	return cfg, report
}

// newDevice seeds a device from the object name and correction fields.
func (m *Mapper) newDevice(obj project.Object) Device {
	dev := Device{Name: obj.Ext.Name}
	for _, f := range obj.Ext.Fields {
		if f.Key == nameKey {
			if s, ok := f.Value.(string); ok && dev.Name == "" {
				dev.Name = s
			}
			continue
		}
		dev.Fields = append(dev.Fields, f)
	}

	if dev.Name == "" {
		dev.Name = obj.Name
		if m.opts.FullName {
			dev.Name = obj.Name + " " + obj.Room
		}
	}
	return dev
}

type assignResult int

const (
	assignDone assignResult = iota
	assignSkipped
	assignConflict
)

// assign resolves the property of one address and sets it on the device.
func (m *Mapper) assign(dev *Device, ga project.GroupAddress, domain string) assignResult {
	if ga.Datapoint == "" {
		m.log.Warn("group address has no datapoint, skipping", "address", ga.Address, "name", ga.Name)
		return assignSkipped
	}

	property := ga.Ext.Property
	if property == project.PropertyIgnore {
		return assignSkipped
	}
	if property == "" {
		property = m.propertyFor(ga, domain)
	}
	if property == "" {
		return assignSkipped
	}

	if existing, ok := dev.Field(property); ok {
		m.log.Error("property already set, skipping",
			"address", ga.Address, "name", ga.Name, "domain", domain,
			"datapoint", ga.Datapoint, "property", property, "existing", existing)
		return assignConflict
	}

	dev.Fields = append(dev.Fields, project.Field{Key: property, Value: ga.Address})
	return assignDone
}

// domainFor maps an ETS function type to a Home Assistant platform.
// It returns "" for types that have no platform yet.
func domainFor(t project.FunctionType) string {
	switch t {
	case project.FunctionSwitchableLight, project.FunctionDimmableLight:
		return DomainLight
	case project.FunctionSunProtection:
		return DomainCover
	default:
		return ""
	}
}

// propertyFor maps a datapoint to a device property, logging why when it
// cannot.
func (m *Mapper) propertyFor(ga project.GroupAddress, domain string) string {
	switch ga.Datapoint {
	case knx.DPTSwitch:
		return PropertyAddress
	case knx.DPTUpDown:
		return PropertyMoveLongAddress
	case knx.DPTStep:
		return PropertyStopAddress
	case knx.DPTState:
		return PropertyStateAddress
	case knx.DPTControlDimming:
		// relative dimming is driven by wall buttons, not Home Assistant
		m.log.Debug("ignoring datapoint", "address", ga.Address, "name", ga.Name, "datapoint", ga.Datapoint)
		return ""
	case knx.DPTPercentage:
		switch domain {
		case DomainLight:
			return PropertyBrightnessAddress
		case DomainCover:
			return PropertyPositionAddress
		default:
			m.log.Warn("datapoint expects a light or a cover",
				"address", ga.Address, "name", ga.Name, "datapoint", ga.Datapoint, "domain", domain)
			return ""
		}
	default:
		m.log.Warn("unmanaged datapoint, skipping",
			"address", ga.Address, "name", ga.Name, "datapoint", ga.Datapoint, "domain", domain)
		return ""
	}
}
