package correction

import (
	"strings"

	"github.com/nerrad567/gray-logic-ets2hass/internal/project"
)

// ObjectRule sets device defaults on matching objects.
type ObjectRule struct {
	// Type matches objects of this function type; empty matches all.
	Type project.FunctionType

	// NameContains further restricts matches; empty matches all.
	NameContains string

	// Domain forces the device category when set.
	Domain string

	// Fields are merged into the device definition.
	Fields []project.Field
}

func (r ObjectRule) matches(obj project.Object) bool {
	if r.Type != "" && obj.Type != r.Type {
		return false
	}
	return r.NameContains == "" || strings.Contains(obj.Name, r.NameContains)
}

// ObjectDefaults applies an ObjectRule to every matching object.
func ObjectDefaults(rule ObjectRule, log Logger) Fixer {
	return FixerFunc(func(model *project.Model) error {
		for _, id := range model.ObjectIDs() {
			obj, err := model.Object(id)
			if err != nil {
				return err
			}
			if !rule.matches(obj) {
				continue
			}

			ext := obj.Ext
			if rule.Domain != "" {
				ext.Domain = rule.Domain
			}
			for _, f := range rule.Fields {
				ext.SetField(f.Key, f.Value)
			}
			if err := model.SetObjectExt(id, ext); err != nil {
				return err
			}
			log.Debug("object defaults applied", "object", obj.Name, "domain", ext.Domain)
		}
		return nil
	})
}

// AddressRule overrides matching group addresses. All set criteria must
// match; a rule with no criteria matches nothing.
type AddressRule struct {
	AddressContains string
	NamePrefix      string
	NameSuffix      string
	Datapoint       string

	// Property forces the device property (project.PropertyIgnore drops it).
	Property string

	// SetDatapoint replaces the datapoint; an empty string excludes the
	// address from generation.
	SetDatapoint *string

	// DisplayName replaces the name in the linknx output.
	DisplayName string
}

func (r AddressRule) hasCriteria() bool {
	return r.AddressContains != "" || r.NamePrefix != "" || r.NameSuffix != "" || r.Datapoint != ""
}

func (r AddressRule) matches(ga project.GroupAddress) bool {
	if !r.hasCriteria() {
		return false
	}
	if r.AddressContains != "" && !strings.Contains(ga.Address, r.AddressContains) {
		return false
	}
	if r.NamePrefix != "" && !strings.HasPrefix(ga.Name, r.NamePrefix) {
		return false
	}
	if r.NameSuffix != "" && !strings.HasSuffix(ga.Name, r.NameSuffix) {
		return false
	}
	return r.Datapoint == "" || ga.Datapoint == r.Datapoint
}

// AddressOverrides applies an AddressRule to every matching address.
func AddressOverrides(rule AddressRule, log Logger) Fixer {
	return FixerFunc(func(model *project.Model) error {
		for _, id := range model.GroupAddressIDs() {
			ga, err := model.GroupAddress(id)
			if err != nil {
				return err
			}
			if !rule.matches(ga) {
				continue
			}

			ext := ga.Ext
			if rule.Property != "" {
				ext.Property = rule.Property
			}
			if rule.DisplayName != "" {
				ext.DisplayName = rule.DisplayName
			}
			if err := model.SetGroupAddressExt(id, ext); err != nil {
				return err
			}
			if rule.SetDatapoint != nil {
				if err := model.SetDatapoint(id, *rule.SetDatapoint); err != nil {
					return err
				}
			}
			log.Debug("address override applied", "address", ga.Address, "property", ext.Property)
		}
		return nil
	})
}

// ObjectNames gives explicit device names to objects by identifier.
// Unknown identifiers are reported and skipped.
func ObjectNames(names map[string]string, log Logger) Fixer {
	return FixerFunc(func(model *project.Model) error {
		for _, id := range model.ObjectIDs() {
			name, ok := names[id]
			if !ok {
				continue
			}
			obj, err := model.Object(id)
			if err != nil {
				return err
			}
			ext := obj.Ext
			ext.Name = name
			if err := model.SetObjectExt(id, ext); err != nil {
				return err
			}
		}
		for id := range names {
			if !model.HasObject(id) {
				log.Warn("cannot name unknown object", "object", id)
			}
		}
		return nil
	})
}
