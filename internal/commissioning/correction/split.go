package correction

import (
	"fmt"
	"strings"

	"github.com/nerrad567/gray-logic-ets2hass/internal/project"
)

// SplitRule splits an object into one object per group address.
//
// Some installations drive each blind with two push-button addresses
// (one up, one down) that Home Assistant must see as two switches rather
// than one cover.
type SplitRule struct {
	// Type selects the objects to examine.
	Type project.FunctionType `yaml:"type"`

	// FirstAddressSuffix must end the name of the object's first address.
	FirstAddressSuffix string `yaml:"first_address_suffix"`

	// Directions are searched, in order, in each address name. The first
	// one found suffixes the new object's identifier and name.
	Directions []string `yaml:"directions"`

	// Datapoint replaces the datapoint of every split address when set.
	Datapoint string `yaml:"datapoint"`

	// Domain is the device category of the new objects.
	Domain string `yaml:"domain"`
}

// SplitObjects applies a SplitRule.
//
// Returns ErrSplitDirection when an address of a matching object names
// none of the directions.
func SplitObjects(rule SplitRule, log Logger) Fixer {
	return FixerFunc(func(model *project.Model) error {
		type split struct {
			original project.Object
			parts    []project.Object
			gaIDs    []string
		}

		var splits []split
		for _, objID := range model.ObjectIDs() {
			obj, err := model.Object(objID)
			if err != nil {
				return err
			}
			if obj.Type != rule.Type {
				continue
			}
			gaIDs := model.ObjectGroupAddresses(objID)
			if len(gaIDs) == 0 {
				continue
			}
			first, err := model.GroupAddress(gaIDs[0])
			if err != nil {
				return err
			}
			if !strings.HasSuffix(first.Name, rule.FirstAddressSuffix) {
				continue
			}

			s := split{original: obj, gaIDs: gaIDs}
			for _, gaID := range gaIDs {
				ga, err := model.GroupAddress(gaID)
				if err != nil {
					return err
				}
				direction, ok := findDirection(ga.Name, rule.Directions)
				if !ok {
					return fmt.Errorf("%w: %q (expected one of %s)",
						ErrSplitDirection, ga.Name, strings.Join(rule.Directions, ", "))
				}
				s.parts = append(s.parts, project.Object{
					ID:    obj.ID + "_" + direction,
					Name:  obj.Name + " " + direction,
					Type:  project.FunctionCustom,
					Floor: obj.Floor,
					Room:  obj.Room,
					Ext:   project.ObjectExt{Domain: rule.Domain},
				})
			}
			splits = append(splits, s)
		}

		for _, s := range splits {
			if err := model.DeleteObject(s.original.ID); err != nil {
				return err
			}
			for i, part := range s.parts {
				gaID := s.gaIDs[i]
				if rule.Datapoint != "" {
					if err := model.SetDatapoint(gaID, rule.Datapoint); err != nil {
						return err
					}
				}
				if err := model.AddObject(part); err != nil {
					return err
				}
				if err := model.Associate(gaID, part.ID); err != nil {
					return err
				}
			}
			log.Debug("object split", "object", s.original.Name, "parts", len(s.parts))
		}
		return nil
	})
}

func findDirection(name string, directions []string) (string, bool) {
	for _, d := range directions {
		if strings.Contains(name, d) {
			return d, true
		}
	}
	return "", false
}

// PulseBlinds is the correction for installations where every blind is
// wired as two pulse push-buttons:
//
//  1. sun_protection objects whose first address ends in ":Pulse" are
//     split into one switch per direction, with datapoint 1.001
//  2. remaining covers get travelling times of 59 seconds
//  3. custom objects become switches
//  4. addresses in middle group 1 are state addresses, in middle group 4
//     brightness state addresses
func PulseBlinds(log Logger) Fixer {
	return Chain(
		SplitObjects(SplitRule{
			Type:               project.FunctionSunProtection,
			FirstAddressSuffix: ":Pulse",
			Directions:         []string{"Montee", "Descente", "Up", "Down"},
			Datapoint:          "1.001",
			Domain:             "switch",
		}, log),
		ObjectDefaults(ObjectRule{
			Type: project.FunctionSunProtection,
			Fields: []project.Field{
				{Key: "travelling_time_down", Value: 59},
				{Key: "travelling_time_up", Value: 59},
			},
		}, log),
		ObjectDefaults(ObjectRule{Type: project.FunctionCustom, Domain: "switch"}, log),
		AddressOverrides(AddressRule{AddressContains: "/1/", Property: "state_address"}, log),
		AddressOverrides(AddressRule{AddressContains: "/4/", Property: "brightness_state_address"}, log),
	)
}
