package correction

import (
	"fmt"
	"strings"

	"github.com/nerrad567/gray-logic-ets2hass/internal/project"
)

// Placement is where synthesised objects are put and what they become.
type Placement struct {
	Floor  string
	Room   string
	Domain string
}

// DefaultPlacement puts generated objects in an unknown room as switches.
func DefaultPlacement() Placement {
	return Placement{Floor: "unknown floor", Room: "unknown room", Domain: "switch"}
}

// orphanIDFormat names objects created for single orphan addresses.
const orphanIDFormat = "orphan-%04d"

// OrphansPerAddress creates one custom object for every group address
// that belongs to no object. It is crude but gets every address into the
// output.
func OrphansPerAddress(at Placement, log Logger) Fixer {
	return FixerFunc(func(model *project.Model) error {
		seq := 0
		for _, gaID := range model.OrphanGroupAddresses() {
			ga, err := model.GroupAddress(gaID)
			if err != nil {
				return err
			}

			var objID string
			for {
				seq++
				objID = fmt.Sprintf(orphanIDFormat, seq)
				if !model.HasObject(objID) {
					break
				}
			}

			obj := project.Object{
				ID:    objID,
				Name:  ga.Name,
				Type:  project.FunctionCustom,
				Floor: at.Floor,
				Room:  at.Room,
				Ext:   project.ObjectExt{Domain: at.Domain},
			}
			if err := model.AddObject(obj); err != nil {
				return err
			}
			if err := model.Associate(gaID, objID); err != nil {
				return err
			}
			log.Debug("object created for orphan address", "object", objID, "address", ga.Address, "name", ga.Name)
		}
		return nil
	})
}

// PrefixRule recognises an address by the start of its name.
type PrefixRule struct {
	Prefix   string `yaml:"prefix"`
	Property string `yaml:"property"`
	Domain   string `yaml:"domain"`
}

// DefaultPrefixes returns a naming convention seen on French
// installations: "<kind> <device>", e.g. "ECL_On/Off Salon".
func DefaultPrefixes() []PrefixRule {
	return []PrefixRule{
		{Prefix: "ECL_On/Off ", Property: "address", Domain: "light"},
		{Prefix: "État_ECL_On/Off ", Property: "state_address", Domain: "light"},
		{Prefix: "ECL_VAR ", Property: "brightness_address", Domain: "light"},
		{Prefix: "Pos._VR_% ", Property: "position_address", Domain: "cover"},
		{Prefix: "M/D_VR ", Property: "move_long_address", Domain: "cover"},
	}
}

// OrphansByPrefix groups orphan addresses into objects by name. The first
// matching prefix gives the address its property and the object its
// domain; the rest of the name identifies and names the object, so
// "ECL_On/Off Salon" and "ECL_VAR Salon" end up in one light "Salon".
func OrphansByPrefix(rules []PrefixRule, at Placement, log Logger) Fixer {
	return FixerFunc(func(model *project.Model) error {
		for _, gaID := range model.OrphanGroupAddresses() {
			ga, err := model.GroupAddress(gaID)
			if err != nil {
				return err
			}

			rule, rest, ok := matchPrefix(rules, ga.Name)
			if !ok {
				log.Warn("no prefix matches orphan address", "address", ga.Address, "name", ga.Name)
				continue
			}

			ext := ga.Ext
			ext.Property = rule.Property
			if err := model.SetGroupAddressExt(gaID, ext); err != nil {
				return err
			}

			objID := rest
			if !model.HasObject(objID) {
				domain := rule.Domain
				if domain == "" {
					domain = at.Domain
				}
				obj := project.Object{
					ID:    objID,
					Name:  rest,
					Type:  project.FunctionCustom,
					Floor: at.Floor,
					Room:  at.Room,
					Ext:   project.ObjectExt{Domain: domain},
				}
				if err := model.AddObject(obj); err != nil {
					return err
				}
				log.Debug("object created from address prefix", "object", objID, "domain", domain)
			}
			if err := model.Associate(gaID, objID); err != nil {
				return err
			}
		}
		return nil
	})
}

func matchPrefix(rules []PrefixRule, name string) (PrefixRule, string, bool) {
	for _, r := range rules {
		if rest, ok := strings.CutPrefix(name, r.Prefix); ok && rest != "" {
			return r, rest, true
		}
	}
	return PrefixRule{}, "", false
}
