package correction

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/gray-logic-ets2hass/internal/project"
)

// EntryPoint is the top-level key of a correction file.
const EntryPoint = "fix_objects"

// Orphan handling modes of a correction file.
const (
	modePerAddress = "per_address"
	modeByPrefix   = "by_prefix"
)

// step is one entry of fix_objects. Exactly one field must be set.
type step struct {
	Orphans   *orphansStep      `yaml:"orphans"`
	Split     *splitStep        `yaml:"split"`
	Objects   *objectsStep      `yaml:"objects"`
	Addresses *addressesStep    `yaml:"addresses"`
	Names     map[string]string `yaml:"names"`
}

type orphansStep struct {
	Mode     string       `yaml:"mode"`
	Floor    string       `yaml:"floor"`
	Room     string       `yaml:"room"`
	Domain   string       `yaml:"domain"`
	Prefixes []PrefixRule `yaml:"prefixes"`
}

type splitStep struct {
	Type               string   `yaml:"type"`
	FirstAddressSuffix string   `yaml:"first_address_suffix"`
	Directions         []string `yaml:"directions"`
	Datapoint          string   `yaml:"datapoint"`
	Domain             string   `yaml:"domain"`
}

type objectsStep struct {
	Type         string    `yaml:"type"`
	NameContains string    `yaml:"name_contains"`
	Domain       string    `yaml:"domain"`
	Fields       yaml.Node `yaml:"fields"`
}

type addressesStep struct {
	AddressContains string  `yaml:"address_contains"`
	NamePrefix      string  `yaml:"name_prefix"`
	NameSuffix      string  `yaml:"name_suffix"`
	Datapoint       string  `yaml:"datapoint"`
	Property        string  `yaml:"property"`
	SetDatapoint    *string `yaml:"set_datapoint"`
	DisplayName     string  `yaml:"display_name"`
}

// LoadFile reads a YAML correction file.
//
// The file must have a fix_objects key holding a list of steps, applied
// in order:
//
//	fix_objects:
//	  - split:
//	      type: sun_protection
//	      first_address_suffix: ":Pulse"
//	      directions: [Montee, Descente]
//	      datapoint: "1.001"
//	      domain: switch
//	  - objects:
//	      type: sun_protection
//	      fields:
//	        travelling_time_down: 59
//	  - addresses:
//	      address_contains: /1/
//	      property: state_address
//	  - orphans:
//	      mode: per_address
//	  - names:
//	      P-0001-0_F-1: Kitchen ceiling
//
// Returns:
//   - Fixer: The steps chained
//   - error: ErrNoEntryPoint without fix_objects, ErrInvalidRules for
//     malformed YAML or steps
func LoadFile(path string, log Logger) (Fixer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading correction file: %w", err)
	}
	fixer, n, err := Parse(data, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Info("correction file loaded", "path", path, "steps", n)
	return fixer, nil
}

// Parse builds a fixer from the content of a correction file and returns
// it with its number of steps.
func Parse(data []byte, log Logger) (Fixer, int, error) {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}
	entry, ok := doc[EntryPoint]
	if !ok {
		return nil, 0, ErrNoEntryPoint
	}

	var steps []step
	if err := entry.Decode(&steps); err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %w", ErrInvalidRules, EntryPoint, err)
	}

	fixers := make([]Fixer, 0, len(steps))
	for i, s := range steps {
		f, err := s.fixer(log)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: step %d: %w", ErrInvalidRules, i+1, err)
		}
		fixers = append(fixers, f)
	}
	return Chain(fixers...), len(fixers), nil
}

func (s step) fixer(log Logger) (Fixer, error) {
	kinds := 0
	for _, set := range []bool{s.Orphans != nil, s.Split != nil, s.Objects != nil, s.Addresses != nil, s.Names != nil} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, fmt.Errorf("expected exactly one of orphans, split, objects, addresses, names; got %d", kinds)
	}

	switch {
	case s.Orphans != nil:
		return s.Orphans.fixer(log)
	case s.Split != nil:
		return s.Split.fixer(log)
	case s.Objects != nil:
		return s.Objects.fixer(log)
	case s.Addresses != nil:
		return s.Addresses.fixer(log)
	default:
		return ObjectNames(s.Names, log), nil
	}
}

func (o *orphansStep) fixer(log Logger) (Fixer, error) {
	at := DefaultPlacement()
	if o.Floor != "" {
		at.Floor = o.Floor
	}
	if o.Room != "" {
		at.Room = o.Room
	}
	if o.Domain != "" {
		at.Domain = o.Domain
	}

	switch o.Mode {
	case modePerAddress, "":
		return OrphansPerAddress(at, log), nil
	case modeByPrefix:
		prefixes := o.Prefixes
		if len(prefixes) == 0 {
			prefixes = DefaultPrefixes()
		}
		for _, p := range prefixes {
			if p.Prefix == "" || p.Property == "" {
				return nil, fmt.Errorf("orphans: prefix rules need prefix and property")
			}
		}
		return OrphansByPrefix(prefixes, at, log), nil
	default:
		return nil, fmt.Errorf("orphans: unknown mode %q (expected %s or %s)", o.Mode, modePerAddress, modeByPrefix)
	}
}

func (s *splitStep) fixer(log Logger) (Fixer, error) {
	t, err := parseType(s.Type)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	if t == "" {
		return nil, fmt.Errorf("split: type is required")
	}
	if len(s.Directions) == 0 {
		return nil, fmt.Errorf("split: directions are required")
	}
	domain := s.Domain
	if domain == "" {
		domain = "switch"
	}
	return SplitObjects(SplitRule{
		Type:               t,
		FirstAddressSuffix: s.FirstAddressSuffix,
		Directions:         s.Directions,
		Datapoint:          s.Datapoint,
		Domain:             domain,
	}, log), nil
}

func (o *objectsStep) fixer(log Logger) (Fixer, error) {
	t, err := parseType(o.Type)
	if err != nil {
		return nil, fmt.Errorf("objects: %w", err)
	}
	fields, err := decodeFields(&o.Fields)
	if err != nil {
		return nil, fmt.Errorf("objects: %w", err)
	}
	if o.Domain == "" && len(fields) == 0 {
		return nil, fmt.Errorf("objects: nothing to set (domain or fields)")
	}
	return ObjectDefaults(ObjectRule{
		Type:         t,
		NameContains: o.NameContains,
		Domain:       o.Domain,
		Fields:       fields,
	}, log), nil
}

func (a *addressesStep) fixer(log Logger) (Fixer, error) {
	rule := AddressRule{
		AddressContains: a.AddressContains,
		NamePrefix:      a.NamePrefix,
		NameSuffix:      a.NameSuffix,
		Datapoint:       a.Datapoint,
		Property:        a.Property,
		SetDatapoint:    a.SetDatapoint,
		DisplayName:     a.DisplayName,
	}
	if !rule.hasCriteria() {
		return nil, fmt.Errorf("addresses: a match criterion is required")
	}
	if rule.Property == "" && rule.SetDatapoint == nil && rule.DisplayName == "" {
		return nil, fmt.Errorf("addresses: nothing to set (property, set_datapoint or display_name)")
	}
	return AddressOverrides(rule, log), nil
}

// parseType validates a function type name; empty is allowed.
func parseType(s string) (project.FunctionType, error) {
	if s == "" {
		return "", nil
	}
	t := project.FunctionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown function type %q", s)
	}
	return t, nil
}

// decodeFields keeps the order of a YAML mapping.
func decodeFields(n *yaml.Node) ([]project.Field, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("fields must be a mapping")
	}

	fields := make([]project.Field, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		var value any
		if err := n.Content[i+1].Decode(&value); err != nil {
			return nil, fmt.Errorf("field %q: %w", n.Content[i].Value, err)
		}
		fields = append(fields, project.Field{Key: n.Content[i].Value, Value: value})
	}
	return fields, nil
}
