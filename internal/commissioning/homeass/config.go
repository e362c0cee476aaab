package homeass

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/gray-logic-ets2hass/internal/project"
)

// WrapperKey nests the device categories when the output is meant to be
// pasted under the knx: integration key of configuration.yaml.
const WrapperKey = "knx"

// yamlIndent matches Home Assistant's own configuration style.
const yamlIndent = 2

// Device is one Home Assistant KNX entity definition.
type Device struct {
	Name string

	// Fields follow name in the output, in order: correction-supplied
	// values first, then addresses.
	Fields []project.Field
}

// Field returns the value of key and whether it is set.
func (d *Device) Field(key string) (any, bool) {
	for _, f := range d.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Category is the list of devices of one Home Assistant platform.
type Category struct {
	Domain  string
	Devices []Device
}

// Config is the generated Home Assistant KNX configuration.
type Config struct {
	// Wrap nests everything under WrapperKey.
	Wrap bool

	// Categories are kept in lexical order of Domain.
	Categories []Category
}

// Category returns the devices of a domain, or nil.
func (c *Config) Category(domain string) []Device {
	for _, cat := range c.Categories {
		if cat.Domain == domain {
			return cat.Devices
		}
	}
	return nil
}

// NumDevices returns the number of devices over all categories.
func (c *Config) NumDevices() int {
	n := 0
	for _, cat := range c.Categories {
		n += len(cat.Devices)
	}
	return n
}

// Render serialises the configuration as YAML with keys in a stable order.
func (c *Config) Render() ([]byte, error) {
	root, err := c.node()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encoding home assistant yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding home assistant yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// node builds the YAML document tree.
func (c *Config) node() (*yaml.Node, error) {
	categories := mappingNode()
	for _, cat := range c.Categories {
		devices := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, dev := range cat.Devices {
			n, err := dev.node()
			if err != nil {
				return nil, err
			}
			devices.Content = append(devices.Content, n)
		}
		categories.Content = append(categories.Content, stringNode(cat.Domain), devices)
	}

	if !c.Wrap {
		return categories, nil
	}
	root := mappingNode()
	root.Content = append(root.Content, stringNode(WrapperKey), categories)
	return root, nil
}

// MarshalYAML renders the device as it appears in the generated file.
func (d *Device) MarshalYAML() (any, error) {
	return d.node()
}

func (d *Device) node() (*yaml.Node, error) {
	n := mappingNode()
	n.Content = append(n.Content, stringNode("name"), stringNode(d.Name))
	for _, f := range d.Fields {
		v, err := valueNode(f.Value)
		if err != nil {
			return nil, fmt.Errorf("device %q field %q: %w", d.Name, f.Key, err)
		}
		n.Content = append(n.Content, stringNode(f.Key), v)
	}
	return n, nil
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

// stringNode forces a string scalar; the encoder quotes values that would
// otherwise read back as numbers or booleans.
func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func valueNode(v any) (*yaml.Node, error) {
	if s, ok := v.(string); ok {
		return stringNode(s), nil
	}
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}
