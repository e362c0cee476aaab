package linknx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/nerrad567/gray-logic-ets2hass/internal/knx"
	"github.com/nerrad567/gray-logic-ets2hass/internal/project"
)

// Layout of the generated fragment, ready to paste inside <objects>.
const (
	linePrefix  = "        "
	initRequest = "request"

	// percentType is the single linknx type for every 5.xxx datapoint.
	percentType = "5.xxx"
)

// Logger is the logging surface the generator needs.
type Logger interface {
	Warn(msg string, args ...any)
}

// Object is one linknx object definition.
//
// See https://sourceforge.net/p/linknx/wiki/Object_Definition_section/
type Object struct {
	XMLName xml.Name `xml:"object"`
	Type    string   `xml:"type,attr"`
	ID      string   `xml:"id,attr"`
	GAD     string   `xml:"gad,attr"`
	Init    string   `xml:"init,attr"`
	Name    string   `xml:",chardata"`
}

// Objects lists one linknx object per group address, ordered by raw
// address then identifier. Addresses without a datapoint are skipped.
func Objects(model *project.Model, log Logger) []Object {
	var groups []project.GroupAddress
	for _, id := range model.GroupAddressIDs() {
		ga, err := model.GroupAddress(id)
		if err != nil {
			continue
		}
		if ga.Datapoint == "" {
			log.Warn("group address has no datapoint, skipping", "address", ga.Address, "name", ga.Name)
			continue
		}
		groups = append(groups, ga)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Raw != groups[j].Raw {
			return groups[i].Raw < groups[j].Raw
		}
		return groups[i].ID < groups[j].ID
	})

	objects := make([]Object, 0, len(groups))
	for _, ga := range groups {
		name := ga.Ext.DisplayName
		if name == "" {
			name = ga.Name
		}
		objects = append(objects, Object{
			Type: objectType(ga.Datapoint),
			ID:   "id_" + strings.ReplaceAll(ga.Address, "/", "_"),
			GAD:  ga.Address,
			Init: initRequest,
			Name: name,
		})
	}
	return objects
}

// Generate renders the linknx object list, one indented <object> per line.
func Generate(model *project.Model, log Logger) ([]byte, error) {
	objects := Objects(model, log)
	if len(objects) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent(linePrefix, "")
	for _, obj := range objects {
		if err := enc.Encode(obj); err != nil {
			return nil, fmt.Errorf("encoding linknx object %s: %w", obj.ID, err)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding linknx objects: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func objectType(dpt string) string {
	if knx.MainType(dpt) == "5" {
		return percentType
	}
	return dpt
}
