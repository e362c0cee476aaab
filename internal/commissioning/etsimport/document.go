package etsimport

import (
	"encoding/xml"
	"fmt"
)

// InfoDocument is P-xxxx/project.xml: project-wide metadata.
type InfoDocument struct {
	XMLName xml.Name     `xml:"KNX"`
	Project *infoProject `xml:"Project"`
}

type infoProject struct {
	Information *ProjectInformation `xml:"ProjectInformation"`
}

// ProjectInformation holds the attributes the importer needs from project.xml.
type ProjectInformation struct {
	Name              string `xml:"Name,attr"`
	GroupAddressStyle string `xml:"GroupAddressStyle,attr"`
}

// ProjectInformation digs Project>ProjectInformation.
func (d *InfoDocument) ProjectInformation() (*ProjectInformation, error) {
	if d == nil || d.Project == nil {
		return nil, fmt.Errorf("%w: Project in project.xml", ErrMissingNode)
	}
	if d.Project.Information == nil {
		return nil, fmt.Errorf("%w: ProjectInformation in project.xml", ErrMissingNode)
	}
	return d.Project.Information, nil
}

// DataDocument is P-xxxx/0.xml: the installation itself.
type DataDocument struct {
	XMLName xml.Name     `xml:"KNX"`
	Project *dataProject `xml:"Project"`
}

type dataProject struct {
	Installations *installations `xml:"Installations"`
}

type installations struct {
	Installation []Installation `xml:"Installation"`
}

// Installation is the first Installation node of 0.xml. ETS writes the
// building tree under Locations (ETS 4) or Buildings (ETS 5+).
type Installation struct {
	GroupAddresses *groupAddresses `xml:"GroupAddresses"`
	Locations      *Space          `xml:"Locations"`
	Buildings      *Space          `xml:"Buildings"`
}

type groupAddresses struct {
	GroupRanges *GroupRange `xml:"GroupRanges"`
}

// GroupRange is a node of the group address tree. Ranges nest freely.
type GroupRange struct {
	Name      string              `xml:"Name,attr"`
	Ranges    []GroupRange        `xml:"GroupRange"`
	Addresses []GroupAddressEntry `xml:"GroupAddress"`
}

// GroupAddressEntry is a GroupAddress leaf as ETS writes it.
type GroupAddressEntry struct {
	ID            string `xml:"Id,attr"`
	Name          string `xml:"Name,attr"`
	Description   string `xml:"Description,attr"`
	Address       string `xml:"Address,attr"`
	DatapointType string `xml:"DatapointType,attr"`
}

// SpaceKind names the child element that nests spaces in the building tree.
type SpaceKind string

// Building tree flavours.
const (
	KindSpace        SpaceKind = "Space"
	KindBuildingPart SpaceKind = "BuildingPart"
)

// Space is one node of the building tree: building, floor, room,
// corridor... Functions hang off the room that contains them.
type Space struct {
	ID            string     `xml:"Id,attr"`
	Name          string     `xml:"Name,attr"`
	Type          string     `xml:"Type,attr"`
	Spaces        []Space    `xml:"Space"`
	BuildingParts []Space    `xml:"BuildingPart"`
	Functions     []Function `xml:"Function"`
}

// Children returns the nested nodes of the given kind.
func (s *Space) Children(kind SpaceKind) []Space {
	switch kind {
	case KindBuildingPart:
		return s.BuildingParts
	default:
		return s.Spaces
	}
}

// Function is an ETS function (a light, a blind...) and its addresses.
type Function struct {
	ID   string            `xml:"Id,attr"`
	Name string            `xml:"Name,attr"`
	Type string            `xml:"Type,attr"`
	Refs []GroupAddressRef `xml:"GroupAddressRef"`
}

// GroupAddressRef points from a function to a GroupAddressEntry ID.
type GroupAddressRef struct {
	ID    string `xml:"Id,attr"`
	RefID string `xml:"RefId,attr"`
}

// Installation digs Project>Installations>Installation and returns the
// first installation.
func (d *DataDocument) Installation() (*Installation, error) {
	if d == nil || d.Project == nil {
		return nil, fmt.Errorf("%w: Project in 0.xml", ErrMissingNode)
	}
	if d.Project.Installations == nil {
		return nil, fmt.Errorf("%w: Installations in 0.xml", ErrMissingNode)
	}
	if len(d.Project.Installations.Installation) == 0 {
		return nil, fmt.Errorf("%w: Installation in 0.xml", ErrMissingNode)
	}
	return &d.Project.Installations.Installation[0], nil
}

// GroupRanges digs GroupAddresses>GroupRanges.
func (i *Installation) GroupRanges() (*GroupRange, error) {
	if i.GroupAddresses == nil {
		return nil, fmt.Errorf("%w: GroupAddresses in Installation", ErrMissingNode)
	}
	if i.GroupAddresses.GroupRanges == nil {
		return nil, fmt.Errorf("%w: GroupRanges in GroupAddresses", ErrMissingNode)
	}
	return i.GroupAddresses.GroupRanges, nil
}
