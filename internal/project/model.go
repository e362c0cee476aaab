package project

import (
	"fmt"
	"slices"
	"sort"
)

// Model holds the group addresses, functional objects and their
// associations of one ETS project.
//
// The model is the only place these collections are mutated: the importer
// fills it, corrections rewrite it, generators read it. Accessors return
// copies so callers cannot bypass the association bookkeeping.
//
// Thread Safety:
//   - Not safe for concurrent use. The conversion pipeline owns the model
//     for its whole lifetime.
type Model struct {
	Info Info

	groups  map[string]*GroupAddress
	objects map[string]*Object

	// Association table, indexed both ways. Slices keep insertion order.
	gaToObjs map[string][]string
	objToGAs map[string][]string
}

// NewModel creates an empty model for a project.
func NewModel(info Info) *Model {
	return &Model{
		Info:     info,
		groups:   make(map[string]*GroupAddress),
		objects:  make(map[string]*Object),
		gaToObjs: make(map[string][]string),
		objToGAs: make(map[string][]string),
	}
}

// =============================================================================
// Group addresses
// =============================================================================

// AddGroupAddress registers a group address.
//
// Returns:
//   - error: ErrInvalidID for an empty ID, ErrDuplicateGroupAddress if already registered
func (m *Model) AddGroupAddress(ga GroupAddress) error {
	if ga.ID == "" {
		return ErrInvalidID
	}
	if _, exists := m.groups[ga.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateGroupAddress, ga.ID)
	}
	stored := ga
	m.groups[ga.ID] = &stored
	return nil
}

// GroupAddressIDs returns all group address IDs in lexical order.
func (m *Model) GroupAddressIDs() []string {
	return sortedKeys(m.groups)
}

// GroupAddress returns a copy of the group address with the given ID.
func (m *Model) GroupAddress(id string) (GroupAddress, error) {
	ga, ok := m.groups[id]
	if !ok {
		return GroupAddress{}, fmt.Errorf("%w: %s", ErrGroupAddressNotFound, id)
	}
	return *ga, nil
}

// HasGroupAddress reports whether id is registered.
func (m *Model) HasGroupAddress(id string) bool {
	_, ok := m.groups[id]
	return ok
}

// SetDatapoint rewrites the normalised datapoint of a group address.
// An empty datapoint excludes the address from generation.
func (m *Model) SetDatapoint(id, datapoint string) error {
	ga, ok := m.groups[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGroupAddressNotFound, id)
	}
	ga.Datapoint = datapoint
	return nil
}

// SetGroupAddressExt replaces the correction bag of a group address.
func (m *Model) SetGroupAddressExt(id string, ext GroupAddressExt) error {
	ga, ok := m.groups[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGroupAddressNotFound, id)
	}
	ga.Ext = ext
	return nil
}

// NumGroupAddresses returns the number of registered group addresses.
func (m *Model) NumGroupAddresses() int {
	return len(m.groups)
}

// =============================================================================
// Objects
// =============================================================================

// AddObject registers a functional object.
//
// Returns:
//   - error: ErrInvalidID for an empty ID, ErrDuplicateObject if already registered
func (m *Model) AddObject(obj Object) error {
	if obj.ID == "" {
		return ErrInvalidID
	}
	if _, exists := m.objects[obj.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateObject, obj.ID)
	}
	stored := obj
	stored.Ext = obj.Ext.clone()
	m.objects[obj.ID] = &stored
	return nil
}

// ObjectIDs returns all object IDs in lexical order.
func (m *Model) ObjectIDs() []string {
	return sortedKeys(m.objects)
}

// Object returns a copy of the object with the given ID.
func (m *Model) Object(id string) (Object, error) {
	obj, ok := m.objects[id]
	if !ok {
		return Object{}, fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	out := *obj
	out.Ext = obj.Ext.clone()
	return out, nil
}

// HasObject reports whether id is registered.
func (m *Model) HasObject(id string) bool {
	_, ok := m.objects[id]
	return ok
}

// SetObjectType reclassifies an object.
func (m *Model) SetObjectType(id string, t FunctionType) error {
	obj, ok := m.objects[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	obj.Type = t
	return nil
}

// SetObjectLocation moves an object to another floor and room.
func (m *Model) SetObjectLocation(id, floor, room string) error {
	obj, ok := m.objects[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	obj.Floor = floor
	obj.Room = room
	return nil
}

// SetObjectExt replaces the correction bag of an object.
func (m *Model) SetObjectExt(id string, ext ObjectExt) error {
	obj, ok := m.objects[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	obj.Ext = ext.clone()
	return nil
}

// DeleteObject removes an object and every association it takes part in.
func (m *Model) DeleteObject(id string) error {
	if _, ok := m.objects[id]; !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	for _, gaID := range m.objToGAs[id] {
		m.gaToObjs[gaID] = remove(m.gaToObjs[gaID], id)
		if len(m.gaToObjs[gaID]) == 0 {
			delete(m.gaToObjs, gaID)
		}
	}
	delete(m.objToGAs, id)
	delete(m.objects, id)
	return nil
}

// NumObjects returns the number of registered objects.
func (m *Model) NumObjects() int {
	return len(m.objects)
}

// =============================================================================
// Associations
// =============================================================================

// Associate links a group address to an object. Linking an existing pair
// again is a no-op.
//
// Returns:
//   - error: ErrGroupAddressNotFound or ErrObjectNotFound for unknown IDs
func (m *Model) Associate(gaID, objID string) error {
	if _, ok := m.groups[gaID]; !ok {
		return fmt.Errorf("%w: %s", ErrGroupAddressNotFound, gaID)
	}
	if _, ok := m.objects[objID]; !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, objID)
	}
	if slices.Contains(m.objToGAs[objID], gaID) {
		return nil
	}
	m.objToGAs[objID] = append(m.objToGAs[objID], gaID)
	m.gaToObjs[gaID] = append(m.gaToObjs[gaID], objID)
	return nil
}

// Dissociate removes the link between a group address and an object.
// Removing a pair that is not linked is a no-op.
func (m *Model) Dissociate(gaID, objID string) error {
	if _, ok := m.groups[gaID]; !ok {
		return fmt.Errorf("%w: %s", ErrGroupAddressNotFound, gaID)
	}
	if _, ok := m.objects[objID]; !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, objID)
	}
	m.objToGAs[objID] = remove(m.objToGAs[objID], gaID)
	if len(m.objToGAs[objID]) == 0 {
		delete(m.objToGAs, objID)
	}
	m.gaToObjs[gaID] = remove(m.gaToObjs[gaID], objID)
	if len(m.gaToObjs[gaID]) == 0 {
		delete(m.gaToObjs, gaID)
	}
	return nil
}

// GroupAddressObjects returns the objects linked to a group address, in
// the order they were linked.
func (m *Model) GroupAddressObjects(gaID string) []string {
	return slices.Clone(m.gaToObjs[gaID])
}

// ObjectGroupAddresses returns the group addresses linked to an object, in
// the order they were linked.
func (m *Model) ObjectGroupAddresses(objID string) []string {
	return slices.Clone(m.objToGAs[objID])
}

// Associations returns every link, ordered by object ID then link order.
func (m *Model) Associations() []Association {
	var out []Association
	for _, objID := range m.ObjectIDs() {
		for _, gaID := range m.objToGAs[objID] {
			out = append(out, Association{GroupAddressID: gaID, ObjectID: objID})
		}
	}
	return out
}

// OrphanGroupAddresses returns, in lexical order, the IDs of group
// addresses that belong to no object.
func (m *Model) OrphanGroupAddresses() []string {
	var out []string
	for _, id := range m.GroupAddressIDs() {
		if len(m.gaToObjs[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func remove(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(s string) bool { return s == id })
}
