// Package project is the in-memory model of an ETS project: the group
// address table, the functional objects found in the building tree, and
// the many-to-many associations between them.
//
// The model is built once by the importer, optionally rewritten by a
// correction, then read by the generators. It has no I/O and no
// dependency on any output format.
//
// Usage:
//
//	m := project.NewModel(project.Info{Name: "Home", AddressStyle: knx.StyleThreeLevel})
//	_ = m.AddGroupAddress(project.GroupAddress{ID: "GA-1", Address: "1/1/1", Datapoint: "1.001"})
//	_ = m.AddObject(project.Object{ID: "F-1", Name: "Ceiling", Type: project.FunctionSwitchableLight})
//	_ = m.Associate("GA-1", "F-1")
package project
