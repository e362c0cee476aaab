// Package etsimport reads KNX ETS project files (.knxproj) into a
// project.Model.
//
// ETS (Engineering Tool Software) is the standard configuration tool for KNX
// installations. A .knxproj export is a ZIP archive; the importer uses two
// of its entries:
//
//   - P-xxxx/project.xml: project name and group address style
//   - P-xxxx/0.xml: group address table and building tree
//
// # Usage
//
//	archive, err := etsimport.ReadFile("home.knxproj")
//	if err != nil {
//	    return err
//	}
//	model, stats, err := etsimport.Import(archive, etsimport.Options{}, log)
//
// # Building Tree
//
// ETS 4 writes the building under Locations with nested Space nodes, ETS 5
// and later under Buildings with nested BuildingPart nodes. Both are walked
// when present. Functions found in the tree become objects; their
// GroupAddressRef children become associations.
//
// Records that cannot be used are skipped with a warning rather than
// failing the import; only structural problems (missing XML levels,
// unknown address style or function type) are errors.
package etsimport
