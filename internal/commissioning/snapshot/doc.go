// Package snapshot records conversion runs in SQLite.
//
// Each run stores what was imported (group addresses, objects and their
// links), what was generated (Home Assistant devices) and a digest of the
// written artifact, so successive imports of a project can be compared.
package snapshot
