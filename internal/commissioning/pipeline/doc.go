// Package pipeline runs a complete ETS conversion.
//
// A run reads the project archive, builds the project model, applies the
// selected correction once, and renders either the Home Assistant KNX
// configuration or the linknx object list:
//
//	archive ──▶ etsimport ──▶ correction ──▶ homeass | linknx ──▶ Output
//
// The pipeline is synchronous and owns the model for the duration of Run.
// Publishing or storing the result is left to the caller.
package pipeline
