// Package knx holds the KNX addressing primitives shared by the importer
// and the generators: group address rendering in the three ETS styles and
// datapoint subtype normalisation.
//
// Everything here is pure and allocation-light; no bus access happens.
package knx
