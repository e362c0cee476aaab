// Package homeass generates the Home Assistant KNX integration
// configuration from a project model.
//
// Each object becomes one device of a platform (light, cover, or any
// domain a correction forces), and each of its group addresses fills one
// device property chosen from the datapoint type:
//
//	1.001 address            1.008 move_long_address
//	1.010 stop_address       1.011 state_address
//	5.001 brightness_address (light) / position_address (cover)
//	3.007 ignored
//
// A property set by a correction always wins. When two addresses resolve
// to the same property, the first one is kept and the conflict is logged.
//
// See https://www.home-assistant.io/integrations/knx/
package homeass
