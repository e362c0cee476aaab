// Package config handles loading and validating ets2hass configuration.
//
// This package manages:
//   - Loading configuration from an optional YAML file
//   - Overriding with ETS2HASS_* environment variables
//   - Validation of required fields
//   - Default value handling
//
// Command-line flags are applied by the caller after Load, so the final
// precedence is defaults, file, environment, flags.
//
// Security Considerations:
//   - Sensitive values (MQTT password, InfluxDB token) should be set via
//     environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load("ets2hass.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Conversion.Format)
package config
