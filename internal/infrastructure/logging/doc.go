// Package logging provides structured logging for ets2hass.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the application.
//
// # Features
//
//   - Text output for terminals (human-readable), JSON on request
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Warning and error counters that ignore the level filter
//   - Thread-safe for concurrent use
//
// # Configuration
//
//	logging:
//	  level: "warn"      # debug, info, warn, error
//	  format: "text"     # text, json
//	  output: "stderr"   # stderr, stdout
//
// Logs go to stderr by default: stdout carries the generated configuration.
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Warn("group address has no datapoint type", "address", "1/1/1")
//	fmt.Println(logger.Warnings()) // 1
package logging
