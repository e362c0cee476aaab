package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatHomeAssistant = "homeass"
	FormatLinknx        = "linknx"
)

// Config is the root configuration structure for ets2hass.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Conversion ConversionConfig `yaml:"conversion"`
	Logging    LoggingConfig    `yaml:"logging"`
	Database   DatabaseConfig   `yaml:"database"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	InfluxDB   InfluxDBConfig   `yaml:"influxdb"`
}

// ConversionConfig controls what is generated from a project.
type ConversionConfig struct {
	// Format is "homeass" or "linknx".
	Format string `yaml:"format"`

	// AddressStyle overrides the project's group address style
	// ("Free", "TwoLevel", "ThreeLevel"). Empty keeps the project's.
	AddressStyle string `yaml:"address_style"`

	// FullName prefixes device names with floor and room.
	FullName bool `yaml:"full_name"`

	// Wrap nests the Home Assistant output under a top-level "knx" key.
	Wrap bool `yaml:"wrap"`

	// SortByName orders devices by name instead of project order.
	SortByName bool `yaml:"sort_by_name"`

	// Fixes is a built-in correction name or a correction file path.
	Fixes string `yaml:"fixes"`

	// Output is the destination file; empty means standard output.
	Output string `yaml:"output"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// DatabaseConfig contains SQLite snapshot store settings.
type DatabaseConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled bool             `yaml:"enabled"`
	Broker  MQTTBrokerConfig `yaml:"broker"`
	Auth    MQTTAuthConfig   `yaml:"auth"`
	QoS     int              `yaml:"qos"`

	// TopicPrefix heads artifact topics: <prefix>/<project>/<format>.
	TopicPrefix string `yaml:"topic_prefix"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	Org     string `yaml:"org"`
	Bucket  string `yaml:"bucket"`

	// Timeout bounds the ping and the write, in seconds.
	Timeout int `yaml:"timeout"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults), skipped when path is empty
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: ETS2HASS_SECTION_KEY
// For example: ETS2HASS_DATABASE_PATH, ETS2HASS_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file, or "" for defaults only
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults. Every sink is disabled.
func Default() *Config {
	return &Config{
		Conversion: ConversionConfig{
			Format: FormatHomeAssistant,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
		Database: DatabaseConfig{
			Path:        "./data/ets2hass.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "ets2hass",
			},
			QoS:         1,
			TopicPrefix: "ets2hass",
		},
		InfluxDB: InfluxDBConfig{
			URL:     "http://localhost:8086",
			Bucket:  "ets2hass",
			Timeout: 10,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: ETS2HASS_SECTION_KEY
func applyEnvOverrides(cfg *Config) error {
	// Conversion
	if v := os.Getenv("ETS2HASS_FORMAT"); v != "" {
		cfg.Conversion.Format = v
	}
	if v := os.Getenv("ETS2HASS_FIXES"); v != "" {
		cfg.Conversion.Fixes = v
	}

	// Logging
	if v := os.Getenv("ETS2HASS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Database
	if v := os.Getenv("ETS2HASS_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if err := envBool("ETS2HASS_DATABASE_ENABLED", &cfg.Database.Enabled); err != nil {
		return err
	}

	// MQTT
	if v := os.Getenv("ETS2HASS_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("ETS2HASS_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("ETS2HASS_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
	if err := envBool("ETS2HASS_MQTT_ENABLED", &cfg.MQTT.Enabled); err != nil {
		return err
	}

	// InfluxDB
	if v := os.Getenv("ETS2HASS_INFLUXDB_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("ETS2HASS_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	return envBool("ETS2HASS_INFLUXDB_ENABLED", &cfg.InfluxDB.Enabled)
}

func envBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Conversion validation
	switch c.Conversion.Format {
	case FormatHomeAssistant, FormatLinknx:
	default:
		errs = append(errs, fmt.Sprintf("conversion.format must be %s or %s", FormatHomeAssistant, FormatLinknx))
	}

	// Logging validation
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, "logging.level must be debug, info, warn, or error")
	}

	// Database validation
	if c.Database.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required when the database is enabled")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled {
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
		}
		if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
			errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
		}
		if c.MQTT.TopicPrefix == "" {
			errs = append(errs, "mqtt.topic_prefix is required when mqtt is enabled")
		}
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required when influxdb is enabled")
		}
	}

	if len(errs) > 0 {
		return errors.New("configuration errors: " + strings.Join(errs, "; "))
	}

	return nil
}

// GetBusyTimeout returns the SQLite busy timeout as a Duration.
func (c *Config) GetBusyTimeout() time.Duration {
	return time.Duration(c.Database.BusyTimeout) * time.Second
}
