package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/RRArny/wxfetch/internal/position"
)

// Config represents the main application configuration: the requested
// position plus the severity thresholds used when colorizing a report.
// It is built once at startup and never mutated afterwards.
type Config struct {
	Position position.Position `toml:"-"`

	PositionFile PositionConfig    `toml:"position"`    // Position defaults from the config file
	Clouds       CloudsConfig      `toml:"clouds"`      // Cloud layer thresholds
	Temperature  TemperatureConfig `toml:"temperature"` // Temperature and dewpoint spread thresholds
	Wind         WindConfig        `toml:"wind"`        // Wind speed, gust and variability thresholds
	Age          AgeConfig         `toml:"age"`         // Report age thresholds
	Visibility   VisibilityConfig  `toml:"visibility"`  // Visibility thresholds
	TAF          TAFConfig         `toml:"taf"`         // Forecast rendering settings
	Logging      LoggingConfig     `toml:"logging"`     // Application logging settings
}

// PositionConfig contains the position settings read from the config file.
// Command line flags take precedence over these.
type PositionConfig struct {
	Airfield string   `toml:"airfield"` // ICAO code of the preferred station
	Lat      *float64 `toml:"lat"`      // Latitude in decimal degrees
	Lon      *float64 `toml:"lon"`      // Longitude in decimal degrees
}

// CloudsConfig contains cloud layer thresholds in flight levels
type CloudsConfig struct {
	Minimum  int64 `toml:"cloud_minimum"`  // Layers at or below this height are colored bad
	Marginal int64 `toml:"cloud_marginal"` // Layers at or below this height are colored marginal
}

// TemperatureConfig contains temperature thresholds in reported degrees
type TemperatureConfig struct {
	Minimum       int64 `toml:"temp_minimum"`   // Temperatures at or below this are colored bad
	SpreadMinimum int64 `toml:"spread_minimum"` // Dewpoint spreads at or below this are colored bad
}

// WindConfig contains wind thresholds in reported speed units and degrees
type WindConfig struct {
	VarMaximum  int64 `toml:"wind_var_maximum"` // Variable direction spans at or above this are colored marginal
	Maximum     int64 `toml:"wind_maximum"`     // Speeds above this are colored bad
	GustMaximum int64 `toml:"gust_maximum"`     // Gust deltas above this are colored bad
}

// AgeConfig contains report age thresholds in seconds
type AgeConfig struct {
	MaximumSecs  int64 `toml:"age_maximum"`  // Reports older than this are colored bad
	MarginalSecs int64 `toml:"age_marginal"` // Reports older than this are colored marginal
}

// Maximum returns the bad-tier age threshold as a duration
func (a AgeConfig) Maximum() time.Duration {
	return time.Duration(a.MaximumSecs) * time.Second
}

// Marginal returns the marginal-tier age threshold as a duration
func (a AgeConfig) Marginal() time.Duration {
	return time.Duration(a.MarginalSecs) * time.Second
}

// VisibilityConfig contains visibility thresholds in reported distance units
type VisibilityConfig struct {
	Minimum  int64 `toml:"visibility_minimum"`  // Visibility at or below this is colored bad
	Marginal int64 `toml:"visibility_marginal"` // Visibility below this is colored marginal
}

// TAFConfig contains forecast rendering settings
type TAFConfig struct {
	ShowChangeTimes bool `toml:"show_change_times"` // Render FM/BECMG/TEMPO/PROB indicator tokens with times
}

// LoggingConfig contains application logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`  // Log level: "debug", "info", "warn", or "error"
	Format string `toml:"format"` // Log format: "json" or "console"
}

// Default returns the configuration used when no config file is present
func Default() *Config {
	return &Config{
		Position: position.GeoIP(),
		Clouds: CloudsConfig{
			Minimum:  6,
			Marginal: 15,
		},
		Temperature: TemperatureConfig{
			Minimum:       0,
			SpreadMinimum: 3,
		},
		Wind: WindConfig{
			VarMaximum:  45,
			Maximum:     15,
			GustMaximum: 10,
		},
		Age: AgeConfig{
			MaximumSecs:  6 * 60 * 60,
			MarginalSecs: 60 * 60,
		},
		Visibility: VisibilityConfig{
			Minimum:  1500,
			Marginal: 5000,
		},
		TAF: TAFConfig{
			ShowChangeTimes: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads the configuration from the specified file path, overlaying
// the file's values on the defaults.
func Load(path string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyFilePosition()

	return config, nil
}

// applyFilePosition derives the requested position from the [position]
// section. A complete coordinate pair wins over an airfield code,
// matching the precedence of the command line flags.
func (c *Config) applyFilePosition() {
	if c.PositionFile.Airfield != "" {
		c.Position = position.Airfield(c.PositionFile.Airfield)
	}
	if c.PositionFile.Lat != nil && c.PositionFile.Lon != nil {
		c.Position = position.Coordinates(*c.PositionFile.Lat, *c.PositionFile.Lon)
	}
}

// LoadWithFallback loads the configuration by checking multiple locations
// in order of preference. When no config file exists anywhere the defaults
// are returned rather than an error: a config file is optional.
func LoadWithFallback(preferredPath string) (*Config, error) {
	searchPaths := []string{preferredPath}
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "wxfetch", "config.toml"))
	}
	searchPaths = append(searchPaths, "config.toml")

	for _, path := range searchPaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			config, err := Load(path)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
			return config, nil
		}
	}

	return Default(), nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Clouds.Minimum < 0 || c.Clouds.Marginal < c.Clouds.Minimum {
		return fmt.Errorf("invalid cloud thresholds: minimum %d, marginal %d", c.Clouds.Minimum, c.Clouds.Marginal)
	}

	if c.Wind.Maximum < 0 || c.Wind.GustMaximum < 0 || c.Wind.VarMaximum < 0 {
		return fmt.Errorf("wind thresholds must not be negative")
	}

	if c.Age.MarginalSecs < 0 || c.Age.MaximumSecs < c.Age.MarginalSecs {
		return fmt.Errorf("invalid age thresholds: marginal %ds, maximum %ds", c.Age.MarginalSecs, c.Age.MaximumSecs)
	}

	if c.Visibility.Minimum < 0 || c.Visibility.Marginal < c.Visibility.Minimum {
		return fmt.Errorf("invalid visibility thresholds: minimum %d, marginal %d", c.Visibility.Minimum, c.Visibility.Marginal)
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}
