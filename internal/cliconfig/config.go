package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/itech-ahb/astmframe/internal/domain"
	"github.com/itech-ahb/astmframe/pkg/log"
)

// Output formats.
const (
	FormatJSONL = "jsonl"
	FormatText  = "text"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ASTMFRAME_"

// Config holds CLI configuration for astmframe.
type Config struct {
	MaxTextSize int
	Format      string
	LogLevel    string

	SpoolDir      string
	OutDir        string
	StateDir      string
	MetricsAddr   string
	DebounceDelay time.Duration

	Strict bool
	Once   bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		MaxTextSize:   domain.DefaultMaxTextSize,
		Format:        FormatJSONL,
		LogLevel:      "info",
		DebounceDelay: 100 * time.Millisecond,
	}
}

// Validate checks the settings shared by every command.
func (c *Config) Validate() error {
	if c.MaxTextSize <= 0 {
		return fmt.Errorf("%w: max-text-size must be positive, got %d", domain.ErrInvalidConfig, c.MaxTextSize)
	}
	switch c.Format {
	case FormatJSONL, FormatText:
	default:
		return fmt.Errorf("%w: format must be %q or %q, got %q", domain.ErrInvalidConfig, FormatJSONL, FormatText, c.Format)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	return nil
}

// ValidateWatch checks the watch command settings and sets derived defaults.
func (c *Config) ValidateWatch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.SpoolDir == "" {
		return fmt.Errorf("%w: spool-dir is required", domain.ErrInvalidConfig)
	}
	if c.StateDir == "" {
		c.StateDir = c.SpoolDir
	}
	if c.DebounceDelay <= 0 {
		return fmt.Errorf("%w: debounce must be positive", domain.ErrInvalidConfig)
	}
	return nil
}

// configSetter applies configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Unlike setInt it rejects non-positive values, since an explicit env value
// of 0 is a mistake rather than "unset".
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return fmt.Errorf("parse %s: must be positive, got %d", flag, i)
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
