package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make the
// TOML and YAML files friendly.
type FileConfig struct {
	MaxTextSize   int    `toml:"max_text_size" yaml:"max_text_size"`
	Format        string `toml:"format" yaml:"format"`
	LogLevel      string `toml:"log_level" yaml:"log_level"`
	SpoolDir      string `toml:"spool_dir" yaml:"spool_dir"`
	OutDir        string `toml:"out_dir" yaml:"out_dir"`
	StateDir      string `toml:"state_dir" yaml:"state_dir"`
	MetricsAddr   string `toml:"metrics_addr" yaml:"metrics_addr"`
	DebounceDelay string `toml:"debounce" yaml:"debounce"`
	Strict        *bool  `toml:"strict" yaml:"strict"`
	Once          *bool  `toml:"once" yaml:"once"`
}

// LoadFileConfig reads a config file. Files ending in .yaml or .yml are
// parsed as YAML, everything else as TOML.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &fc)
	default:
		err = toml.Unmarshal(b, &fc)
	}
	if err != nil {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.astmframe/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".astmframe", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setInt("max-text-size", fc.MaxTextSize, &cfg.MaxTextSize)
	s.setString("format", fc.Format, &cfg.Format)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("spool-dir", fc.SpoolDir, &cfg.SpoolDir)
	s.setString("out-dir", fc.OutDir, &cfg.OutDir)
	s.setString("state-dir", fc.StateDir, &cfg.StateDir)
	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)

	if err := s.setDuration("debounce", fc.DebounceDelay, &cfg.DebounceDelay); err != nil {
		return err
	}

	s.setBool("strict", fc.Strict, &cfg.Strict)
	s.setBool("once", fc.Once, &cfg.Once)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
