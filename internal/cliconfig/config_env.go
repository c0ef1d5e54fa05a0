package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (ASTMFRAME_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("format", os.Getenv(EnvPrefix+"FORMAT"), &cfg.Format)
	s.setString("log-level", os.Getenv(EnvPrefix+"LOG_LEVEL"), &cfg.LogLevel)
	s.setString("spool-dir", os.Getenv(EnvPrefix+"SPOOL_DIR"), &cfg.SpoolDir)
	s.setString("out-dir", os.Getenv(EnvPrefix+"OUT_DIR"), &cfg.OutDir)
	s.setString("state-dir", os.Getenv(EnvPrefix+"STATE_DIR"), &cfg.StateDir)
	s.setString("metrics-addr", os.Getenv(EnvPrefix+"METRICS_ADDR"), &cfg.MetricsAddr)

	if err := s.setIntFromString("max-text-size", os.Getenv(EnvPrefix+"MAX_TEXT_SIZE"), &cfg.MaxTextSize); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv(EnvPrefix+"DEBOUNCE"), &cfg.DebounceDelay); err != nil {
		return err
	}

	s.setBoolFromString("strict", os.Getenv(EnvPrefix+"STRICT"), &cfg.Strict)
	s.setBoolFromString("once", os.Getenv(EnvPrefix+"ONCE"), &cfg.Once)

	return nil
}
