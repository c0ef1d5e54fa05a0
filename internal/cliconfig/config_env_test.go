package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv("ASTMFRAME_MAX_TEXT_SIZE", "100")
	t.Setenv("ASTMFRAME_FORMAT", "text")
	t.Setenv("ASTMFRAME_SPOOL_DIR", "/env/spool")
	t.Setenv("ASTMFRAME_DEBOUNCE", "2s")
	t.Setenv("ASTMFRAME_STRICT", "1")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, map[string]bool{"format": true}); err != nil {
		t.Fatalf("ApplyEnvConfig() error = %v", err)
	}

	if cfg.MaxTextSize != 100 {
		t.Errorf("MaxTextSize = %d, want 100", cfg.MaxTextSize)
	}
	if cfg.Format != FormatJSONL {
		t.Errorf("Format = %q, flag should win over env", cfg.Format)
	}
	if cfg.SpoolDir != "/env/spool" {
		t.Errorf("SpoolDir = %q", cfg.SpoolDir)
	}
	if cfg.DebounceDelay != 2*time.Second {
		t.Errorf("DebounceDelay = %v", cfg.DebounceDelay)
	}
	if !cfg.Strict {
		t.Error("Strict should be true")
	}
}

func TestApplyEnvConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"ASTMFRAME_MAX_TEXT_SIZE", "big"},
		{"ASTMFRAME_MAX_TEXT_SIZE", "0"},
		{"ASTMFRAME_DEBOUNCE", "later"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			cfg := DefaultConfig()
			if err := ApplyEnvConfig(&cfg, map[string]bool{}); err == nil {
				t.Errorf("ApplyEnvConfig() expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
