package cliconfig

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/itech-ahb/astmframe/pkg/log"
)

// Logger returns the CLI's console logger at the given level name.
// Unknown names fall back to info; Validate reports them.
func Logger(level string) zerolog.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewZerologAdapterTo(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}, lvl).Logger()
}
