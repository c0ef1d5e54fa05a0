// Package log provides the logging abstraction used by astmframe components.
//
// The interpreter and spool watcher log through the [Logger] interface so
// that library users can plug in their own logging. A zerolog adapter and a
// no-op logger are provided.
//
// # Usage
//
//	logger := log.NewZerologAdapter(log.DebugLevel)
//	in := interpret.New(interpret.WithLogger(logger))
//
// Or wrap an existing zerolog.Logger:
//
//	logger := log.NewZerologAdapterWithLogger(zl)
//
// # Levels
//
// Interpretation passes log their start and end at debug level and every
// frame and record at trace level, so trace output is only useful when
// diagnosing a single instrument conversation.
package log
