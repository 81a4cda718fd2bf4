// Package log provides the logging abstraction used by annoboot.
//
// The sequencer and adapters log through the Logger interface with typed
// fields. A zerolog adapter writes human-readable console output; a no-op
// logger is the library default and the test default.
//
// # Usage
//
//	logger := log.NewZerologAdapter(os.Stderr, zerolog.InfoLevel)
//	logger.Info("stage change", log.Stringer("to", stage))
//
// Every startup run adds a run_id field so that the lines of one launch can
// be told apart:
//
//	runLogger := log.With(logger, log.String("run_id", id))
package log
