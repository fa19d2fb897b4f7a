// Package monitoring provides the process-wide diagnostic logger for the
// tracking pipeline. Core code reports recoverable conditions (dropped
// candidates, skipped frames, greedy-fallback subnets) through Logf; tests
// and embedding applications can redirect or mute it.
package monitoring

import (
	"os"

	"github.com/rs/zerolog"
)

var base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// Logf is the package-level diagnostic logger. It defaults to the zerolog
// console writer at debug level but may be replaced by SetLogger.
var Logf func(format string, v ...interface{}) = defaultLogf

func defaultLogf(format string, v ...interface{}) {
	base.Debug().Msgf(format, v...)
}

// SetLogger replaces the package logger. Passing nil installs a no-op
// logger, which is the usual choice for tests.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
