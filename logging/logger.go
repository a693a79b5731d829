// Package logging provides the minimal diagnostic-logging seam used by
// transport and discovery. It exists so hosts can redirect SyncMist's
// diagnostic output without the core depending on a particular logging
// framework.
package logging

import "log"

// Logger is the narrow surface transport and discovery components log
// through. Hosts may supply their own implementation; NewLogLogger wraps
// the standard library logger for use when none is supplied.
type Logger interface {
	Printf(format string, v ...any)
}

// LogLogger implements Logger on top of the standard library's log package.
type LogLogger struct{}

// NewLogLogger returns a Logger backed by the standard library logger.
func NewLogLogger() Logger {
	return LogLogger{}
}

func (LogLogger) Printf(format string, v ...any) {
	log.Printf(format, v...)
}
