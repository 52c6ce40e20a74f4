package config

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger builds a charmbracelet/log logger at the level named by
// Options.LogLevel, writing to os.Stderr. Callers that want a silent
// engine (e.g. unit tests) can pass log.New(io.Discard) directly to the
// orchestrator instead of calling this.
func (o Options) NewLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "placer",
	})
	logger.SetLevel(o.logLevel())
	return logger
}

// DiscardLogger returns a logger that drops all output, used as the
// orchestrator's default when no logger is supplied.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard)
}

func (o Options) logLevel() log.Level {
	switch o.LogLevel {
	case LogLevelDebug:
		return log.DebugLevel
	case LogLevelWarn:
		return log.WarnLevel
	case LogLevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
