package util

import (
	"fmt"

	"github.com/pion/logging"
)

// PionLoggerFactory routes pion's scoped loggers into the pterm logger so
// ICE/DTLS diagnostics share one output stream with the application.
// Pion output below warn is only printed with -debug.
type PionLoggerFactory struct{}

// NewLogger implements logging.LoggerFactory.
func (PionLoggerFactory) NewLogger(scope string) logging.LeveledLogger {
	return &pionLogger{scope: scope}
}

var _ logging.LoggerFactory = PionLoggerFactory{}

type pionLogger struct {
	scope string
}

func (l *pionLogger) prefix(msg string) string {
	return fmt.Sprintf("[pion/%s] %s", l.scope, msg)
}

func (l *pionLogger) Trace(msg string) { LogTrace("%s", l.prefix(msg)) }
func (l *pionLogger) Tracef(format string, args ...interface{}) {
	LogTrace("%s", l.prefix(fmt.Sprintf(format, args...)))
}

func (l *pionLogger) Debug(msg string) { LogDebug("%s", l.prefix(msg)) }
func (l *pionLogger) Debugf(format string, args ...interface{}) {
	LogDebug("%s", l.prefix(fmt.Sprintf(format, args...)))
}

// Pion's info output is chatty (every candidate pair); keep it at debug.
func (l *pionLogger) Info(msg string) { LogDebug("%s", l.prefix(msg)) }
func (l *pionLogger) Infof(format string, args ...interface{}) {
	LogDebug("%s", l.prefix(fmt.Sprintf(format, args...)))
}

func (l *pionLogger) Warn(msg string) { LogWarning("%s", l.prefix(msg)) }
func (l *pionLogger) Warnf(format string, args ...interface{}) {
	LogWarning("%s", l.prefix(fmt.Sprintf(format, args...)))
}

func (l *pionLogger) Error(msg string) { LogError("%s", l.prefix(msg)) }
func (l *pionLogger) Errorf(format string, args ...interface{}) {
	LogError("%s", l.prefix(fmt.Sprintf(format, args...)))
}
