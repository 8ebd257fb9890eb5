package log

import (
	"io"
	"os"

	"github.com/fastkernel/kforge/types"
)

var defaultLogger *Logger

// Make sure default logger instantiated by default.
func init() {
	defaultLogger = New(os.Stderr)
}

// InitDefault creates default logger for package-level logging access.
func InitDefault(output io.Writer, config *types.Config) {
	defaultLogger = New(output)

	if config == nil {
		return
	}

	rc := config.RunConfig
	if rc.ShowDebug {
		defaultLogger.SetDebug(true)
		defaultLogger.SetWarn(true)
		defaultLogger.SetError(true)
		defaultLogger.SetInfo(true)
	}

	if rc.ShowWarnings {
		defaultLogger.SetWarn(true)
	}

	if rc.ShowErrors {
		defaultLogger.SetError(true)
	}

	if rc.Verbose {
		defaultLogger.SetInfo(true)
	}

	// machine readable output must stay free of escape codes
	if rc.JSON {
		defaultLogger.SetColor(false)
	}
}

// Default returns the package-level logger.
func Default() *Logger {
	return defaultLogger
}

// Enabled reports whether level is on for the default logger.
func Enabled(level Level) bool {
	return defaultLogger.Enabled(level)
}

// Step prints a progress headline using default logger.
func Step(format string, a ...interface{}) {
	defaultLogger.Step(format, a...)
}

// Info logs info-level message using default logger.
func Info(a ...interface{}) {
	defaultLogger.Info(a...)
}

// Infof logs info-level formatted message using default logger.
func Infof(format string, a ...interface{}) {
	defaultLogger.Infof(format, a...)
}

// Warn logs warning-level message using default logger.
func Warn(a ...interface{}) {
	defaultLogger.Warn(a...)
}

// Warnf logs warning-level formatted message using default logger.
func Warnf(format string, a ...interface{}) {
	defaultLogger.Warnf(format, a...)
}

// Errorf logs error-level formatted string message using default logger.
func Errorf(format string, a ...interface{}) {
	defaultLogger.Errorf(format, a...)
}

// Error logs error-level message using default logger.
func Error(err error) {
	defaultLogger.Error(err)
}

// Debug logs debug-level message using default logger.
func Debug(a ...interface{}) {
	defaultLogger.Debug(a...)
}

// Debugf logs debug-level formatted message using default logger.
func Debugf(format string, a ...interface{}) {
	defaultLogger.Debugf(format, a...)
}
