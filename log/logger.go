package log

import (
	"fmt"
	"io"
	"strings"
)

// Level is a set of enabled message kinds.
type Level uint8

const (
	// LevelInfo enables progress messages.
	LevelInfo Level = 1 << iota
	// LevelWarn enables warnings.
	LevelWarn
	// LevelError enables non-fatal error reports.
	LevelError
	// LevelDebug enables debug output, including error stacks.
	LevelDebug

	// LevelAll enables everything.
	LevelAll = LevelInfo | LevelWarn | LevelError | LevelDebug
)

// Logger filters and prints messages to a destination
type Logger struct {
	output io.Writer
	levels Level
	color  bool
}

// New returns an instance of Logger with every level off and colours on.
func New(output io.Writer) *Logger {
	return &Logger{output: output, color: true}
}

func (l *Logger) set(level Level, value bool) {
	if value {
		l.levels |= level
	} else {
		l.levels &^= level
	}
}

// SetInfo activates/deactivates info level
func (l *Logger) SetInfo(value bool) { l.set(LevelInfo, value) }

// SetWarn activates/deactivates warn level
func (l *Logger) SetWarn(value bool) { l.set(LevelWarn, value) }

// SetError activates/deactivates error level
func (l *Logger) SetError(value bool) { l.set(LevelError, value) }

// SetDebug activates/deactivates debug level
func (l *Logger) SetDebug(value bool) { l.set(LevelDebug, value) }

// SetColor toggles ANSI colour directives.
func (l *Logger) SetColor(value bool) { l.color = value }

// Enabled reports whether every bit of level is on.
func (l *Logger) Enabled(level Level) bool {
	return l.levels&level == level
}

// Output is the logger destination.
func (l *Logger) Output() io.Writer {
	return l.output
}

// Logf writes a formatted message to the specified output
func (l *Logger) Logf(format string, a ...interface{}) {
	if !strings.HasSuffix(format, "\n") {
		format = format + "\n"
	}
	fmt.Fprintf(l.output, format, a...)
}

// Log writes message to the specified output
func (l *Logger) Log(a ...interface{}) {
	fmt.Fprintln(l.output, a...)
}

func (l *Logger) paint(color, msg string) string {
	if !l.color {
		return msg
	}
	return color + msg + ConsoleColors.Reset()
}

func (l *Logger) logWithColor(color string, a ...interface{}) {
	msg := strings.TrimSuffix(fmt.Sprintln(a...), "\n")
	l.Log(l.paint(color, msg))
}

func (l *Logger) logfWithColor(color string, format string, a ...interface{}) {
	msg := strings.TrimSuffix(fmt.Sprintf(format, a...), "\n")
	l.Log(l.paint(color, msg))
}

// Step prints a "==> " progress headline regardless of level.
func (l *Logger) Step(format string, a ...interface{}) {
	l.Log(l.paint(ConsoleColors.Green(), "==> ") + fmt.Sprintf(format, a...))
}

// Info checks info level is activated to write the message
func (l *Logger) Info(a ...interface{}) {
	if l.Enabled(LevelInfo) {
		l.logWithColor(ConsoleColors.Blue(), a...)
	}
}

// Infof checks info level is activated to write the formatted message
func (l *Logger) Infof(format string, a ...interface{}) {
	if l.Enabled(LevelInfo) {
		l.logfWithColor(ConsoleColors.Blue(), format, a...)
	}
}

// Warn checks warn level is activated to write the message
func (l *Logger) Warn(a ...interface{}) {
	if l.Enabled(LevelWarn) {
		l.logWithColor(ConsoleColors.Yellow(), a...)
	}
}

// Warnf checks warn level is activated to write the formatted message
func (l *Logger) Warnf(format string, a ...interface{}) {
	if l.Enabled(LevelWarn) {
		l.logfWithColor(ConsoleColors.Yellow(), format, a...)
	}
}

// Error writes the error. Errors are never filtered.
func (l *Logger) Error(err error) {
	l.logWithColor(ConsoleColors.Red(), err.Error())
}

// Errorf writes the formatted error message. Errors are never filtered.
func (l *Logger) Errorf(format string, a ...interface{}) {
	l.logfWithColor(ConsoleColors.Red(), format, a...)
}

// Debug checks debug level is activated to write the message
func (l *Logger) Debug(a ...interface{}) {
	if l.Enabled(LevelDebug) {
		l.logWithColor(ConsoleColors.Cyan(), a...)
	}
}

// Debugf checks debug level is activated to write the message
func (l *Logger) Debugf(format string, a ...interface{}) {
	if l.Enabled(LevelDebug) {
		l.logfWithColor(ConsoleColors.Cyan(), format, a...)
	}
}
