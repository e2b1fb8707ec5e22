package logger

import (
	"io"

	"github.com/ideamans/go-l10n"
	"github.com/sirupsen/logrus"

	"github.com/user/framecheck/pkg/ports"
)

// JSONLogger writes structured JSON lines through logrus.
// The component name is emitted as a field instead of a prefix.
type JSONLogger struct {
	entry *logrus.Entry
	level ports.LogLevel
}

// NewJSON creates a JSON logger writing to w at the specified level.
func NewJSON(level ports.LogLevel, w io.Writer) *JSONLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(toLogrusLevel(level))
	return &JSONLogger{
		entry: logrus.NewEntry(l),
		level: level,
	}
}

func toLogrusLevel(level ports.LogLevel) logrus.Level {
	switch level {
	case ports.LevelDebug:
		return logrus.DebugLevel
	case ports.LevelInfo:
		return logrus.InfoLevel
	case ports.LevelWarn:
		return logrus.WarnLevel
	case ports.LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.PanicLevel
	}
}

// Debug logs a debug message.
func (l *JSONLogger) Debug(msg string, args ...interface{}) {
	l.entry.Debug(l10n.F(msg, args...))
}

// Info logs an informational message.
func (l *JSONLogger) Info(msg string, args ...interface{}) {
	l.entry.Info(l10n.F(msg, args...))
}

// Warn logs a warning message.
func (l *JSONLogger) Warn(msg string, args ...interface{}) {
	l.entry.Warn(l10n.F(msg, args...))
}

// Error logs an error message.
func (l *JSONLogger) Error(msg string, args ...interface{}) {
	l.entry.Error(l10n.F(msg, args...))
}

// WithComponent returns a logger that tags every line with the component.
func (l *JSONLogger) WithComponent(component string) ports.Logger {
	return &JSONLogger{
		entry: l.entry.WithField("component", component),
		level: l.level,
	}
}

var _ ports.Logger = (*JSONLogger)(nil)
