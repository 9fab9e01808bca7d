// Package logger prints leveled, color-prefixed log lines for one component.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/beka-birhanu/vinom-maze/config"
)

// Logger writes lines of the form "[PREFIX] [LEVEL] message".
type Logger struct {
	prefix string
	color  string
	out    *log.Logger
}

// New creates a Logger for the named component. color is one of the ANSI constants in config.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if prefix == "" {
		return nil, errors.New("logger prefix is required")
	}
	if w == nil {
		return nil, errors.New("logger writer is required")
	}
	return &Logger{
		prefix: prefix,
		color:  color,
		out:    log.New(w, "", log.LstdFlags),
	}, nil
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.print(config.LogInfoColor, "INFO", msg)
}

// Warning logs a recoverable problem.
func (l *Logger) Warning(msg string) {
	l.print(config.LogWarnColor, "WARN", msg)
}

// Error logs a failure.
func (l *Logger) Error(msg string) {
	l.print(config.LogErrorColor, "ERROR", msg)
}

// Infof formats and logs an informational message.
func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

// Errorf formats and logs a failure.
func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) print(levelColor, level, msg string) {
	l.out.Printf("%s[%s]%s %s[%s]%s %s", l.color, l.prefix, config.ColorReset, levelColor, level, config.LogColorReset, msg)
}
