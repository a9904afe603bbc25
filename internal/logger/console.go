// Package logger provides the leveled console logger used by drvx.
//
// Messages go to stderr by default so that stdout carries nothing but the
// scanned paths.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

// ConsoleLogger writes "[HH:MM:SS] [LEVEL] message" lines to a writer.
// It is safe for concurrent use.
type ConsoleLogger struct {
	writer      io.Writer
	level       int
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a logger. A nil writer discards everything and
// an unknown level falls back to info.
func NewConsoleLogger(writer io.Writer, level string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		level:       parseLevel(level),
		colorOutput: isTerminal(writer),
	}
}

// Nop returns a logger that drops every message.
func Nop() *ConsoleLogger {
	return NewConsoleLogger(nil, "error")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func parseLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return levelDebug
	case "warn", "warning":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// SetLevel changes the minimum level at runtime.
func (l *ConsoleLogger) SetLevel(level string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.level = parseLevel(level)
}

func (l *ConsoleLogger) Debugf(format string, args ...any) {
	l.log(levelDebug, "DEBUG", format, args...)
}

func (l *ConsoleLogger) Infof(format string, args ...any) {
	l.log(levelInfo, "INFO", format, args...)
}

func (l *ConsoleLogger) Warnf(format string, args ...any) {
	l.log(levelWarn, "WARN", format, args...)
}

func (l *ConsoleLogger) Errorf(format string, args ...any) {
	l.log(levelError, "ERROR", format, args...)
}

func (l *ConsoleLogger) log(level int, tag, format string, args ...any) {
	if l.writer == nil {
		return
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	if level < l.level {
		return
	}

	if l.colorOutput {
		tag = levelColor(level).Sprint(tag)
	}
	fmt.Fprintf(l.writer, "[%s] [%s] %s\n", time.Now().Format("15:04:05"), tag, fmt.Sprintf(format, args...))
}

func levelColor(level int) *color.Color {
	switch level {
	case levelDebug:
		return color.New(color.FgCyan)
	case levelWarn:
		return color.New(color.FgYellow)
	case levelError:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgBlue)
	}
}
