package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Log level constants for filtering
const (
	levelTrace int = iota
	levelDebug
	levelInfo
	levelWarn
	levelError
)

// Logger writes leveled diagnostics to a writer. It is safe for use from
// walker goroutines.
type Logger struct {
	writer io.Writer
	level  int
	mutex  sync.Mutex
	color  bool
}

// NewLogger creates a Logger writing to w. Unknown levels fall back to "warn".
// If w is nil, messages are discarded.
func NewLogger(w io.Writer, level string) *Logger {
	return &Logger{
		writer: w,
		level:  parseLogLevel(level),
		color:  isTerminal(w),
	}
}

// isTerminal reports whether w is a TTY that should get colored prefixes.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	// color.NoColor only describes stdout, so NO_COLOR is checked per writer.
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func parseLogLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn", "warning":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelWarn
	}
}

func (l *Logger) Tracef(format string, args ...interface{}) { l.logf(levelTrace, format, args...) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.logf(levelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.logf(levelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.logf(levelWarn, format, args...) }

func (l *Logger) logf(level int, format string, args ...interface{}) {
	if l == nil || l.writer == nil || level < l.level {
		return
	}

	prefix := levelPrefix(level)
	if l.color {
		prefix = levelColor(level).Sprint(prefix)
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()
	fmt.Fprintf(l.writer, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

func levelPrefix(level int) string {
	switch level {
	case levelTrace:
		return "[TRACE]"
	case levelDebug:
		return "[DEBUG]"
	case levelInfo:
		return "[INFO]"
	case levelWarn:
		return "[WARN]"
	default:
		return "[ERROR]"
	}
}

func levelColor(level int) *color.Color {
	var c *color.Color
	switch level {
	case levelTrace:
		c = color.New(color.FgHiBlack)
	case levelDebug:
		c = color.New(color.FgCyan)
	case levelInfo:
		c = color.New(color.FgBlue)
	case levelWarn:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgRed)
	}
	// color.NoColor tracks stdout; the logger already checked its own writer.
	c.EnableColor()
	return c
}
