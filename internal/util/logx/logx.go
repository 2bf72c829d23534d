// Package logx is the application log. Lines are kept in memory for the
// app-log modal; stderr output is opt-in because the TUI owns the terminal.
package logx

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

const maxLines = 500

var (
	mu    sync.Mutex
	level = Info
	// ring of the last maxLines lines; next is the slot written next
	ring     = make([]string, 0, maxLines)
	next     int
	toStderr bool
)

// ParseLevel maps a level name to a Level.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, true
	case "info":
		return Info, true
	case "warn", "warning":
		return Warn, true
	case "error":
		return Error, true
	}
	return Info, false
}

func SetLevel(l Level) { mu.Lock(); level = l; mu.Unlock() }

// SetLevelFromEnv reads LOGPANE_LOG_LEVEL and LOGPANE_LOG_STDERR.
func SetLevelFromEnv() {
	if l, ok := ParseLevel(os.Getenv("LOGPANE_LOG_LEVEL")); ok {
		SetLevel(l)
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("LOGPANE_LOG_STDERR"))); v != "" {
		mu.Lock()
		toStderr = v != "0" && v != "false" && v != "no"
		mu.Unlock()
	}
}

func Debugf(format string, a ...any) { logf(Debug, format, a...) }
func Infof(format string, a ...any)  { logf(Info, format, a...) }
func Warnf(format string, a ...any)  { logf(Warn, format, a...) }
func Errorf(format string, a ...any) { logf(Error, format, a...) }

func logf(l Level, format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	if l < level {
		return
	}
	line := fmt.Sprintf("%s %-5s %s", time.Now().Format("2006-01-02T15:04:05.000Z07:00"), l, fmt.Sprintf(format, a...))
	if len(ring) < maxLines {
		ring = append(ring, line)
	} else {
		ring[next] = line
	}
	next = (next + 1) % maxLines
	if toStderr {
		fmt.Fprintln(os.Stderr, line)
	}
}

// Lines returns the retained lines, oldest first.
func Lines() []string {
	mu.Lock()
	defer mu.Unlock()
	return ordered()
}

func Dump() string { return strings.Join(Lines(), "\n") }

func ordered() []string {
	out := make([]string, 0, len(ring))
	if len(ring) < maxLines {
		return append(out, ring...)
	}
	out = append(out, ring[next:]...)
	return append(out, ring[:next]...)
}
