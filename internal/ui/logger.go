// Package ui implements the leveled terminal logger used across chartmint.
package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelInfo
	LogLevelDebug
	LogLevelDebugVerbose
)

// Options configures the Logger.
type Options struct {
	// Out is where user-facing logs are printed.
	// In most cases this should be os.Stderr so command output on
	// stdout (resolved tags, decisions) stays machine-readable.
	Out io.Writer

	// LogLevel controls the amount of logs printed.
	// error < info < debug < debugVerbose
	LogLevel LogLevel
}

// Logger is the stdout/stderr logger.
type Logger struct {
	out   io.Writer
	mu    sync.Mutex
	style styles

	logLevel LogLevel
}

// styles for log levels and banners.
type styles struct {
	logInfo  lipgloss.Style
	logWarn  lipgloss.Style
	logError lipgloss.Style
	banner   lipgloss.Style
	command  lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		logInfo:  lipgloss.NewStyle(),
		logWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // orange-ish
		logError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
		banner:   lipgloss.NewStyle().Bold(true),
		command:  lipgloss.NewStyle().Faint(true),
	}
}

// New creates a new Logger.
func New(opts Options) *Logger {
	if opts.Out == nil {
		opts.Out = os.Stderr
	}

	return &Logger{
		out:      opts.Out,
		style:    defaultStyles(),
		logLevel: opts.LogLevel,
	}
}

func (l *Logger) SetLogLevel(logLevel LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logLevel = logLevel
}

func (l *Logger) MuteOutput() (restore func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.out
	l.out = io.Discard
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.out = prev
	}
}

func (l *Logger) Error(format string, args ...any) {
	l.printLog("ERR ", l.style.logError, format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.printLog("WARN", l.style.logWarn, format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	if l.logLevel >= LogLevelInfo {
		l.printLog("INFO", l.style.logInfo, format, args...)
	}
}

func (l *Logger) Debug(format string, args ...any) {
	if l.logLevel >= LogLevelDebug {
		l.printLog("DEBG", l.style.logInfo, format, args...)
	}
}

// Command echoes an external command line before it runs, like a shell
// prompt would. Secrets must be redacted by the caller.
func (l *Logger) Command(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.out, l.style.command.Render("$> "+line))
}

// Banner prints a bold section title.
func (l *Logger) Banner(title string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.out, l.style.banner.Render(title))
}

// Out exposes the underlying writer, e.g. for streaming subprocess output.
func (l *Logger) Out() io.Writer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out
}

func (l *Logger) printLog(level string, style lipgloss.Style, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02T15:04:05.000")
	line := fmt.Sprintf("[%s] [%s] %s", timestamp, level, msg)

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.out, style.Render(line))
}
