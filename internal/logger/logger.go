// Package logger is the artisan CLI's diagnostic output. Everything below
// error level is shown only in verbose mode (--verbose or ARTISAN_VERBOSE)
// and lets users follow endpoint resolution, requests and per-file
// ingestion. Output goes to stderr so stdout stays free for protocol
// traffic.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

type level struct {
	tag    string
	always bool
	paint  *color.Color
}

var (
	debugLevel = level{tag: "DEBUG", paint: color.New(color.Faint)}
	infoLevel  = level{tag: "INFO", paint: color.New(color.FgCyan)}
	warnLevel  = level{tag: "WARN", paint: color.New(color.FgYellow)}
	errorLevel = level{tag: "ERROR", always: true, paint: color.New(color.FgRed, color.Bold)}
)

var (
	mu      sync.RWMutex
	verbose bool
	out     io.Writer = os.Stderr
)

func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
}

func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects all logging. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	out = w
	mu.Unlock()
}

// write holds the lock across the write so lines never interleave.
func write(l level, format string, args []any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose && !l.always {
		return
	}
	fmt.Fprintf(out, "%s %s\n", l.paint.Sprint("["+l.tag+"]"), fmt.Sprintf(format, args...))
}

// Debug logs a debug message when verbose mode is on.
func Debug(format string, args ...any) { write(debugLevel, format, args) }

// Info logs an informational message when verbose mode is on.
func Info(format string, args ...any) { write(infoLevel, format, args) }

// Warn logs a warning when verbose mode is on.
func Warn(format string, args ...any) { write(warnLevel, format, args) }

// Error is printed even when verbose mode is off.
func Error(format string, args ...any) { write(errorLevel, format, args) }

// Section starts a titled block of verbose output.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(out, "\n=== %s ===\n", name)
	}
}
