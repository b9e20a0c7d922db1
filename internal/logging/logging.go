// Package logging formats Lithium's structured, user-visible log lines:
// attempt announcements, round summaries, and the final
// "=== LITHIUM SUMMARY ===" block. It is configured once at startup via
// commonlog and renders lines colorized with fatih/color when enabled.
package logging

import (
	"fmt"
	"log"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"
)

// Logger prints Lithium's driver-loop narration. The zero value is usable
// but uncolored; use Configure to control verbosity and color.
type Logger struct {
	verbose bool
	color   bool
}

// Configure wires up commonlog's simple backend at the requested
// verbosity (0 = warnings only, higher = more detail) and returns a
// Logger. enableColor should be false when stdout is not a terminal or
// the user passed --no-color.
func Configure(verbosity int, enableColor bool) *Logger {
	commonlog.Configure(verbosity, nil)
	return &Logger{verbose: verbosity > 0, color: enableColor}
}

func (l *Logger) paint(c *color.Color, format string, args ...any) string {
	s := fmt.Sprintf(format, args...)
	if l == nil || !l.color {
		return s
	}
	return c.Sprint(s)
}

// Attempting announces a candidate about to be offered to the oracle.
func (l *Logger) Attempting(description string) {
	log.Print(l.paint(color.New(color.FgCyan), "Attempting: %s", description))
}

// Success reports an accepted reduction.
func (l *Logger) Success(description string) {
	log.Print(l.paint(color.New(color.FgGreen), "%s was successful", description))
}

// Failure reports a rejected reduction.
func (l *Logger) Failure(description string) {
	log.Print(l.paint(color.New(color.FgYellow), "%s made the file uninteresting", description))
}

// RoundSummary prints the per-round status string (e.g. "S...S-S-S...").
func (l *Logger) RoundSummary(chunkSize int, status string) {
	log.Printf("[chunk size %d] %s", chunkSize, status)
}

// Info prints a plain informational line, shown only when verbose.
func (l *Logger) Info(format string, args ...any) {
	if l != nil && !l.verbose {
		return
	}
	log.Printf(format, args...)
}

// Note prints a line that is always shown regardless of verbosity (load
// errors, the 1-minimality note, timeout notices).
func (l *Logger) Note(format string, args ...any) {
	log.Print(l.paint(color.New(color.FgMagenta), format, args...))
}

// Summary prints the final "=== LITHIUM SUMMARY ===" block.
func (l *Logger) Summary(initialSize, finalSize int, reduced bool) {
	log.Println("=== LITHIUM SUMMARY ===")
	log.Printf("Initial size: %d bytes", initialSize)
	log.Printf("Final size: %d bytes", finalSize)
	if reduced {
		log.Print(l.paint(color.New(color.FgGreen, color.Bold), "The testcase was reduced."))
	} else {
		log.Print(l.paint(color.New(color.FgYellow), "The testcase was not reduced further."))
	}
}
