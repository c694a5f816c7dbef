package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	successMark = color.New(color.FgGreen).SprintFunc()
	errorMark   = color.New(color.FgRed).SprintFunc()
	warningMark = color.New(color.FgYellow).SprintFunc()
	debugMark   = color.New(color.FgCyan).SprintFunc()
	headerStyle = color.New(color.Bold).SprintFunc()
)

// Output handles styled terminal output.
type Output struct {
	out     io.Writer
	err     io.Writer
	noColor bool
	debug   bool
}

// NewOutput creates an Output bound to stdout and stderr.
func NewOutput() *Output {
	return &Output{out: os.Stdout, err: os.Stderr, noColor: color.NoColor}
}

// NewOutputTo creates an Output writing to the given streams without color.
func NewOutputTo(out, err io.Writer) *Output {
	return &Output{out: out, err: err, noColor: true}
}

// SetNoColor disables colored output.
func (o *Output) SetNoColor(v bool) {
	o.noColor = v
}

// SetDebug enables Debug messages.
func (o *Output) SetDebug(v bool) {
	o.debug = v
}

// Success prints a success message with a green checkmark.
func (o *Output) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if o.noColor {
		fmt.Fprintf(o.out, "OK %s\n", msg)
	} else {
		fmt.Fprintf(o.out, "%s %s\n", successMark("✓"), msg)
	}
}

// Error prints an error message with a red X.
func (o *Output) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if o.noColor {
		fmt.Fprintf(o.err, "FAIL %s\n", msg)
	} else {
		fmt.Fprintf(o.err, "%s %s\n", errorMark("✗"), msg)
	}
}

// Warning prints a warning message with a yellow exclamation.
func (o *Output) Warning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if o.noColor {
		fmt.Fprintf(o.err, "WARN %s\n", msg)
	} else {
		fmt.Fprintf(o.err, "%s %s\n", warningMark("!"), msg)
	}
}

// Info prints an informational message.
func (o *Output) Info(format string, args ...any) {
	fmt.Fprintf(o.out, format+"\n", args...)
}

// Println prints a line to stdout.
func (o *Output) Println(format string, args ...any) {
	fmt.Fprintf(o.out, format+"\n", args...)
}

// Debug prints a debug message to stderr when debug output is enabled.
func (o *Output) Debug(format string, args ...any) {
	if !o.debug {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if o.noColor {
		fmt.Fprintf(o.err, "DEBUG %s\n", msg)
	} else {
		fmt.Fprintf(o.err, "%s %s\n", debugMark("[debug]"), msg)
	}
}

// Table prints a simple aligned table.
func (o *Output) Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var header strings.Builder
	for i, h := range headers {
		fmt.Fprintf(&header, "%-*s  ", widths[i], h)
	}
	line := strings.TrimRight(header.String(), " ")
	if !o.noColor {
		line = headerStyle(line)
	}
	fmt.Fprintln(o.out, line)

	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	fmt.Fprintln(o.out, strings.Join(seps, "  "))

	for _, row := range rows {
		var b strings.Builder
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprintf(&b, "%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(o.out, strings.TrimRight(b.String(), " "))
	}
}
