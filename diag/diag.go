// Package diag reports fatal assembly and runtime errors, showing the
// faulting source line with its surrounding context, then exits.
package diag

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tebeka/atexit"
)

const (
	CONTEXT   = 5 // Lines of context before and after the faulting line.
	EXIT_CODE = 1 // Process status after a fatal error.
)

var rule = strings.Repeat("-", 76)

// Located is an error that knows the zero-based source line it came from.
type Located interface {
	error
	Index() int
	Unwrap() error
}

// Reporter prints diagnostics and terminates the process.
type Reporter struct {
	Output io.Writer      // Where diagnostics are written.
	Exit   func(code int) // Process exit; runs atexit handlers by default.
}

// NewReporter reports to stderr, exiting through atexit.
func NewReporter() *Reporter {
	return &Reporter{
		Output: os.Stderr,
		Exit:   atexit.Exit,
	}
}

// Context prints up to CONTEXT lines around lines[index], marking it with
// message. Lines are numbered from 1.
func (r *Reporter) Context(lines []string, index int, message string) {
	w := r.Output

	fmt.Fprintln(w, rule)

	if index >= 0 && index < len(lines) {
		for n := max(index-CONTEXT, 0); n < index; n++ {
			fmt.Fprintf(w, "%8d | %s\n", n+1, lines[n])
		}
		fmt.Fprintf(w, "%8d | %s <----------------- %s\n", index+1, lines[index], message)
		for n := index + 1; n < min(index+1+CONTEXT, len(lines)); n++ {
			fmt.Fprintf(w, "%8d | %s\n", n+1, lines[n])
		}
	} else {
		fmt.Fprintf(w, "%8s | %s\n", "", message)
	}

	fmt.Fprintln(w, rule)
}

// Message flattens an error into a single line.
func Message(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", ": ")
}

// Fatal reports err, with source context if it is Located, then exits.
func (r *Reporter) Fatal(lines []string, err error) {
	var located Located
	if errors.As(err, &located) {
		r.Context(lines, located.Index(), Message(located.Unwrap()))
	} else {
		fmt.Fprintln(r.Output, Message(err))
	}

	r.Exit(EXIT_CODE)
}
