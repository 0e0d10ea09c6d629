// Package diag collects and presents translation diagnostics.
package diag

import (
	"fmt"

	"github.com/gogpu/fragc/syntax"
)

// Error is a single translation diagnostic.
type Error struct {
	Span  syntax.Span
	Short string
	Full  string

	// CallStack lists the call sites leading to the error, outermost first.
	// It is empty for errors that are not produced by whole-program checks.
	CallStack []syntax.Span
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Full
	if msg == "" {
		msg = e.Short
	}
	if e.Span.IsZero() {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Span, msg)
}

// Sink receives diagnostics as they are produced.
type Sink interface {
	Report(e *Error)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(e *Error)

// Report calls f(e).
func (f SinkFunc) Report(e *Error) { f(e) }

// List is a Sink that keeps every diagnostic and optionally forwards them.
type List struct {
	Errors []*Error

	// Forward, if set, also receives every reported error.
	Forward Sink
}

// Report appends e and forwards it.
func (l *List) Report(e *Error) {
	l.Errors = append(l.Errors, e)
	if l.Forward != nil {
		l.Forward.Report(e)
	}
}

// Add reports an error built from its parts.
func (l *List) Add(span syntax.Span, short, full string) *Error {
	e := &Error{Span: span, Short: short, Full: full}
	l.Report(e)
	return e
}

// Addf reports an error whose short and full messages are the same.
func (l *List) Addf(span syntax.Span, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return l.Add(span, msg, msg)
}

// ErrorTriggered reports whether any error has been reported.
func (l *List) ErrorTriggered() bool {
	return len(l.Errors) > 0
}

// Len returns the number of errors.
func (l *List) Len() int {
	return len(l.Errors)
}

// Error implements the error interface.
func (l *List) Error() string {
	switch len(l.Errors) {
	case 0:
		return "no errors"
	case 1:
		return l.Errors[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l.Errors[0].Error(), len(l.Errors)-1)
}
