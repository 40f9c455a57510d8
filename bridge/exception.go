// Package bridge defines the capability interface through which the
// coordination layer calls into managed code, along with the explicit
// outcome types for those calls.
package bridge

import (
	"fmt"
	"strings"
)

// SourceLocation represents a position in managed source code.
type SourceLocation struct {
	Filename string
	Line     int // 1-based line number
	Column   int // 1-based column number
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// StackFrame represents a single frame in a managed call stack.
type StackFrame struct {
	Function string
	Location SourceLocation
}

// String returns a formatted string representation of the stack frame.
func (f StackFrame) String() string {
	if f.Location.IsZero() {
		return fmt.Sprintf("at %s", f.Function)
	}
	return fmt.Sprintf("at %s (%s)", f.Function, f.Location.String())
}

// FormatStackTrace formats a slice of stack frames as a human-readable string.
func FormatStackTrace(frames []StackFrame) string {
	if len(frames) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Stack trace:\n")
	for _, frame := range frames {
		b.WriteString("  ")
		b.WriteString(frame.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Exception is a managed-code exception that escaped a call into managed
// code. It carries enough detail to be logged; it is never rethrown into
// the runtime.
type Exception struct {
	// Kind is the managed exception type name, e.g. "OutOfMemoryError".
	Kind string
	// Message is the exception's detail message, possibly empty.
	Message string
	// Stack is the managed call stack at the throw point, outermost last.
	Stack []StackFrame
}

// Error implements the error interface.
func (e *Exception) Error() string {
	if e.Message == "" {
		return e.Kind
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Describe returns the exception's description and stack trace, formatted
// for a diagnostic log.
func (e *Exception) Describe() string {
	var b strings.Builder
	b.WriteString(e.Error())
	if trace := FormatStackTrace(e.Stack); trace != "" {
		b.WriteString("\n")
		b.WriteString(trace)
	}
	return b.String()
}

// NewException creates an Exception with the given kind and formatted message.
func NewException(kind, format string, args ...any) *Exception {
	return &Exception{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithStack attaches a managed stack trace to the exception.
func (e *Exception) WithStack(frames []StackFrame) *Exception {
	e.Stack = frames
	return e
}
