package errors

import (
	"fmt"
	"io"
	"os"
)

// AnalyzerError is the interface implemented by all scope-analysis errors.
type AnalyzerError interface {
	error // Embed the standard error interface
	Pos() Position
	Kind() string // e.g., "Scope", "Layout", "Internal"
	// Message returns the specific error message without position info.
	// This might be useful if the caller wants to format the error differently.
	Message() string
	Unwrap() error // For error wrapping support (errors.Is/As)
}

// --- Concrete Error Types ---

// ScopeError represents a problem discovered while resolving variable
// references against the scope chain (e.g. an unresolved identifier).
// Scope errors are diagnostics: analysis continues past them.
type ScopeError struct {
	Position
	Function string // Identity of the scope being analyzed
	Variable string // Offending variable name, if any
	Depth    int    // Depth of the scope being analyzed
	Msg      string
	Cause    error // Underlying cause, if any
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("Scope Error in %s (depth %d): %s", e.Function, e.Depth, e.Msg)
}
func (e *ScopeError) Pos() Position   { return e.Position }
func (e *ScopeError) Kind() string    { return "Scope" }
func (e *ScopeError) Message() string { return e.Msg }
func (e *ScopeError) Unwrap() error   { return e.Cause }
func (e *ScopeError) CausedBy(cause error) *ScopeError {
	e.Cause = cause
	return e
}

// LayoutError represents a problem computing a scope's memory layout
// (offset assignment, frame sizing, register allocation).
type LayoutError struct {
	Position
	Function string
	Variable string
	Depth    int
	Msg      string
	Cause    error // Underlying cause, if any
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("Layout Error in %s (depth %d): %s", e.Function, e.Depth, e.Msg)
}
func (e *LayoutError) Pos() Position   { return e.Position }
func (e *LayoutError) Kind() string    { return "Layout" }
func (e *LayoutError) Message() string { return e.Msg }
func (e *LayoutError) Unwrap() error   { return e.Cause }
func (e *LayoutError) CausedBy(cause error) *LayoutError {
	e.Cause = cause
	return e
}

// InternalError represents an invariant violation inside the analyzer
// itself (e.g. a zero alignment or negative offset). Internal errors
// abort analysis for the whole compilation unit.
type InternalError struct {
	Position
	Function string
	Variable string
	Depth    int
	Msg      string
	Cause    error // Underlying cause, if any
}

func (e *InternalError) Error() string {
	if e.Variable != "" {
		return fmt.Sprintf("Internal Error in %s (depth %d), variable %q: %s", e.Function, e.Depth, e.Variable, e.Msg)
	}
	return fmt.Sprintf("Internal Error in %s (depth %d): %s", e.Function, e.Depth, e.Msg)
}
func (e *InternalError) Pos() Position   { return e.Position }
func (e *InternalError) Kind() string    { return "Internal" }
func (e *InternalError) Message() string { return e.Msg }
func (e *InternalError) Unwrap() error   { return e.Cause }
func (e *InternalError) CausedBy(cause error) *InternalError {
	e.Cause = cause
	return e
}

// --- Error Reporting ---

// DisplayErrors prints a list of analyzer errors to stderr in a
// user-friendly format. Unlike syntax errors there is rarely a source
// line to quote, so the report is one line per diagnostic.
func DisplayErrors(errs []AnalyzerError) {
	DisplayErrorsTo(os.Stderr, errs)
}

// DisplayErrorsTo writes the diagnostic report to w.
func DisplayErrorsTo(w io.Writer, errs []AnalyzerError) {
	for _, err := range errs {
		pos := err.Pos()
		if pos.IsZero() {
			fmt.Fprintf(w, "%s Error: %s\n", err.Kind(), err.Message())
			continue
		}
		fmt.Fprintf(w, "%s Error at %d:%d: %s\n", err.Kind(), pos.Line, pos.Column, err.Message())
	}
}
