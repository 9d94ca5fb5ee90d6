// Package diag defines the diagnostic taxonomy produced by pkg/parser:
// severities, labels, and the five concrete error kinds the parser can
// emit, each carrying the spans a renderer needs to point at source text.
package diag

import (
	"fmt"
	"sort"

	"github.com/conneroisu/nixast/internal/ast"
)

// Severity classifies how serious a Diagnostic is. The parser itself only
// ever produces Error; Warning and Note are reserved for future use by
// downstream consumers that build on this package.
type Severity int

const (
	Error Severity = iota
	Warning
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Label attaches a short message to a span, either the diagnostic's
// primary point of interest or a secondary supporting reference.
type Label struct {
	Span    ast.Span
	Message string
}

// Diagnostic is one parser-produced error: a message, a severity, a
// primary label pointing at the offending span, and zero or more
// secondary labels pointing at related spans (e.g. the delimiter a
// mismatched closer was possibly meant to close).
type Diagnostic struct {
	Severity  Severity
	Message   string
	Primary   Label
	Secondary []Label
}

// Span is the diagnostic's primary span, used to sort diagnostics by
// source position.
func (d Diagnostic) Span() ast.Span { return d.Primary.Span }

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (at %s)", d.Severity, d.Message, d.Primary.Span)
}

// Errors is an accumulated, order-preserving collection of diagnostics,
// the type every recovery combinator in pkg/partial threads through a
// parse.
type Errors struct {
	items []Diagnostic
}

// NewErrors builds an empty collection.
func NewErrors() Errors { return Errors{} }

// Push appends a diagnostic.
func (e *Errors) Push(d Diagnostic) { e.items = append(e.items, d) }

// Extend appends every diagnostic from other, in order.
func (e *Errors) Extend(other Errors) { e.items = append(e.items, other.items...) }

// HasErrors reports whether any diagnostic of Severity Error is present.
func (e Errors) HasErrors() bool {
	for _, d := range e.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Len reports the total diagnostic count, of any severity.
func (e Errors) Len() int { return len(e.items) }

// All returns the accumulated diagnostics in insertion order.
func (e Errors) All() []Diagnostic { return e.items }

// Sorted returns the accumulated diagnostics ordered by primary span start
// offset, the order a renderer walking the source file top to bottom
// would want them in.
func (e Errors) Sorted() []Diagnostic {
	out := make([]Diagnostic, len(e.items))
	copy(out, e.items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Primary.Span.Start < out[j].Primary.Span.Start
	})
	return out
}

// Error implements the error interface so an Errors value can be returned
// directly from a strict parse entry point.
func (e Errors) Error() string {
	if len(e.items) == 0 {
		return "no errors"
	}
	if len(e.items) == 1 {
		return e.items[0].String()
	}
	return fmt.Sprintf("%s (and %d more diagnostic(s))", e.items[0].String(), len(e.items)-1)
}
